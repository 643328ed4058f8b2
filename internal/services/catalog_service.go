package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"catalog/internal/models"
	"catalog/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CatalogService owns the Product schema rules: payload validation, id and
// timestamp stamping, owner authorization, and every query shape. It reads
// and writes through an OrderedStore and knows nothing about transports.
//
// The mutex is held across each read-modify-write sequence so concurrent
// requests never observe a partially applied mutation and updates are never
// lost between a Get and the following Insert.
type CatalogService struct {
	mu       sync.Mutex
	store    storage.OrderedStore
	events   EventPublisher
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// Option overrides a CatalogService default, mainly for tests.
type Option func(*CatalogService)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) {
		s.now = now
	}
}

// WithIDGenerator replaces the id generator. The default is a UUIDv4; any
// collision-free source works.
func WithIDGenerator(gen func() string) Option {
	return func(s *CatalogService) {
		s.newID = gen
	}
}

// NewCatalogService creates a CatalogService over the given store. A nil
// events publisher disables event publishing.
func NewCatalogService(store storage.OrderedStore, events EventPublisher, opts ...Option) *CatalogService {
	s := &CatalogService{
		store:    store,
		events:   events,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the payload, mints a fresh id, stamps the creating caller
// as owner and the current time as createdAt, and persists the record.
// UpdatedAt stays nil until the first mutation.
func (s *CatalogService) Create(payload models.ProductPayload, caller string) (*models.Product, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := models.Product{
		ID:        s.newID(),
		Name:      payload.Name,
		Gender:    payload.Gender,
		Size:      payload.Size,
		Price:     payload.Price,
		Brand:     payload.Brand,
		Image:     payload.Image,
		Owner:     caller,
		CreatedAt: s.now(),
	}

	if err := s.save(&product); err != nil {
		return nil, err
	}

	s.publish(EventProductCreated, &product)
	return &product, nil
}

// GetByID returns the record stored under id.
func (s *CatalogService) GetByID(id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// GetAll returns every record in ascending id order.
func (s *CatalogService) GetAll() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// Update replaces every payload field of an existing record. The identity
// fields (id, owner, createdAt) are preserved and updatedAt is refreshed.
func (s *CatalogService) Update(id string, payload models.ProductPayload) (*models.Product, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	return s.patch(id, models.ProductPatch{
		Name:   &payload.Name,
		Gender: &payload.Gender,
		Size:   &payload.Size,
		Price:  &payload.Price,
		Brand:  &payload.Brand,
		Image:  &payload.Image,
	}, EventProductUpdated)
}

// UpdateName changes only the name field.
func (s *CatalogService) UpdateName(id, name string) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Name: &name}, EventProductUpdated)
}

// UpdatePrice changes only the price field.
func (s *CatalogService) UpdatePrice(id string, price float64) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Price: &price}, EventProductUpdated)
}

// UpdateSize changes only the size field.
func (s *CatalogService) UpdateSize(id, size string) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Size: &size}, EventProductUpdated)
}

// UpdateBrand changes only the brand field.
func (s *CatalogService) UpdateBrand(id, brand string) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Brand: &brand}, EventProductUpdated)
}

// UpdateImage changes only the image field.
func (s *CatalogService) UpdateImage(id, image string) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Image: &image}, EventProductUpdated)
}

// TransferOwner reassigns the record to newOwner and refreshes updatedAt.
//
// Deliberately unauthenticated: any caller may reassign ownership while
// delete requires the current owner. The asymmetry is inherited behavior and
// is documented rather than fixed; see DESIGN.md.
func (s *CatalogService) TransferOwner(id, newOwner string) (*models.Product, error) {
	return s.patch(id, models.ProductPatch{Owner: &newOwner}, EventProductOwnerTransferred)
}

// Delete removes the record stored under id. Only the record's owner may
// delete it; identity comparison is exact match on the opaque token.
func (s *CatalogService) Delete(id, caller string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if product.Owner != caller {
		return nil, fmt.Errorf("%w: caller %s does not own product %s", ErrUnauthorized, caller, id)
	}

	if _, _, err := s.store.Remove(id); err != nil {
		return nil, err
	}

	s.publish(EventProductDeleted, product)
	return product, nil
}

// DeleteByOwner removes the record after checking it belongs to the given
// owner. Same authorization rule as Delete with the owner passed explicitly.
func (s *CatalogService) DeleteByOwner(owner, id string) (*models.Product, error) {
	return s.Delete(id, owner)
}

// SearchByBrand returns every record with the exact brand, in id order.
func (s *CatalogService) SearchByBrand(brand string) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Brand == brand })
}

// SearchBySize returns every record with the exact size, in id order.
func (s *CatalogService) SearchBySize(size string) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Size == size })
}

// SearchByGender returns every record with the exact gender, in id order.
func (s *CatalogService) SearchByGender(gender string) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Gender == gender })
}

// SearchByOwner returns every record owned by the given identity, in id order.
func (s *CatalogService) SearchByOwner(owner string) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Owner == owner })
}

// SearchByPriceRange returns every record with min <= price <= max, in id
// order. Both bounds are inclusive.
func (s *CatalogService) SearchByPriceRange(min, max float64) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Price >= min && p.Price <= max })
}

// SearchByGenderAndBrand returns every record matching both fields, in id
// order.
func (s *CatalogService) SearchByGenderAndBrand(gender, brand string) ([]models.Product, error) {
	return s.search(func(p *models.Product) bool { return p.Gender == gender && p.Brand == brand })
}

// GetByBrandAndSize returns the single record matching both fields. When more
// than one record matches, the first in id order wins; that tie-break is the
// defined behavior, uniqueness is not enforced at create time.
func (s *CatalogService) GetByBrandAndSize(brand, size string) (*models.Product, error) {
	return s.searchOne(
		func(p *models.Product) bool { return p.Brand == brand && p.Size == size },
		fmt.Sprintf("brand=%s size=%s", brand, size),
	)
}

// GetByOwnerAndName returns the single record matching both fields, first in
// id order on a duplicate match.
func (s *CatalogService) GetByOwnerAndName(owner, name string) (*models.Product, error) {
	return s.searchOne(
		func(p *models.Product) bool { return p.Owner == owner && p.Name == name },
		fmt.Sprintf("owner=%s name=%s", owner, name),
	)
}

// validatePayload rejects empty required fields and non-positive prices
// before anything touches the store.
func (s *CatalogService) validatePayload(payload models.ProductPayload) error {
	if err := s.validate.Struct(payload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, e := range validationErrors {
			return fmt.Errorf("%w: field '%s' failed on the '%s' rule", ErrValidation, e.Field(), e.Tag())
		}
	}
	return nil
}

// patch is the single merge path every mutation goes through: it loads the
// existing record, overlays the non-nil patch fields, preserves id and
// createdAt (and owner, unless the patch targets it), refreshes updatedAt,
// validates the merged result, and persists it.
func (s *CatalogService) patch(id string, patch models.ProductPatch, event string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Gender != nil {
		merged.Gender = *patch.Gender
	}
	if patch.Size != nil {
		merged.Size = *patch.Size
	}
	if patch.Price != nil {
		merged.Price = *patch.Price
	}
	if patch.Brand != nil {
		merged.Brand = *patch.Brand
	}
	if patch.Image != nil {
		merged.Image = *patch.Image
	}
	if patch.Owner != nil {
		merged.Owner = *patch.Owner
	}
	updatedAt := s.now()
	merged.UpdatedAt = &updatedAt

	// The merged record must still satisfy the schema invariants; a partial
	// update cannot sneak an empty field or a non-positive price past them.
	if err := s.validatePayload(models.ProductPayload{
		Name:   merged.Name,
		Gender: merged.Gender,
		Size:   merged.Size,
		Price:  merged.Price,
		Brand:  merged.Brand,
		Image:  merged.Image,
	}); err != nil {
		return nil, err
	}

	if err := s.save(&merged); err != nil {
		return nil, err
	}

	s.publish(event, &merged)
	return &merged, nil
}

// search runs a linear predicate filter over the full id-ordered enumeration.
func (s *CatalogService) search(match func(*models.Product) bool) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	matches := make([]models.Product, 0)
	for i := range all {
		if match(&all[i]) {
			matches = append(matches, all[i])
		}
	}
	return matches, nil
}

// searchOne returns the first match in id order, or ErrNotFound carrying the
// query description.
func (s *CatalogService) searchOne(match func(*models.Product) bool, query string) (*models.Product, error) {
	matches, err := s.search(match)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no product matches %s", ErrNotFound, query)
	}
	return &matches[0], nil
}

// load fetches and decodes one record. Callers must hold the mutex.
func (s *CatalogService) load(id string) (*models.Product, error) {
	value, ok, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: product with id %s", ErrNotFound, id)
	}
	var product models.Product
	if err := json.Unmarshal(value, &product); err != nil {
		return nil, fmt.Errorf("%w: failed to decode product %s: %v", storage.ErrStorage, id, err)
	}
	return &product, nil
}

// loadAll decodes the full enumeration in key order. Callers must hold the
// mutex.
func (s *CatalogService) loadAll() ([]models.Product, error) {
	values, err := s.store.Values()
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(values))
	for _, value := range values {
		var product models.Product
		if err := json.Unmarshal(value, &product); err != nil {
			return nil, fmt.Errorf("%w: failed to decode product record: %v", storage.ErrStorage, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// save encodes and writes one record. Callers must hold the mutex.
func (s *CatalogService) save(product *models.Product) error {
	value, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("%w: failed to encode product %s: %v", storage.ErrStorage, product.ID, err)
	}
	return s.store.Insert(product.ID, value)
}

// publish notifies the event publisher after a committed mutation. Event
// delivery is best effort; a publish failure never rolls back the store.
func (s *CatalogService) publish(event string, product *models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(event, product); err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", event, product.ID, err)
	}
}
