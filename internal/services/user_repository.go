package services

import (
	"encoding/json"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/storage"

	"github.com/google/uuid"
)

// UserRepository persists registered callers in an OrderedStore bucket keyed
// by user id. The store holds JSON-encoded User records.
type UserRepository struct {
	store storage.OrderedStore
}

// NewUserRepository creates a UserRepository over the given store.
func NewUserRepository(store storage.OrderedStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create persists a new user, minting an id when none is set.
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: failed to encode user %s: %v", storage.ErrStorage, user.ID, err)
	}
	return r.store.Insert(user.ID, value)
}

// GetByID returns the user stored under id.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	value, ok, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user with id %s", ErrNotFound, id)
	}
	var user models.User
	if err := json.Unmarshal(value, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user %s: %v", storage.ErrStorage, id, err)
	}
	return &user, nil
}

// GetByUsername scans for the user with the given username. Usernames are
// unique by the registration check; a linear scan is fine at this scale.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.scan(func(u *models.User) bool { return u.Username == username },
		fmt.Sprintf("username %s", username))
}

// GetByEmail scans for the user with the given email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.scan(func(u *models.User) bool { return u.Email == email },
		fmt.Sprintf("email %s", email))
}

func (r *UserRepository) scan(match func(*models.User) bool, query string) (*models.User, error) {
	values, err := r.store.Values()
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		var user models.User
		if err := json.Unmarshal(value, &user); err != nil {
			return nil, fmt.Errorf("%w: failed to decode user record: %v", storage.ErrStorage, err)
		}
		if match(&user) {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user with %s", ErrNotFound, query)
}
