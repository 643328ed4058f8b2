package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Record is the single persisted row shape: one ordered key-value namespace
// per bucket. The composite primary key gives us both uniqueness per key and
// the btree ordering Values relies on.
type Record struct {
	Bucket string `gorm:"primaryKey;type:varchar(64)"`
	Key    string `gorm:"primaryKey;type:varchar(191)"`
	Value  []byte
}

// DB wraps a GORM connection holding one or more named buckets.
type DB struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the record table.
// Supported drivers are "sqlite" and "postgres".
func Open(driver, dsn string) (*DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s database: %v", ErrStorage, driver, err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("%w: failed to migrate record table: %v", ErrStorage, err)
	}

	return &DB{db: db}, nil
}

// Bucket returns the ordered store backed by the named bucket. Buckets share
// the connection but never see each other's keys.
func (d *DB) Bucket(name string) *GORMStore {
	return &GORMStore{db: d.db, bucket: name}
}

// GORMStore is the database-backed OrderedStore implementation.
type GORMStore struct {
	db     *gorm.DB
	bucket string
}

// Get returns the value stored under key, or (nil, false, nil) on a miss.
func (s *GORMStore) Get(key string) ([]byte, bool, error) {
	var rec Record
	err := s.db.First(&rec, "bucket = ? AND key = ?", s.bucket, key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to get key %s: %v", ErrStorage, key, err)
	}
	return rec.Value, true, nil
}

// Insert stores value under key, overwriting any existing value.
func (s *GORMStore) Insert(key string, value []byte) error {
	rec := Record{Bucket: s.bucket, Key: key, Value: value}
	// Save upserts on the composite primary key, which is exactly the
	// insert-or-overwrite contract.
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("%w: failed to insert key %s: %v", ErrStorage, key, err)
	}
	return nil
}

// Remove deletes the entry for key and returns the removed value. Removing an
// absent key is not an error.
func (s *GORMStore) Remove(key string) ([]byte, bool, error) {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	res := s.db.Delete(&Record{}, "bucket = ? AND key = ?", s.bucket, key)
	if res.Error != nil {
		return nil, false, fmt.Errorf("%w: failed to remove key %s: %v", ErrStorage, key, res.Error)
	}
	return value, true, nil
}

// ContainsKey reports whether an entry exists for key.
func (s *GORMStore) ContainsKey(key string) (bool, error) {
	var count int64
	err := s.db.Model(&Record{}).
		Where("bucket = ? AND key = ?", s.bucket, key).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to check key %s: %v", ErrStorage, key, err)
	}
	return count > 0, nil
}

// Values enumerates every stored value in ascending key order.
func (s *GORMStore) Values() ([][]byte, error) {
	var recs []Record
	err := s.db.Where("bucket = ?", s.bucket).Order("key").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate values: %v", ErrStorage, err)
	}
	values := make([][]byte, 0, len(recs))
	for _, rec := range recs {
		values = append(values, rec.Value)
	}
	return values, nil
}
