package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// GormStore is the gorm-backed implementation of RecordStore and
// PropertyStore. It mirrors the Airtable record shapes into MySQL so runs can
// snapshot and write without talking to the external API directly.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the backing tables.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&models.Reservation{}, &models.Property{})
}

// List returns every reservation in the scope, including Removed records.
func (s *GormStore) List(ctx context.Context, scope models.Scope) ([]*models.Reservation, error) {
	var records []*models.Reservation
	q := s.db.WithContext(ctx)
	if scope.Source != "" {
		q = q.Where("source = ?", scope.Source)
	}
	if len(scope.PropertyIDs) > 0 {
		q = q.Where("property_id IN ?", scope.PropertyIDs)
	}
	if err := q.Order("uid").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: list %s: %w", scope.Source, err)
	}
	return records, nil
}

// Get returns one reservation by uid.
func (s *GormStore) Get(ctx context.Context, uid string) (*models.Reservation, error) {
	var record models.Reservation
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", uid, err)
	}
	return &record, nil
}

// Upsert creates or replaces records by uid. The batch must respect
// BatchLimit; callers chunk with Chunk.
func (s *GormStore) Upsert(ctx context.Context, records []*models.Reservation) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) > BatchLimit {
		return fmt.Errorf("store: upsert batch of %d exceeds limit %d", len(records), BatchLimit)
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		UpdateAll: true,
	}).Create(records).Error
	if err != nil {
		return fmt.Errorf("store: upsert: %w", err)
	}
	return nil
}

// MarkRemoved soft-deletes one record: status update only.
func (s *GormStore) MarkRemoved(ctx context.Context, uid string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("uid = ?", uid).
		Update("status", models.StatusRemoved)
	if result.Error != nil {
		return fmt.Errorf("store: mark removed %s: %w", uid, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: mark removed %s: no such record", uid)
	}
	return nil
}

// Properties returns all known properties ordered by name.
func (s *GormStore) Properties(ctx context.Context) ([]*models.Property, error) {
	var props []*models.Property
	if err := s.db.WithContext(ctx).Order("name").Find(&props).Error; err != nil {
		return nil, fmt.Errorf("store: list properties: %w", err)
	}
	return props, nil
}
