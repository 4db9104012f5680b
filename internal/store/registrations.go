package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/career-fair-api/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("registration not found")

// RegistrationStore keeps submitted company registrations in the database.
type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

// InsertRegistration writes reg in a single insert. It never retries.
func (s *RegistrationStore) InsertRegistration(ctx context.Context, reg *models.CompanyRegistration) error {
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// List returns registrations of the given registrant type, newest first.
func (s *RegistrationStore) List(ctx context.Context, registrantType string, limit, offset int) ([]models.CompanyRegistration, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.CompanyRegistration{}).Where("registrant_type = ?", registrantType).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}

	var regs []models.CompanyRegistration
	if err := q.Order("created_at desc").Order("id desc").Limit(limit).Offset(offset).Find(&regs).Error; err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *RegistrationStore) Get(ctx context.Context, id uint) (*models.CompanyRegistration, error) {
	var reg models.CompanyRegistration
	if err := s.db.WithContext(ctx).First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}
