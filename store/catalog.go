package store

import (
	"context"
	"errors"

	"restaurant-api/apperr"
	"restaurant-api/models"

	"gorm.io/gorm"
)

func (s *GormStore) MenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.conn(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &m, nil
}

type MenuFilter struct {
	Category      string
	AvailableOnly bool
}

func (s *GormStore) ListMenuItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	query := s.conn(ctx)
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := query.Order("category asc, name asc").Find(&items).Error
	return items, err
}

func (s *GormStore) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return s.conn(ctx).Create(m).Error
}

// UpdateMenuItem saves catalog changes. Existing orders keep their price
// snapshots.
func (s *GormStore) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return s.conn(ctx).Save(m).Error
}

func (s *GormStore) DeleteMenuItem(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("menu item", id)
	}
	return nil
}

func (s *GormStore) Table(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := s.conn(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "table", id)
	}
	return &t, nil
}

func (s *GormStore) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.conn(ctx).Order("number asc").Find(&tables).Error
	return tables, err
}

func (s *GormStore) CreateTable(ctx context.Context, t *models.Table) error {
	var existing models.Table
	err := s.conn(ctx).Where("number = ?", t.Number).First(&existing).Error
	if err == nil {
		return apperr.Conflict("table %s already exists", t.Number)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.conn(ctx).Create(t).Error
}

func (s *GormStore) UpdateTable(ctx context.Context, t *models.Table) error {
	return s.conn(ctx).Save(t).Error
}

func (s *GormStore) CreateStaff(ctx context.Context, m *models.Staff) error {
	var existing models.Staff
	err := s.conn(ctx).Where("email = ?", m.Email).First(&existing).Error
	if err == nil {
		return apperr.Conflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	err = s.conn(ctx).Create(m).Error
	if isDuplicate(err) {
		return apperr.Conflict("email already registered")
	}
	return err
}

func (s *GormStore) StaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var m models.Staff
	err := s.conn(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) StaffByID(ctx context.Context, id uint) (*models.Staff, error) {
	var m models.Staff
	if err := s.conn(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "staff", id)
	}
	return &m, nil
}

func (s *GormStore) ListStaff(ctx context.Context, role models.StaffRole) ([]models.Staff, error) {
	query := s.conn(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var staff []models.Staff
	err := query.Order("name asc").Find(&staff).Error
	return staff, err
}

func (s *GormStore) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Staff{}).Count(&n).Error
	return n, err
}
