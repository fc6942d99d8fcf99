package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dapurkita/kds-app/models"
)

// StaffRepository -> roster staff aktif di mode standalone
type StaffRepository struct {
	DB *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

// FetchActiveStaff -> staff aktif untuk role tertentu yang shift-nya
// sedang berjalan. Window shift dicek di Go karena perbandingan jam
// "HH:MM" harus konsisten antara mysql dan sqlite.
func (r *StaffRepository) FetchActiveStaff(ctx context.Context, role string) (*models.StaffList, error) {
	var staff []models.Staff
	if err := r.DB.WithContext(ctx).
		Where("role = ? AND active = ?", role, true).
		Order("full_name asc").
		Find(&staff).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	onShift := make([]models.Staff, 0, len(staff))
	for i := range staff {
		if staff[i].OnShift(now) {
			onShift = append(onShift, staff[i])
		}
	}

	return &models.StaffList{Staff: onShift, TotalStaff: len(onShift)}, nil
}
