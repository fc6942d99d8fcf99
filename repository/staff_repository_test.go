package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dapurkita/kds-app/models"
)

func shiftAround(now time.Time, beforeMin, afterMin int) (string, string) {
	start := now.Add(-time.Duration(beforeMin) * time.Minute).Format("15:04")
	end := now.Add(time.Duration(afterMin) * time.Minute).Format("15:04")
	return start, end
}

func TestFetchActiveStaffFiltersRoleAndShift(t *testing.T) {
	db := setupTestDB(t)
	// setupTestDB sudah seed staff 7/8/9; buang supaya skenario bersih
	db.Where("1 = 1").Delete(&models.Staff{})

	now := time.Now()
	onStart, onEnd := shiftAround(now, 60, 60)
	offStart, offEnd := shiftAround(now.Add(5*time.Hour), 60, 60)

	db.Create(&models.Staff{ID: 1, FullName: "Budi", Role: models.RoleKitchen,
		ShiftName: "Sekarang", ShiftStartTime: onStart, ShiftEndTime: onEnd, Active: true})
	db.Create(&models.Staff{ID: 2, FullName: "Sari", Role: models.RoleKitchen,
		ShiftName: "Nanti", ShiftStartTime: offStart, ShiftEndTime: offEnd, Active: true})
	db.Create(&models.Staff{ID: 3, FullName: "Andi", Role: "WAITER",
		ShiftName: "Sekarang", ShiftStartTime: onStart, ShiftEndTime: onEnd, Active: true})
	db.Create(&models.Staff{ID: 4, FullName: "Tono", Role: models.RoleKitchen,
		ShiftName: "Sekarang", ShiftStartTime: onStart, ShiftEndTime: onEnd, Active: false})

	repo := NewStaffRepository(db)
	list, err := repo.FetchActiveStaff(context.Background(), models.RoleKitchen)
	assert.NoError(t, err)
	assert.Equal(t, 1, list.TotalStaff)
	if assert.Len(t, list.Staff, 1) {
		assert.Equal(t, "Budi", list.Staff[0].FullName)
	}
}

func TestFetchActiveStaffWithoutShiftWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStaffRepository(db)

	// Seed default tidak punya window shift -> dianggap selalu on shift
	list, err := repo.FetchActiveStaff(context.Background(), models.RoleKitchen)
	assert.NoError(t, err)
	assert.Equal(t, 2, list.TotalStaff)
}

func TestStaffOnShiftOvernightWrap(t *testing.T) {
	s := models.Staff{ShiftStartTime: "22:00", ShiftEndTime: "06:00"}

	at := func(hhmm string) time.Time {
		parsed, _ := time.Parse("15:04", hhmm)
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.Local)
	}

	assert.True(t, s.OnShift(at("23:30")))
	assert.True(t, s.OnShift(at("02:00")))
	assert.False(t, s.OnShift(at("12:00")))
	assert.False(t, s.OnShift(at("21:59")))
}
