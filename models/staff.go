package models

import "time"

const RoleKitchen = "KITCHEN"

// Staff -> anggota staf dengan jadwal shift per hari
type Staff struct {
	ID             uint   `gorm:"primaryKey" json:"staff_id"`
	FullName       string `gorm:"type:varchar(255);not null" json:"full_name"`
	Role           string `gorm:"type:varchar(50);not null;index" json:"role"`
	ShiftName      string `gorm:"type:varchar(100)" json:"shift_name"`
	ShiftStartTime string `gorm:"type:varchar(5)" json:"shift_start_time"`
	ShiftEndTime   string `gorm:"type:varchar(5)" json:"shift_end_time"`
	Active         bool   `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// OnShift -> apakah jam "HH:MM" saat ini masuk window shift.
// Shift yang lewat tengah malam (end < start) dianggap wrap.
func (s *Staff) OnShift(at time.Time) bool {
	if s.ShiftStartTime == "" || s.ShiftEndTime == "" {
		return true
	}
	now := at.Format("15:04")
	if s.ShiftStartTime <= s.ShiftEndTime {
		return now >= s.ShiftStartTime && now < s.ShiftEndTime
	}
	return now >= s.ShiftStartTime || now < s.ShiftEndTime
}

// StaffList -> bentuk hasil fetchActiveStaff
type StaffList struct {
	Staff      []Staff `json:"staff"`
	TotalStaff int     `json:"total_staff"`
}
