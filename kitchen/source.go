package kitchen

import (
	"context"
	"errors"

	"github.com/dapurkita/kds-app/models"
)

// Kondisi yang boleh muncul di batas store/executor; caller memetakan
// masing-masing ke respon HTTP, tidak ada yang boleh meruntuhkan view.
var (
	// ErrUnavailable -> query item / roster gagal, caller tampilkan retry
	ErrUnavailable = errors.New("kitchen data source unavailable")
	// ErrBusy -> item sudah punya transisi in-flight
	ErrBusy = errors.New("item already has a transition in flight")
	// ErrRejected -> commit status ditolak oleh system of record
	ErrRejected = errors.New("status transition rejected")
	// ErrItemNotFound -> id tidak dikenal
	ErrItemNotFound = errors.New("kitchen item not found")
	// ErrNoPendingAssignment -> resume/cancel tanpa advance yang menggantung
	ErrNoPendingAssignment = errors.New("no assignment pending for item")
)

// ItemSource -> system of record untuk kitchen item.
// Implementasi: repository (standalone, gorm) dan client.Upstream (HTTP).
type ItemSource interface {
	FetchItems(ctx context.Context, filter models.ItemFilter) (*models.ItemList, error)
	UpdateItemStatus(ctx context.Context, itemID uint, newStatus models.ItemStatus, assignedUserID *uint) (*models.KitchenItem, error)
}

// StaffProvider -> roster staff aktif per role
type StaffProvider interface {
	FetchActiveStaff(ctx context.Context, role string) (*models.StaffList, error)
}
