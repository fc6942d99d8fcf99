package models

import (
	"fmt"
	"time"
)

// ItemStatus mengikuti alur dapur: dikirim -> dimasak -> siap saji -> selesai.
type ItemStatus string

const (
	StatusSendToKitchen ItemStatus = "SEND_TO_KITCHEN"
	StatusCooking       ItemStatus = "COOKING"
	StatusReadyToServe  ItemStatus = "READY_TO_SERVE"
	StatusCompleted     ItemStatus = "COMPLETED"
)

// AllStatuses urut sesuai lifecycle item.
var AllStatuses = []ItemStatus{
	StatusSendToKitchen,
	StatusCooking,
	StatusReadyToServe,
	StatusCompleted,
}

// Rank -> posisi status dalam lifecycle (0..3), -1 jika tidak dikenal.
func (s ItemStatus) Rank() int {
	for i, st := range AllStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s ItemStatus) Valid() bool {
	return s.Rank() >= 0
}

// Order types (set lengkap milik sistem order, ini yang tampil di KDS)
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
	OrderTypeDelivery = "DELIVERY"
	OrderTypePreOrder = "PRE_ORDER"
)

// KitchenItem -> satu baris pesanan yang dikirim ke dapur
type KitchenItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OrderID      uint   `gorm:"not null;index" json:"order_id"`
	OrderType    string `gorm:"type:varchar(20);not null" json:"order_type"`
	CustomerName string `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	TableNumbers string `gorm:"type:varchar(50)" json:"table_numbers,omitempty"`

	ProductName string      `gorm:"type:varchar(255)" json:"product_name,omitempty"`
	VariantName string      `gorm:"type:varchar(255)" json:"variant_name,omitempty"`
	ComboName   string      `gorm:"type:varchar(255)" json:"combo_name,omitempty"`
	IsCombo     bool        `gorm:"not null;default:false" json:"is_combo"`
	Quantity    int         `gorm:"not null" json:"quantity"`
	ComboItems  []ComboItem `gorm:"foreignKey:KitchenItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"combo_items,omitempty"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`

	ItemStatus ItemStatus `gorm:"type:varchar(20);not null;default:'SEND_TO_KITCHEN'" json:"item_status"`
	// Priority hanya berarti selama item masih SEND_TO_KITCHEN
	Priority *int `json:"priority,omitempty"`

	AssignedUserID   *uint  `gorm:"index" json:"assigned_user_id,omitempty"`
	AssignedUserName string `gorm:"type:varchar(255)" json:"assigned_user_name,omitempty"`

	SentToKitchenAt time.Time `gorm:"not null" json:"sent_to_kitchen_at"`
	// WaitingTimeMinutes dihitung oleh source of record saat fetch
	WaitingTimeMinutes int `gorm:"-" json:"waiting_time_minutes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// ComboItem -> isi combo, hanya informasi tampilan (tidak punya status sendiri)
type ComboItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KitchenItemID uint   `gorm:"not null;index" json:"kitchen_item_id"`
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Quantity      int    `gorm:"not null" json:"quantity"`
	Position      int    `gorm:"not null;default:0" json:"position"`
}

// Validate memeriksa invariant dasar sebuah KitchenItem.
func (ki *KitchenItem) Validate() error {
	if !ki.ItemStatus.Valid() {
		return fmt.Errorf("unknown item status %q", ki.ItemStatus)
	}
	if ki.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", ki.Quantity)
	}
	if ki.IsCombo {
		if len(ki.ComboItems) == 0 {
			return fmt.Errorf("combo item %d has no combo contents", ki.ID)
		}
		if ki.ProductName != "" || ki.VariantName != "" {
			return fmt.Errorf("combo item %d must not carry product/variant name", ki.ID)
		}
		if ki.ComboName == "" {
			return fmt.Errorf("combo item %d missing combo name", ki.ID)
		}
	} else {
		if ki.ComboName != "" {
			return fmt.Errorf("non-combo item %d must not carry combo name", ki.ID)
		}
		if ki.ProductName == "" {
			return fmt.Errorf("item %d missing product name", ki.ID)
		}
	}
	// Assignment wajib untuk status >= COOKING. Item SEND_TO_KITCHEN boleh
	// masih membawa assignment kalau pernah ditarik mundur dari COOKING.
	if ki.ItemStatus != StatusSendToKitchen && ki.AssignedUserID == nil {
		return fmt.Errorf("item %d in status %s without assigned user", ki.ID, ki.ItemStatus)
	}
	return nil
}

// DisplayName -> nama yang muncul di kartu KDS
func (ki *KitchenItem) DisplayName() string {
	if ki.IsCombo {
		return ki.ComboName
	}
	if ki.VariantName != "" {
		return fmt.Sprintf("%s (%s)", ki.ProductName, ki.VariantName)
	}
	return ki.ProductName
}

// ItemFilter -> opsi query yang dikenali fetchItems / store.Load
type ItemFilter struct {
	Statuses         []ItemStatus `json:"statuses,omitempty"`
	SortByPriority   bool         `json:"sort_by_priority,omitempty"`
	IncludeCompleted bool         `json:"include_completed,omitempty"`
}

// Matches -> apakah item lolos filter ini
func (f ItemFilter) Matches(ki *KitchenItem) bool {
	if len(f.Statuses) > 0 {
		for _, st := range f.Statuses {
			if ki.ItemStatus == st {
				return true
			}
		}
		return false
	}
	if ki.ItemStatus == StatusCompleted {
		return f.IncludeCompleted
	}
	return true
}

// ItemStatistics ikut dikembalikan fetchItems (opsional)
type ItemStatistics struct {
	TotalItems int                `json:"total_items"`
	ByStatus   map[ItemStatus]int `json:"by_status"`
}

// ItemList -> bentuk hasil fetchItems
type ItemList struct {
	Items      []KitchenItem   `json:"items"`
	Statistics *ItemStatistics `json:"statistics,omitempty"`
}
