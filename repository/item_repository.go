package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
)

// ItemRepository -> system of record mode standalone. Di mode ini servis
// menyimpan sendiri kitchen item di DB dan menghitung waiting time saat fetch.
type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func waitingMinutes(since time.Time, now time.Time) int {
	mins := int(now.Sub(since).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}

// FetchItems -> query item sesuai filter, waiting time dihitung di sini
func (r *ItemRepository) FetchItems(ctx context.Context, filter models.ItemFilter) (*models.ItemList, error) {
	q := r.DB.WithContext(ctx).
		Preload("ComboItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		})

	if len(filter.Statuses) > 0 {
		q = q.Where("item_status IN ?", filter.Statuses)
	} else if !filter.IncludeCompleted {
		q = q.Where("item_status != ?", models.StatusCompleted)
	}

	var items []models.KitchenItem
	if err := q.Order("sent_to_kitchen_at asc").Find(&items).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.ItemStatistics{
		TotalItems: len(items),
		ByStatus:   make(map[models.ItemStatus]int),
	}
	for i := range items {
		items[i].WaitingTimeMinutes = waitingMinutes(items[i].SentToKitchenAt, now)
		stats.ByStatus[items[i].ItemStatus]++
	}

	return &models.ItemList{Items: items, Statistics: stats}, nil
}

// UpdateItemStatus -> commit satu transisi status. Legalitas divalidasi di
// sini juga (sisi system of record): target harus tetangga langsung dari
// status sekarang, COMPLETED terminal, dan masuk COOKING wajib bawa staff.
func (r *ItemRepository) UpdateItemStatus(ctx context.Context, itemID uint, newStatus models.ItemStatus, assignedUserID *uint) (*models.KitchenItem, error) {
	var updated models.KitchenItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.KitchenItem
		if err := tx.Preload("ComboItems").First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return kitchen.ErrItemNotFound
			}
			return err
		}

		if item.ItemStatus == models.StatusCompleted {
			return fmt.Errorf("item %d already completed", item.ID)
		}
		forward := kitchen.NextStatus(item.ItemStatus) == newStatus
		backward := kitchen.PreviousStatus(item.ItemStatus) == newStatus
		if !forward && !backward {
			return fmt.Errorf("illegal transition %s -> %s for item %d", item.ItemStatus, newStatus, item.ID)
		}

		if forward && kitchen.RequiresAssignment(newStatus) {
			if assignedUserID == nil {
				return fmt.Errorf("item %d needs an assigned kitchen staff before cooking", item.ID)
			}
			var staff models.Staff
			if err := tx.Where("id = ? AND role = ? AND active = ?", *assignedUserID, models.RoleKitchen, true).
				First(&staff).Error; err != nil {
				return fmt.Errorf("staff %d is not an active kitchen staff", *assignedUserID)
			}
			item.AssignedUserID = &staff.ID
			item.AssignedUserName = staff.FullName
		}
		// Mundur tidak pernah menghapus assignment yang sudah ada

		item.ItemStatus = newStatus
		item.UpdatedAt = time.Now()
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated.WaitingTimeMinutes = waitingMinutes(updated.SentToKitchenAt, time.Now())
	return &updated, nil
}

// CreateItem -> pintu masuk item di mode standalone; selalu lahir
// SEND_TO_KITCHEN tanpa assignment.
func (r *ItemRepository) CreateItem(ctx context.Context, item *models.KitchenItem) error {
	now := time.Now()
	item.ItemStatus = models.StatusSendToKitchen
	item.AssignedUserID = nil
	item.AssignedUserName = ""
	if item.SentToKitchenAt.IsZero() {
		item.SentToKitchenAt = now
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := item.Validate(); err != nil {
		return err
	}
	for i := range item.ComboItems {
		item.ComboItems[i].Position = i
	}
	return r.DB.WithContext(ctx).Create(item).Error
}
