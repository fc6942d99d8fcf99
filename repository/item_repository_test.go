package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.KitchenItem{}, &models.ComboItem{}, &models.Staff{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// Seed staff dapur
	db.Create(&models.Staff{ID: 7, FullName: "Budi", Role: models.RoleKitchen, ShiftName: "Pagi", Active: true})
	db.Create(&models.Staff{ID: 8, FullName: "Sari", Role: models.RoleKitchen, ShiftName: "Sore", Active: true})
	db.Create(&models.Staff{ID: 9, FullName: "Andi", Role: "WAITER", Active: true})

	return db
}

func ptrUint(v uint) *uint { return &v }

func seedItem(t *testing.T, db *gorm.DB, item models.KitchenItem) models.KitchenItem {
	if item.SentToKitchenAt.IsZero() {
		item.SentToKitchenAt = time.Now()
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestFetchItemsDefaultExcludesCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Nasi Goreng", Quantity: 1, ItemStatus: models.StatusSendToKitchen})
	seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Es Teh", Quantity: 1, ItemStatus: models.StatusCompleted, AssignedUserID: ptrUint(7)})

	list, err := repo.FetchItems(context.Background(), models.ItemFilter{})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, "Nasi Goreng", list.Items[0].ProductName)

	list, err = repo.FetchItems(context.Background(), models.ItemFilter{IncludeCompleted: true})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 2)
	if assert.NotNil(t, list.Statistics) {
		assert.Equal(t, 2, list.Statistics.TotalItems)
		assert.Equal(t, 1, list.Statistics.ByStatus[models.StatusCompleted])
	}
}

func TestFetchItemsByStatuses(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Soto", Quantity: 1, ItemStatus: models.StatusCooking, AssignedUserID: ptrUint(7)})
	seedItem(t, db, models.KitchenItem{OrderID: 2, OrderType: models.OrderTypeTakeaway,
		ProductName: "Kopi", Quantity: 2, ItemStatus: models.StatusSendToKitchen})

	list, err := repo.FetchItems(context.Background(), models.ItemFilter{
		Statuses: []models.ItemStatus{models.StatusCooking},
	})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, models.StatusCooking, list.Items[0].ItemStatus)
}

func TestFetchItemsComputesWaitingTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Gulai", Quantity: 1, ItemStatus: models.StatusSendToKitchen,
		SentToKitchenAt: time.Now().Add(-75 * time.Minute)})

	list, err := repo.FetchItems(context.Background(), models.ItemFilter{})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.GreaterOrEqual(t, list.Items[0].WaitingTimeMinutes, 74)
	assert.LessOrEqual(t, list.Items[0].WaitingTimeMinutes, 76)
}

func TestUpdateItemStatusIntoCookingNeedsStaff(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Rawon", Quantity: 1, ItemStatus: models.StatusSendToKitchen})

	// Tanpa staff ditolak
	_, err := repo.UpdateItemStatus(context.Background(), item.ID, models.StatusCooking, nil)
	assert.Error(t, err)

	// Staff bukan dapur ditolak
	_, err = repo.UpdateItemStatus(context.Background(), item.ID, models.StatusCooking, ptrUint(9))
	assert.Error(t, err)

	// Staff dapur aktif diterima, nama ikut tercatat
	updated, err := repo.UpdateItemStatus(context.Background(), item.ID, models.StatusCooking, ptrUint(7))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCooking, updated.ItemStatus)
	if assert.NotNil(t, updated.AssignedUserID) {
		assert.Equal(t, uint(7), *updated.AssignedUserID)
	}
	assert.Equal(t, "Budi", updated.AssignedUserName)
}

func TestUpdateItemStatusBackwardKeepsAssignment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Pecel", Quantity: 1, ItemStatus: models.StatusCooking,
		AssignedUserID: ptrUint(7), AssignedUserName: "Budi"})

	updated, err := repo.UpdateItemStatus(context.Background(), item.ID, models.StatusSendToKitchen, item.AssignedUserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusSendToKitchen, updated.ItemStatus)
	if assert.NotNil(t, updated.AssignedUserID) {
		assert.Equal(t, uint(7), *updated.AssignedUserID)
	}
	assert.Equal(t, "Budi", updated.AssignedUserName)
}

func TestUpdateItemStatusRejectsSkipsAndTerminal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := seedItem(t, db, models.KitchenItem{OrderID: 1, OrderType: models.OrderTypeDineIn,
		ProductName: "Tahu", Quantity: 1, ItemStatus: models.StatusSendToKitchen})

	// Lompat dua status ditolak
	_, err := repo.UpdateItemStatus(context.Background(), item.ID, models.StatusReadyToServe, ptrUint(7))
	assert.Error(t, err)

	done := seedItem(t, db, models.KitchenItem{OrderID: 2, OrderType: models.OrderTypeDineIn,
		ProductName: "Tempe", Quantity: 1, ItemStatus: models.StatusCompleted, AssignedUserID: ptrUint(7)})

	// COMPLETED terminal, maju/mundur dua-duanya ditolak
	_, err = repo.UpdateItemStatus(context.Background(), done.ID, models.StatusReadyToServe, ptrUint(7))
	assert.Error(t, err)
}

func TestUpdateItemStatusUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	_, err := repo.UpdateItemStatus(context.Background(), 999, models.StatusCooking, ptrUint(7))
	assert.ErrorIs(t, err, kitchen.ErrItemNotFound)
}

func TestCreateItemAlwaysStartsSendToKitchen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := models.KitchenItem{
		OrderID: 3, OrderType: models.OrderTypePreOrder,
		CustomerName: "Ibu Rina", ProductName: "Nasi Uduk", Quantity: 2,
		ItemStatus:     models.StatusCooking, // diabaikan
		AssignedUserID: ptrUint(7),           // diabaikan
	}
	assert.NoError(t, repo.CreateItem(context.Background(), &item))
	assert.Equal(t, models.StatusSendToKitchen, item.ItemStatus)
	assert.Nil(t, item.AssignedUserID)
	assert.False(t, item.SentToKitchenAt.IsZero())
}

func TestCreateComboItem(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := models.KitchenItem{
		OrderID: 4, OrderType: models.OrderTypeDineIn, TableNumbers: "A1,A2",
		IsCombo: true, ComboName: "Paket Hemat", Quantity: 1,
		ComboItems: []models.ComboItem{
			{Name: "Nasi Goreng", Quantity: 1},
			{Name: "Es Teh", Quantity: 2},
		},
	}
	assert.NoError(t, repo.CreateItem(context.Background(), &item))

	list, err := repo.FetchItems(context.Background(), models.ItemFilter{})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 1)
	if assert.Len(t, list.Items[0].ComboItems, 2) {
		// Urutan isi combo dipertahankan
		assert.Equal(t, "Nasi Goreng", list.Items[0].ComboItems[0].Name)
		assert.Equal(t, "Es Teh", list.Items[0].ComboItems[1].Name)
	}
}

func TestCreateItemValidatesInvariants(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	// Combo tanpa isi
	err := repo.CreateItem(context.Background(), &models.KitchenItem{
		OrderID: 5, OrderType: models.OrderTypeDineIn, IsCombo: true, ComboName: "Paket", Quantity: 1,
	})
	assert.Error(t, err)

	// Quantity nol
	err = repo.CreateItem(context.Background(), &models.KitchenItem{
		OrderID: 5, OrderType: models.OrderTypeDineIn, ProductName: "Sate", Quantity: 0,
	})
	assert.Error(t, err)

	// Non-combo tapi bawa comboName
	err = repo.CreateItem(context.Background(), &models.KitchenItem{
		OrderID: 5, OrderType: models.OrderTypeDineIn, ProductName: "Sate", ComboName: "Paket", Quantity: 1,
	})
	assert.Error(t, err)
}
