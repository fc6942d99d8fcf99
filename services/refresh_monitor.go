package services

import (
	"context"
	"time"

	"github.com/dapurkita/kds-app/kds"
	"github.com/dapurkita/kds-app/store"
	"github.com/dapurkita/kds-app/utils"
)

// RefreshMonitor -> sinkron ulang snapshot store secara berkala dari
// system of record, lalu kasih tahu semua layar KDS supaya re-render.
// Reconcile terhadap transisi in-flight ditangani di dalam store.
type RefreshMonitor struct {
	Store    *store.Store
	StopChan chan struct{}
	Interval time.Duration
}

func NewRefreshMonitor(st *store.Store) *RefreshMonitor {
	return &RefreshMonitor{
		Store:    st,
		StopChan: make(chan struct{}),
		Interval: 5 * time.Second,
	}
}

func (rm *RefreshMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rm.refresh()
			case <-rm.StopChan:
				return
			}
		}
	}()
}

func (rm *RefreshMonitor) Stop() {
	close(rm.StopChan)
}

func (rm *RefreshMonitor) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), rm.Interval)
	defer cancel()

	if err := rm.Store.Refresh(ctx); err != nil {
		// Gagal refresh bukan fatal, layar tetap pakai snapshot terakhir
		utils.ErrorLogger.Printf("periodic refresh failed: %v", err)
		return
	}
	kds.BroadcastBoardRefresh()
}
