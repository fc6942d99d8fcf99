package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
	"github.com/dapurkita/kds-app/store"
	"github.com/dapurkita/kds-app/utils"
)

// State -> fase satu operasi transisi per item
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingAssignment State = "awaiting_assignment"
	StateCommitting         State = "committing"
)

// Result dari Advance: entah langsung commit, atau menggantung nunggu
// pilihan staff (Resume/Cancel).
type Result struct {
	State State               `json:"state"`
	Item  *models.KitchenItem `json:"item,omitempty"`
	// Staff terisi saat State == awaiting_assignment
	Staff *models.StaffList `json:"staff,omitempty"`
}

type pendingOp struct {
	state  State
	target models.ItemStatus
}

// Executor -> satu-satunya komponen yang boleh mengubah itemStatus /
// assignedUserId. Maksimal satu transisi in-flight per item; panggilan kedua
// ditolak ErrBusy, tidak di-queue.
type Executor struct {
	mu      sync.Mutex
	pending map[uint]*pendingOp

	store  *store.Store
	source kitchen.ItemSource
	roster kitchen.StaffProvider
}

func NewExecutor(st *store.Store, source kitchen.ItemSource, roster kitchen.StaffProvider) *Executor {
	return &Executor{
		pending: make(map[uint]*pendingOp),
		store:   st,
		source:  source,
		roster:  roster,
	}
}

// begin -> pasang guard per item; gagal kalau sudah ada op in-flight
func (e *Executor) begin(itemID uint, st State, target models.ItemStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.pending[itemID]; busy {
		return kitchen.ErrBusy
	}
	e.pending[itemID] = &pendingOp{state: st, target: target}
	return nil
}

func (e *Executor) end(itemID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, itemID)
}

// InFlightState -> fase op yang sedang jalan untuk item, atau idle
func (e *Executor) InFlightState(itemID uint) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if op, ok := e.pending[itemID]; ok {
		return op.state
	}
	return StateIdle
}

// Advance -> maju satu status. Transisi masuk COOKING berhenti dulu di
// awaiting_assignment sampai caller kasih staffId lewat Resume, atau Cancel.
func (e *Executor) Advance(ctx context.Context, itemID uint) (*Result, error) {
	item, err := e.store.Lookup(ctx, itemID)
	if err != nil {
		return nil, err
	}

	target := kitchen.NextStatus(item.ItemStatus)
	if target == "" {
		// Terminal: bukan error, tombolnya memang harus disabled di atas
		return &Result{State: StateIdle, Item: item}, nil
	}

	if kitchen.RequiresAssignment(target) {
		if err := e.begin(itemID, StateAwaitingAssignment, target); err != nil {
			return nil, err
		}
		staff, err := e.roster.FetchActiveStaff(ctx, models.RoleKitchen)
		if err != nil {
			e.end(itemID)
			return nil, fmt.Errorf("%w: %v", kitchen.ErrUnavailable, err)
		}
		return &Result{State: StateAwaitingAssignment, Item: item, Staff: staff}, nil
	}

	if err := e.begin(itemID, StateCommitting, target); err != nil {
		return nil, err
	}
	defer e.end(itemID)

	updated, err := e.commit(ctx, itemID, target, item.AssignedUserID)
	if err != nil {
		return nil, err
	}
	return &Result{State: StateIdle, Item: updated}, nil
}

// Resume -> lanjutkan advance yang menggantung dengan staff pilihan user.
func (e *Executor) Resume(ctx context.Context, itemID uint, staffID uint) (*models.KitchenItem, error) {
	e.mu.Lock()
	op, ok := e.pending[itemID]
	if !ok || op.state != StateAwaitingAssignment {
		e.mu.Unlock()
		return nil, kitchen.ErrNoPendingAssignment
	}
	// Begitu masuk committing tidak bisa dibatalkan lagi
	op.state = StateCommitting
	target := op.target
	e.mu.Unlock()

	defer e.end(itemID)
	return e.commit(ctx, itemID, target, &staffID)
}

// Cancel -> batalkan pemilihan staff, kembali idle tanpa efek samping.
// Op yang sudah masuk committing tidak bisa dibatalkan.
func (e *Executor) Cancel(itemID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, ok := e.pending[itemID]
	if !ok || op.state != StateAwaitingAssignment {
		return kitchen.ErrNoPendingAssignment
	}
	delete(e.pending, itemID)
	utils.InfoLogger.Printf("assignment cancelled for item %d", itemID)
	return nil
}

// Retreat -> mundur satu status. Tidak pernah lewat alur assignment dan
// tidak menghapus assignedUserId yang sudah ada. COMPLETED dianggap
// terminal, tidak bisa ditarik mundur.
func (e *Executor) Retreat(ctx context.Context, itemID uint) (*models.KitchenItem, error) {
	item, err := e.store.Lookup(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ItemStatus == models.StatusCompleted {
		return nil, fmt.Errorf("%w: completed items cannot be reopened", kitchen.ErrRejected)
	}
	target := kitchen.PreviousStatus(item.ItemStatus)
	if target == "" {
		return item, nil
	}

	if err := e.begin(itemID, StateCommitting, target); err != nil {
		return nil, err
	}
	defer e.end(itemID)

	return e.commit(ctx, itemID, target, item.AssignedUserID)
}

// commit -> kirim ke system of record, baru setelah di-acknowledge hasilnya
// dipakai memutakhirkan snapshot lokal. Gagal = snapshot tidak tersentuh.
func (e *Executor) commit(ctx context.Context, itemID uint, target models.ItemStatus, assignedUserID *uint) (*models.KitchenItem, error) {
	e.store.MarkInFlight(itemID, target)
	defer e.store.ClearInFlight(itemID)

	updated, err := e.source.UpdateItemStatus(ctx, itemID, target, assignedUserID)
	if err != nil {
		utils.ErrorLogger.Printf("transition of item %d to %s rejected: %v", itemID, target, err)
		return nil, fmt.Errorf("%w: %v", kitchen.ErrRejected, err)
	}

	e.store.ApplyTransition(updated)
	utils.InfoLogger.Printf("item %d committed to %s", itemID, updated.ItemStatus)
	return updated, nil
}
