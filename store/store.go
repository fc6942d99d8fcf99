package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
)

// Snapshot -> salinan konsisten semua item yang diketahui pada satu titik waktu.
// Semua view (kanban, list per status) membaca dari snapshot yang sama,
// jadi keanggotaan kolom tidak pernah beda antar tampilan.
type Snapshot struct {
	Items   []models.KitchenItem `json:"items"`
	TakenAt time.Time            `json:"taken_at"`
}

// ByStatus -> partisi murni snapshot per status
func (s Snapshot) ByStatus(status models.ItemStatus) []models.KitchenItem {
	var out []models.KitchenItem
	for _, it := range s.Items {
		if it.ItemStatus == status {
			out = append(out, it)
		}
	}
	return out
}

// Store memegang snapshot otoritatif kitchen item untuk sesi dapur aktif.
// Satu instance per proses tapi injectable, bukan singleton, supaya test
// bisa bikin instance terisolasi.
type Store struct {
	mu     sync.RWMutex
	source kitchen.ItemSource

	items  []models.KitchenItem
	index  map[uint]int
	loaded bool
	taken  time.Time

	// inflight: itemID -> target status transisi yang belum commit.
	// Dipakai Reconcile supaya refresh tidak menimpa hasil transisi
	// yang sedang jalan dengan data basi.
	inflight map[uint]models.ItemStatus
}

func NewStore(source kitchen.ItemSource) *Store {
	return &Store{
		source:   source,
		index:    make(map[uint]int),
		inflight: make(map[uint]models.ItemStatus),
	}
}

// Load -> snapshot terfilter+tersortir; fetch ke source hanya kalau
// belum pernah sinkron. Gagal fetch dilaporkan sebagai ErrUnavailable.
func (s *Store) Load(ctx context.Context, filter models.ItemFilter) (Snapshot, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return Snapshot{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{TakenAt: s.taken}
	for _, it := range s.items {
		if filter.Matches(&it) {
			snap.Items = append(snap.Items, it)
		}
	}
	if filter.SortByPriority {
		sortByPriority(snap.Items)
	}
	return snap, nil
}

// Refresh -> sinkron ulang dari system of record, lalu reconcile dengan
// transisi yang masih in-flight. Aman dipanggil bersamaan dengan commit.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.source.FetchItems(ctx, models.ItemFilter{IncludeCompleted: true})
	if err != nil {
		return fmt.Errorf("%w: %v", kitchen.ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcile(list.Items)
	s.loaded = true
	s.taken = time.Now()
	return nil
}

// reconcile -> terima snapshot baru, kecuali untuk item yang transisinya
// masih in-flight: di situ status yang lebih maju yang menang. Caller harus
// pegang s.mu.
func (s *Store) reconcile(fetched []models.KitchenItem) {
	for i := range fetched {
		if _, ok := s.inflight[fetched[i].ID]; !ok {
			continue
		}
		if idx, ok := s.index[fetched[i].ID]; ok {
			local := s.items[idx]
			if local.ItemStatus.Rank() > fetched[i].ItemStatus.Rank() {
				fetched[i].ItemStatus = local.ItemStatus
				fetched[i].AssignedUserID = local.AssignedUserID
				fetched[i].AssignedUserName = local.AssignedUserName
			}
		}
	}
	s.items = fetched
	s.index = make(map[uint]int, len(fetched))
	for i := range fetched {
		s.index[fetched[i].ID] = i
	}
}

// Lookup -> satu item by id, sinkron dulu kalau snapshot belum pernah terisi
func (s *Store) Lookup(ctx context.Context, itemID uint) (*models.KitchenItem, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	item, ok := s.Get(itemID)
	if !ok {
		return nil, kitchen.ErrItemNotFound
	}
	return item, nil
}

// Get -> satu item dari snapshot by id
func (s *Store) Get(itemID uint) (*models.KitchenItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[itemID]
	if !ok {
		return nil, false
	}
	it := s.items[idx]
	return &it, true
}

// MarkInFlight dipanggil executor sebelum commit remote dimulai.
func (s *Store) MarkInFlight(itemID uint, target models.ItemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[itemID] = target
}

// ClearInFlight dipanggil executor setelah commit selesai (sukses ataupun gagal).
func (s *Store) ClearInFlight(itemID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, itemID)
}

// ApplyTransition -> terapkan hasil commit remote ke entry lokal.
// Hanya dipanggil setelah remote acknowledge, bukan optimistic-before-commit.
func (s *Store) ApplyTransition(updated *models.KitchenItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[updated.ID]
	if !ok {
		s.items = append(s.items, *updated)
		s.index[updated.ID] = len(s.items) - 1
		return
	}
	s.items[idx].ItemStatus = updated.ItemStatus
	s.items[idx].AssignedUserID = updated.AssignedUserID
	s.items[idx].AssignedUserName = updated.AssignedUserName
	s.items[idx].UpdatedAt = updated.UpdatedAt
}

// sortByPriority -> urutan KDS: SEND_TO_KITCHEN dulu (priority turun, lalu
// waiting turun), status berikutnya per grup dengan yang paling lama nunggu
// di atas.
func sortByPriority(items []models.KitchenItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := a.ItemStatus.Rank(), b.ItemStatus.Rank(); ra != rb {
			return ra < rb
		}
		if a.ItemStatus == models.StatusSendToKitchen {
			pa, pb := 0, 0
			if a.Priority != nil {
				pa = *a.Priority
			}
			if b.Priority != nil {
				pb = *b.Priority
			}
			if pa != pb {
				return pa > pb
			}
			return a.WaitingTimeMinutes > b.WaitingTimeMinutes
		}
		return a.WaitingTimeMinutes > b.WaitingTimeMinutes
	})
}
