package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dapurkita/kds-app/executor"
	"github.com/dapurkita/kds-app/kds"
	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/models"
	"github.com/dapurkita/kds-app/repository"
	"github.com/dapurkita/kds-app/store"
	"github.com/dapurkita/kds-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// KDSController -> permukaan HTTP di atas store + executor.
// Repo hanya terisi di mode standalone (untuk intake item).
type KDSController struct {
	Store      *store.Store
	Exec       *executor.Executor
	Roster     kitchen.StaffProvider
	Classifier kitchen.Classifier
	Repo       *repository.ItemRepository
}

func NewKDSController(st *store.Store, exec *executor.Executor, roster kitchen.StaffProvider, classifier kitchen.Classifier, repo *repository.ItemRepository) *KDSController {
	return &KDSController{
		Store:      st,
		Exec:       exec,
		Roster:     roster,
		Classifier: classifier,
		Repo:       repo,
	}
}

// ItemView -> item + hasil classifier untuk kartu KDS
type ItemView struct {
	models.KitchenItem
	Classification kitchen.Classification `json:"classification"`
}

// BoardColumn -> satu kolom kanban; dikirim sebagai array supaya urutan
// kolom ikut lifecycle, bukan urutan map
type BoardColumn struct {
	Status models.ItemStatus `json:"status"`
	Items  []ItemView        `json:"items"`
}

func (kc *KDSController) views(items []models.KitchenItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView{
			KitchenItem:    it,
			Classification: kc.Classifier.Classify(it.WaitingTimeMinutes),
		})
	}
	return out
}

// respondKitchenError -> petakan taxonomy error core ke kode HTTP.
// Tidak ada fault yang boleh lolos tanpa dipetakan (view jangan sampai crash).
func respondKitchenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, kitchen.ErrItemNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, kitchen.ErrBusy):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, kitchen.ErrNoPendingAssignment):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, kitchen.ErrUnavailable):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	case errors.Is(err, kitchen.ErrRejected):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func parseItemFilter(c *gin.Context) (models.ItemFilter, error) {
	var filter models.ItemFilter
	for _, raw := range c.QueryArray("status") {
		st := models.ItemStatus(raw)
		if !st.Valid() {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	filter.SortByPriority = c.Query("sort_by_priority") == "true"
	filter.IncludeCompleted = c.Query("include_completed") == "true"
	return filter, nil
}

// GetItems -> list item per status (view kartu per tab)
func (kc *KDSController) GetItems(c *gin.Context) {
	filter, err := parseItemFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := kc.Store.Load(c.Request.Context(), filter)
	if err != nil {
		respondKitchenError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Kitchen items", gin.H{
		"items":    kc.views(snap.Items),
		"taken_at": snap.TakenAt,
	})
}

// GetBoard -> kanban view: semua kolom status dari SATU snapshot, jadi
// keanggotaan kolom tidak pernah beda dengan view per-tab.
func (kc *KDSController) GetBoard(c *gin.Context) {
	includeCompleted := c.Query("include_completed") == "true"

	snap, err := kc.Store.Load(c.Request.Context(), models.ItemFilter{
		SortByPriority:   true,
		IncludeCompleted: includeCompleted,
	})
	if err != nil {
		respondKitchenError(c, err)
		return
	}

	columns := make([]BoardColumn, 0, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		if st == models.StatusCompleted && !includeCompleted {
			continue
		}
		columns = append(columns, BoardColumn{
			Status: st,
			Items:  kc.views(snap.ByStatus(st)),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Kitchen board", gin.H{
		"columns":  columns,
		"taken_at": snap.TakenAt,
	})
}

// RefreshItems -> paksa sinkron ulang dari system of record
func (kc *KDSController) RefreshItems(c *gin.Context) {
	if err := kc.Store.Refresh(c.Request.Context()); err != nil {
		respondKitchenError(c, err)
		return
	}
	kds.BroadcastBoardRefresh()
	utils.RespondJSON(c, http.StatusOK, "Snapshot refreshed", nil)
}

// AdvanceItem -> maju satu status; bisa berhenti di awaiting_assignment
func (kc *KDSController) AdvanceItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := kc.Exec.Advance(c.Request.Context(), itemID)
	if err != nil {
		respondKitchenError(c, err)
		return
	}

	if result.State == executor.StateAwaitingAssignment {
		utils.RespondJSON(c, http.StatusOK, "Awaiting staff assignment", result)
		return
	}

	kc.afterCommit(result.Item)
	utils.RespondJSON(c, http.StatusOK, "Item advanced", result)
}

// AssignItem -> lanjutkan advance yang menggantung dengan staff pilihan
func (kc *KDSController) AssignItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type ReqBody struct {
		StaffID uint `json:"staff_id" binding:"required"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := kc.Exec.Resume(c.Request.Context(), itemID, body.StaffID)
	if err != nil {
		respondKitchenError(c, err)
		return
	}

	kc.afterCommit(item)
	utils.RespondJSON(c, http.StatusOK, "Item assigned and cooking", item)
}

// CancelAssignment -> user menutup pemilihan staff, tanpa efek samping
func (kc *KDSController) CancelAssignment(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := kc.Exec.Cancel(itemID); err != nil {
		respondKitchenError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Assignment cancelled", nil)
}

// RetreatItem -> mundur satu status, assignment tidak dihapus
func (kc *KDSController) RetreatItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := kc.Exec.Retreat(c.Request.Context(), itemID)
	if err != nil {
		respondKitchenError(c, err)
		return
	}

	kc.afterCommit(item)
	utils.RespondJSON(c, http.StatusOK, "Item moved back", item)
}

// CreateItem -> intake mode standalone, item selalu lahir SEND_TO_KITCHEN
func (kc *KDSController) CreateItem(c *gin.Context) {
	if kc.Repo == nil {
		utils.RespondError(c, http.StatusNotImplemented,
			fmt.Errorf("item intake is handled by the upstream system in client mode"))
		return
	}

	var item models.KitchenItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := kc.Repo.CreateItem(c.Request.Context(), &item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := kc.Store.Refresh(c.Request.Context()); err != nil {
		utils.ErrorLogger.Printf("refresh after intake failed: %v", err)
	}
	kds.BroadcastBoardRefresh()

	utils.RespondJSON(c, http.StatusCreated, "Item sent to kitchen", item)
}

// afterCommit -> siarkan hasil transisi ke semua layar KDS
func (kc *KDSController) afterCommit(item *models.KitchenItem) {
	if item == nil {
		return
	}
	kds.BroadcastItemUpdate(*item)
	if item.ItemStatus == models.StatusReadyToServe {
		kds.BroadcastStaffNotification(fmt.Sprintf("Item #%d (%s) siap disajikan", item.ID, item.DisplayName()))
	}
}

func parseItemID(c *gin.Context) (uint, error) {
	raw := c.Param("item_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return uint(id), nil
}

// KDSHandler -> endpoint WebSocket untuk layar dapur
func KDSHandler(c *gin.Context) {
	role := c.Param("role")
	if role != "chef" && role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kds.RegisterClient(ws, role)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	kds.UnregisterClient(ws)
}
