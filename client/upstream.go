package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dapurkita/kds-app/models"
)

// Upstream -> ItemSource + StaffProvider yang bicara JSON/HTTP ke sistem
// restoran pusat (mode client). Bentuk endpoint mengikuti API upstream.
type Upstream struct {
	BaseURL string
	HTTP    *http.Client
}

func NewUpstream(baseURL string) *Upstream {
	return &Upstream{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (u *Upstream) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := u.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return u.do(req, out)
}

func (u *Upstream) do(req *http.Request, out interface{}) error {
	resp, err := u.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upstream %s %s: %d %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchItems -> GET /kitchen/items dengan query filter
func (u *Upstream) FetchItems(ctx context.Context, filter models.ItemFilter) (*models.ItemList, error) {
	query := url.Values{}
	for _, st := range filter.Statuses {
		query.Add("status", string(st))
	}
	if filter.SortByPriority {
		query.Set("sort_by_priority", "true")
	}
	if filter.IncludeCompleted {
		query.Set("include_completed", "true")
	}

	var list models.ItemList
	if err := u.get(ctx, "/kitchen/items", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateItemStatus -> PATCH /kitchen/items/:id/status
func (u *Upstream) UpdateItemStatus(ctx context.Context, itemID uint, newStatus models.ItemStatus, assignedUserID *uint) (*models.KitchenItem, error) {
	payload := map[string]interface{}{
		"new_status": newStatus,
	}
	if assignedUserID != nil {
		payload["assigned_user_id"] = *assignedUserID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := u.BaseURL + "/kitchen/items/" + strconv.FormatUint(uint64(itemID), 10) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var item models.KitchenItem
	if err := u.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchActiveStaff -> GET /staff/active?role=...
func (u *Upstream) FetchActiveStaff(ctx context.Context, role string) (*models.StaffList, error) {
	query := url.Values{}
	query.Set("role", role)

	var list models.StaffList
	if err := u.get(ctx, "/staff/active", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
