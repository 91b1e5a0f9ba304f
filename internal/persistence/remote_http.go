package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carpeta/organizer/internal/models"
)

// RemoteBackend is the sync server. LoadRemote returns (nil, nil) when the
// server has no data yet.
type RemoteBackend interface {
	SaveRemote(ctx context.Context, snap *models.Snapshot) error
	LoadRemote(ctx context.Context) (*models.Snapshot, error)
}

// HTTPRemote talks to the sync server's JSON endpoints.
type HTTPRemote struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRemote returns a client for the server at baseURL
// (e.g. "http://localhost:5001"). A zero timeout means 10s.
func NewHTTPRemote(baseURL string, timeout time.Duration) *HTTPRemote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRemote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SaveRemote posts the snapshot to /api/save. Any non-2xx is a failure.
func (r *HTTPRemote) SaveRemote(ctx context.Context, snap *models.Snapshot) error {
	body, err := Encode(snap)
	if err != nil {
		return ioErr("remote", "save", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/save", bytes.NewReader(body))
	if err != nil {
		return ioErr("remote", "save", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return ioErr("remote", "save", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ioErr("remote", "save", fmt.Errorf("%w: %d", ErrRemoteStatus, resp.StatusCode))
	}
	return nil
}

// LoadRemote fetches /api/load. 204, an empty body or null mean no data yet.
func (r *HTTPRemote) LoadRemote(ctx context.Context) (*models.Snapshot, error) {
	b, err := r.get(ctx, "/api/load", nil)
	if err != nil {
		return nil, ioErr("remote", "load", err)
	}
	snap, err := Decode(b)
	if err != nil {
		return nil, ioErr("remote", "load", err)
	}
	return snap, nil
}

// ListDocuments queries /api/documents. Items are plain objects whose schema
// belongs to the server.
func (r *HTTPRemote) ListDocuments(ctx context.Context, search string) ([]map[string]interface{}, error) {
	return r.list(ctx, "/api/documents", searchQuery(search))
}

// ListNotes queries /api/notes.
func (r *HTTPRemote) ListNotes(ctx context.Context, search string) ([]map[string]interface{}, error) {
	return r.list(ctx, "/api/notes", searchQuery(search))
}

// EventsForMonth queries /api/events?month=YYYY-M.
func (r *HTTPRemote) EventsForMonth(ctx context.Context, year int, month time.Month) ([]map[string]interface{}, error) {
	q := url.Values{"month": {monthParam(year, month)}}
	return r.list(ctx, "/api/events", q)
}

// EventsForDay queries /api/events?day=D&month=YYYY-M.
func (r *HTTPRemote) EventsForDay(ctx context.Context, d models.Date) ([]map[string]interface{}, error) {
	q := url.Values{"month": {monthParam(d.Year, d.Month)}, "day": {strconv.Itoa(d.Day)}}
	return r.list(ctx, "/api/events", q)
}

func monthParam(year int, month time.Month) string {
	return fmt.Sprintf("%d-%d", year, int(month))
}

func searchQuery(search string) url.Values {
	if search == "" {
		return nil
	}
	return url.Values{"search": {search}}
}

func (r *HTTPRemote) list(ctx context.Context, path string, q url.Values) ([]map[string]interface{}, error) {
	b, err := r.get(ctx, path, q)
	if err != nil {
		return nil, ioErr("remote", "list", err)
	}
	out := []map[string]interface{}{}
	if len(bytes.TrimSpace(b)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, ioErr("remote", "list", fmt.Errorf("decode %s: %w", path, err))
	}
	return out, nil
}

func (r *HTTPRemote) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := r.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrRemoteStatus, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
