package persistence

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/carpeta/organizer/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeSyncServer mimics /api/save and /api/load with an in-memory blob.
type fakeSyncServer struct {
	mu         sync.Mutex
	blob       []byte
	saveStatus int
	lastQuery  string
}

func (f *fakeSyncServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/save", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.saveStatus != 0 {
			w.WriteHeader(f.saveStatus)
			return
		}
		f.blob, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/load", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.blob == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(f.blob)
	})
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastQuery = r.URL.RawQuery
		f.mu.Unlock()
		_, _ = w.Write([]byte(`[{"id":"1","title":"Exam","date":"2025-03-14"}]`))
	})
	mux.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastQuery = r.URL.RawQuery
		f.mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	})
	return mux
}

func TestHTTPRemote_SaveLoad(t *testing.T) {
	fake := &fakeSyncServer{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	remote := NewHTTPRemote(srv.URL+"/", time.Second)
	ctx := context.Background()

	snap, err := remote.LoadRemote(ctx)
	require.NoError(t, err)
	require.Nil(t, snap, "204 means no remote data yet")

	require.NoError(t, remote.SaveRemote(ctx, testSnapshot()))
	got, err := remote.LoadRemote(ctx)
	require.NoError(t, err)
	require.Equal(t, testSnapshot(), got)
}

func TestHTTPRemote_Non2xxIsFailure(t *testing.T) {
	fake := &fakeSyncServer{saveStatus: http.StatusInternalServerError}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	err := NewHTTPRemote(srv.URL, time.Second).SaveRemote(context.Background(), testSnapshot())
	require.ErrorIs(t, err, ErrRemoteStatus)
	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	require.Equal(t, "remote", ioe.Backend)
}

func TestHTTPRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	remote := NewHTTPRemote(url, 200*time.Millisecond)
	_, err := remote.LoadRemote(context.Background())
	require.Error(t, err)
	require.Error(t, remote.SaveRemote(context.Background(), testSnapshot()))
}

func TestHTTPRemote_Listings(t *testing.T) {
	fake := &fakeSyncServer{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	remote := NewHTTPRemote(srv.URL, time.Second)
	ctx := context.Background()

	items, err := remote.EventsForDay(ctx, models.NewDate(2025, time.March, 14))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Exam", items[0]["title"])
	require.Equal(t, "day=14&month=2025-3", fake.lastQuery)

	_, err = remote.EventsForMonth(ctx, 2025, time.December)
	require.NoError(t, err)
	require.Equal(t, "month=2025-12", fake.lastQuery)

	docs, err := remote.ListDocuments(ctx, "calc")
	require.NoError(t, err)
	require.Empty(t, docs)
	require.Equal(t, "search=calc", fake.lastQuery)

	_, err = remote.ListNotes(ctx, "")
	require.Error(t, err, "fake server has no notes endpoint")
}
