package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/carpeta/organizer/internal/snapshot/repository"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/carpeta/organizer/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalid = errors.New("invalid snapshot")
)

// DocumentSummary is one row of the document listing.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	FolderID   string    `json:"folderId"`
	LastEdited string    `json:"lastEdited"`
	UpdatedAt  time.Time `json:"-"`
}

// EventFilter narrows an event listing. A zero Year lists everything; a zero
// Day lists the whole month.
type EventFilter struct {
	Year  int
	Month time.Month
	Day   int
}

// Backup receives a copy of every stored snapshot. Failures are logged only.
type Backup interface {
	BackupSnapshot(ctx context.Context, key string, blob []byte) error
}

// Service defines the sync server operations used by the handler layer.
type Service interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	// Load returns (nil, nil) when nothing has been saved yet.
	Load(ctx context.Context) (*models.Snapshot, error)
	ListDocuments(ctx context.Context, search string) ([]DocumentSummary, error)
	ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error)
}

// Option configures the service.
type Option func(*snapshotService)

// WithKey sets the storage key, persistence.DefaultKey otherwise.
func WithKey(key string) Option {
	return func(s *snapshotService) {
		if key != "" {
			s.key = key
		}
	}
}

func WithBackup(b Backup) Option {
	return func(s *snapshotService) { s.backup = b }
}

func WithClock(now func() time.Time) Option {
	return func(s *snapshotService) { s.now = now }
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection, opts ...Option) Service {
	return New(repository.NewMongoRepo(col), opts...)
}

// NewKVService returns a Service backed by a key-value store (Redis, SQLite).
func NewKVService(kv persistence.KV, opts ...Option) Service {
	return New(repository.NewKVRepo(kv), opts...)
}

func New(repo repository.Repository, opts ...Option) Service {
	s := &snapshotService{repo: repo, key: persistence.DefaultKey, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type snapshotService struct {
	repo   repository.Repository
	key    string
	backup Backup
	now    func() time.Time
}

func (s *snapshotService) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		metrics.SnapshotSaves.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: empty body", ErrInvalid)
	}
	c := snap.Clone()
	c.Normalize()
	if err := c.Validate(); err != nil {
		metrics.SnapshotSaves.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	blob, err := persistence.Encode(c)
	if err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return err
	}
	if err := s.repo.Put(ctx, s.key, blob); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return err
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	logger.Debugf("snapshot %s stored: %d folders, %d events, %d bytes", s.key, len(c.Folders), len(c.Events), len(blob))

	if s.backup != nil {
		if err := s.backup.BackupSnapshot(ctx, s.key, blob); err != nil {
			logger.Warnf("snapshot backup failed: %v", err)
		}
	}
	return nil
}

func (s *snapshotService) Load(ctx context.Context) (*models.Snapshot, error) {
	blob, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return persistence.Decode(blob)
}

// ListDocuments flattens every folder's documents, newest edit first. search
// is a case-insensitive substring match on title or folder name.
func (s *snapshotService) ListDocuments(ctx context.Context, search string) ([]DocumentSummary, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []DocumentSummary{}
	if snap == nil {
		return out, nil
	}
	q := strings.ToLower(strings.TrimSpace(search))
	now := s.now()
	for _, f := range snap.Folders {
		for _, d := range snap.Documents[f.ID] {
			if q != "" && !strings.Contains(strings.ToLower(d.Title), q) && !strings.Contains(strings.ToLower(f.Name), q) {
				continue
			}
			out = append(out, DocumentSummary{
				ID:         d.ID,
				Title:      d.Title,
				Subject:    f.Name,
				FolderID:   f.ID,
				LastEdited: calendar.RelativeAge(d.UpdatedAt, now),
				UpdatedAt:  d.UpdatedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// ListEvents returns the matching events ordered by date, then time of day.
// Untimed events sort first within their day.
func (s *snapshotService) ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Event{}
	if snap == nil {
		return out, nil
	}
	if f.Year == 0 {
		out = append(out, snap.Events...)
	} else {
		idx := calendar.NewEventIndex(snap.Events)
		if f.Day > 0 {
			out = append(out, idx.OnDay(models.NewDate(f.Year, f.Month, f.Day))...)
		} else {
			for _, day := range idx.InMonth(f.Year, f.Month) {
				out = append(out, day...)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}
