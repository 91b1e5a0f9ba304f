// Package workspace holds the in-memory workspace: folders, documents and
// calendar events, the current folder and the selected date. Every mutation
// is handed to a Persister and announced to subscribers.
package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultFolderName = "My Documents"
	UntitledDocument  = "untitled"
)

// Persister is the subset of persistence.Gateway the store needs.
type Persister interface {
	Save(ctx context.Context, snap *models.Snapshot)
	Load(ctx context.Context) (*models.Snapshot, persistence.Source)
}

// ChangeKind names what a Change is about.
type ChangeKind string

const (
	FolderCreated   ChangeKind = "folder-created"
	FolderRenamed   ChangeKind = "folder-renamed"
	DocumentCreated ChangeKind = "document-created"
	DocumentSaved   ChangeKind = "document-saved"
	EventCreated    ChangeKind = "event-created"
	EventDeleted    ChangeKind = "event-deleted"
	FolderSelected  ChangeKind = "folder-selected"
	DateSelected    ChangeKind = "date-selected"
	SnapshotLoaded  ChangeKind = "snapshot-loaded"
)

// Change is delivered to listeners after a state transition. ID is the
// affected entity, empty for date selection and loads.
type Change struct {
	Kind ChangeKind
	ID   string
}

type Listener func(Change)

// EventInput carries the fields of a new event. Date accepts the formats of
// models.ParseDate.
type EventInput struct {
	Title       string
	Date        string
	Time        string
	Type        models.EventType
	Description string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc replaces the uuid generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithDefaultFolderName sets the folder created when nothing is stored.
func WithDefaultFolderName(name string) Option {
	return func(s *Store) { s.defaultFolder = name }
}

// Store is safe for concurrent use. Listeners run in the caller's goroutine
// after the store lock is released, so they may read from the store.
type Store struct {
	mu              sync.Mutex
	snap            *models.Snapshot
	currentFolderID string
	selectedDate    models.Date

	persister     Persister
	now           func() time.Time
	newID         func() string
	defaultFolder string

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// New returns an empty store. p may be nil, in which case nothing is persisted.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		snap:          models.NewSnapshot(),
		persister:     p,
		now:           time.Now,
		newID:         uuid.NewString,
		defaultFolder: DefaultFolderName,
		listeners:     map[int]Listener{},
	}
	for _, o := range opts {
		o(s)
	}
	s.selectedDate = models.DateOf(s.now())
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// persistLocked hands a copy of the snapshot to the persister. Must hold mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	s.persister.Save(context.Background(), s.snap.Clone())
}

func (s *Store) notify(c Change) {
	s.lmu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if l, ok := s.listeners[i]; ok {
			ls = append(ls, l)
		}
	}
	s.lmu.Unlock()
	for _, l := range ls {
		l(c)
	}
}

// Subscribe registers l for every change, in subscription order. The returned
// func removes it; calling it twice is harmless.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// Load replaces the whole snapshot with what the persister finds. When
// nothing is stored anywhere, or the stored workspace has no folders, the
// default folder is created and persisted. The first folder becomes current.
func (s *Store) Load(ctx context.Context) persistence.Source {
	var (
		snap *models.Snapshot
		src  = persistence.SourceNone
	)
	if s.persister != nil {
		snap, src = s.persister.Load(ctx)
	}

	s.mu.Lock()
	if snap == nil {
		snap = models.NewSnapshot()
	}
	snap.Normalize()
	created := ""
	if len(snap.Folders) == 0 {
		f := models.Folder{ID: s.newID(), Name: s.defaultFolder, CreatedAt: s.timestamp()}
		snap.Folders = append(snap.Folders, f)
		snap.Documents[f.ID] = []models.Document{}
		created = f.ID
	}
	s.snap = snap
	s.currentFolderID = snap.Folders[0].ID
	if created != "" {
		s.persistLocked()
	}
	s.mu.Unlock()

	logger.Debugf("workspace loaded from %s: %d folders, %d events", src, len(snap.Folders), len(snap.Events))
	if created != "" {
		s.notify(Change{Kind: FolderCreated, ID: created})
	}
	s.notify(Change{Kind: SnapshotLoaded})
	return src
}

// CreateFolder appends a folder with an empty document list.
func (s *Store) CreateFolder(name string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, fmt.Errorf("folder name is empty: %w", ErrInvalidInput)
	}
	s.mu.Lock()
	f := models.Folder{ID: s.newID(), Name: name, CreatedAt: s.timestamp()}
	s.snap.Folders = append(s.snap.Folders, f)
	s.snap.Documents[f.ID] = []models.Document{}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: FolderCreated, ID: f.ID})
	return f, nil
}

// RenameFolder changes a folder's name, the only mutable folder field.
func (s *Store) RenameFolder(folderID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("folder name is empty: %w", ErrInvalidInput)
	}
	s.mu.Lock()
	i := s.folderIndexLocked(folderID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("folder %q: %w", folderID, ErrNotFound)
	}
	s.snap.Folders[i].Name = name
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: FolderRenamed, ID: folderID})
	return nil
}

// CreateDocument files an empty document in folderID. An empty title becomes
// "untitled".
func (s *Store) CreateDocument(folderID, title string) (models.Document, error) {
	if strings.TrimSpace(title) == "" {
		title = UntitledDocument
	}
	s.mu.Lock()
	if s.folderIndexLocked(folderID) < 0 {
		s.mu.Unlock()
		return models.Document{}, fmt.Errorf("folder %q: %w", folderID, ErrNotFound)
	}
	ts := s.timestamp()
	d := models.Document{
		ID:        s.newID(),
		FolderID:  folderID,
		Title:     title,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.snap.Documents[folderID] = append(s.snap.Documents[folderID], d)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: DocumentCreated, ID: d.ID})
	return d, nil
}

// SaveDocument overwrites title and content and bumps UpdatedAt.
func (s *Store) SaveDocument(folderID, documentID, title, content string) error {
	s.mu.Lock()
	if s.folderIndexLocked(folderID) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("folder %q: %w", folderID, ErrNotFound)
	}
	docs := s.snap.Documents[folderID]
	i := documentIndex(docs, documentID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("document %q in folder %q: %w", documentID, folderID, ErrNotFound)
	}
	docs[i].Title = title
	docs[i].Content = content
	updated := s.timestamp()
	if updated.Before(docs[i].CreatedAt) {
		updated = docs[i].CreatedAt
	}
	docs[i].UpdatedAt = updated
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: DocumentSaved, ID: documentID})
	return nil
}

// CreateEvent adds an untimed, untyped event.
func (s *Store) CreateEvent(title, date, description string) (models.Event, error) {
	return s.CreateEventWith(EventInput{Title: title, Date: date, Description: description})
}

// CreateEventWith adds an event with optional time of day and type.
func (s *Store) CreateEventWith(in EventInput) (models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Event{}, fmt.Errorf("event title is empty: %w", ErrInvalidInput)
	}
	d, err := models.ParseDate(in.Date)
	if err != nil {
		return models.Event{}, fmt.Errorf("event date %q: %w", in.Date, ErrInvalidInput)
	}
	if !models.ValidTimeOfDay(in.Time) {
		return models.Event{}, fmt.Errorf("event time %q: %w", in.Time, ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return models.Event{}, fmt.Errorf("event type %q: %w", in.Type, ErrInvalidInput)
	}

	s.mu.Lock()
	e := models.Event{
		ID:          s.newID(),
		Title:       title,
		Date:        d,
		Time:        in.Time,
		Type:        in.Type,
		Description: in.Description,
	}
	s.snap.Events = append(s.snap.Events, e)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: EventCreated, ID: e.ID})
	return e, nil
}

// DeleteEvent removes an event. Unknown ids leave the store untouched and
// return ErrNotFound.
func (s *Store) DeleteEvent(eventID string) error {
	s.mu.Lock()
	i := -1
	for j, e := range s.snap.Events {
		if e.ID == eventID {
			i = j
			break
		}
	}
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("event %q: %w", eventID, ErrNotFound)
	}
	s.snap.Events = append(s.snap.Events[:i:i], s.snap.Events[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: EventDeleted, ID: eventID})
	return nil
}

// SelectFolder makes folderID current. Not persisted.
func (s *Store) SelectFolder(folderID string) error {
	s.mu.Lock()
	if s.folderIndexLocked(folderID) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("folder %q: %w", folderID, ErrNotFound)
	}
	s.currentFolderID = folderID
	s.mu.Unlock()

	s.notify(Change{Kind: FolderSelected, ID: folderID})
	return nil
}

// SelectDate sets the calendar selection. Not persisted.
func (s *Store) SelectDate(d models.Date) {
	s.mu.Lock()
	s.selectedDate = d
	s.mu.Unlock()
	s.notify(Change{Kind: DateSelected})
}

func (s *Store) folderIndexLocked(id string) int {
	for i, f := range s.snap.Folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func documentIndex(docs []models.Document, id string) int {
	for i, d := range docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a deep copy of the whole workspace.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func (s *Store) Folders() []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Folder{}, s.snap.Folders...)
}

// Documents lists the documents of folderID in creation order.
func (s *Store) Documents(folderID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.folderIndexLocked(folderID) < 0 {
		return nil, fmt.Errorf("folder %q: %w", folderID, ErrNotFound)
	}
	return append([]models.Document{}, s.snap.Documents[folderID]...), nil
}

func (s *Store) Document(folderID, documentID string) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.snap.Documents[folderID]
	i := documentIndex(docs, documentID)
	if i < 0 {
		return models.Document{}, fmt.Errorf("document %q in folder %q: %w", documentID, folderID, ErrNotFound)
	}
	return docs[i], nil
}

func (s *Store) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Event{}, s.snap.Events...)
}

// CurrentFolder returns the selected folder, if any.
func (s *Store) CurrentFolder() (models.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentFolderID == "" {
		return models.Folder{}, false
	}
	return s.snap.FindFolder(s.currentFolderID)
}

func (s *Store) SelectedDate() models.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// EventsOnSelectedDate lists events on the selected day in insertion order.
func (s *Store) EventsOnSelectedDate() []models.Event {
	s.mu.Lock()
	idx := calendar.NewEventIndex(s.snap.Events)
	d := s.selectedDate
	s.mu.Unlock()
	return idx.OnDay(d)
}
