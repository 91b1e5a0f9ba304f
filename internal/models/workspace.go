package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidSnapshot is returned when a snapshot breaks one of its invariants.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Folder groups documents. Only Name changes after creation.
type Folder struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Document is a titled rich-text payload filed under exactly one folder.
// Content is opaque to this package.
type Document struct {
	ID        string    `json:"id" yaml:"id"`
	FolderID  string    `json:"folderId" yaml:"folderId"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// EventType classifies calendar events. The zero value is a generic event.
type EventType string

const (
	EventDeadline EventType = "deadline"
	EventExam     EventType = "exam"
	EventClass    EventType = "class"
	EventMeeting  EventType = "meeting"
)

// Valid reports whether t is empty or one of the known types.
func (t EventType) Valid() bool {
	switch t {
	case "", EventDeadline, EventExam, EventClass, EventMeeting:
		return true
	}
	return false
}

// Label is the short human label used by renderers.
func (t EventType) Label() string {
	switch t {
	case EventDeadline:
		return "Deadline"
	case EventExam:
		return "Exam"
	case EventClass:
		return "Class"
	case EventMeeting:
		return "Meeting"
	}
	return "Event"
}

var timeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is empty or an "HH:MM" 24h time.
func ValidTimeOfDay(s string) bool {
	return s == "" || timeOfDay.MatchString(s)
}

// Event is a dated calendar entry, independent of folders.
type Event struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Date        Date      `json:"date" yaml:"date"`
	Time        string    `json:"time,omitempty" yaml:"time,omitempty"`
	Type        EventType `json:"type,omitempty" yaml:"type,omitempty"`
	Description string    `json:"description" yaml:"description"`
}

// Snapshot is the whole persisted workspace: the unit of save and of atomic
// replace on load.
type Snapshot struct {
	Folders   []Folder              `json:"folders" yaml:"folders"`
	Documents map[string][]Document `json:"documents" yaml:"documents"`
	Events    []Event               `json:"events" yaml:"events"`
}

// NewSnapshot returns an empty, normalized snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Folders:   []Folder{},
		Documents: map[string][]Document{},
		Events:    []Event{},
	}
}

// Empty reports whether the snapshot holds no folders, documents or events.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	if len(s.Folders) > 0 || len(s.Events) > 0 {
		return false
	}
	for _, docs := range s.Documents {
		if len(docs) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Folders:   append([]Folder{}, s.Folders...),
		Documents: make(map[string][]Document, len(s.Documents)),
		Events:    append([]Event{}, s.Events...),
	}
	for id, docs := range s.Documents {
		out.Documents[id] = append([]Document{}, docs...)
	}
	return out
}

// Normalize replaces nil containers with empty ones, gives every folder a
// document entry and fills missing document folder ids from the map key.
// Older clients did not store folderId on documents.
func (s *Snapshot) Normalize() {
	if s.Folders == nil {
		s.Folders = []Folder{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	if s.Documents == nil {
		s.Documents = map[string][]Document{}
	}
	for _, f := range s.Folders {
		if s.Documents[f.ID] == nil {
			s.Documents[f.ID] = []Document{}
		}
	}
	for folderID, docs := range s.Documents {
		for i := range docs {
			if docs[i].FolderID == "" {
				docs[i].FolderID = folderID
			}
		}
	}
}

// Validate checks the snapshot invariants.
func (s *Snapshot) Validate() error {
	folders := make(map[string]bool, len(s.Folders))
	for _, f := range s.Folders {
		if f.ID == "" {
			return fmt.Errorf("%w: folder with empty id", ErrInvalidSnapshot)
		}
		if folders[f.ID] {
			return fmt.Errorf("%w: duplicate folder id %q", ErrInvalidSnapshot, f.ID)
		}
		folders[f.ID] = true
	}
	for _, f := range s.Folders {
		if _, ok := s.Documents[f.ID]; !ok {
			return fmt.Errorf("%w: no document list for folder %q", ErrInvalidSnapshot, f.ID)
		}
	}

	docs := map[string]bool{}
	for folderID, list := range s.Documents {
		if !folders[folderID] {
			return fmt.Errorf("%w: documents filed under unknown folder %q", ErrInvalidSnapshot, folderID)
		}
		for _, d := range list {
			if d.ID == "" {
				return fmt.Errorf("%w: document with empty id", ErrInvalidSnapshot)
			}
			if docs[d.ID] {
				return fmt.Errorf("%w: duplicate document id %q", ErrInvalidSnapshot, d.ID)
			}
			docs[d.ID] = true
			if d.FolderID != folderID {
				return fmt.Errorf("%w: document %q references folder %q but is filed under %q", ErrInvalidSnapshot, d.ID, d.FolderID, folderID)
			}
			if d.UpdatedAt.Before(d.CreatedAt) {
				return fmt.Errorf("%w: document %q updated before it was created", ErrInvalidSnapshot, d.ID)
			}
		}
	}

	events := make(map[string]bool, len(s.Events))
	for _, e := range s.Events {
		if e.ID == "" {
			return fmt.Errorf("%w: event with empty id", ErrInvalidSnapshot)
		}
		if events[e.ID] {
			return fmt.Errorf("%w: duplicate event id %q", ErrInvalidSnapshot, e.ID)
		}
		events[e.ID] = true
	}
	return nil
}

// FindFolder returns the folder with the given id.
func (s *Snapshot) FindFolder(id string) (Folder, bool) {
	for _, f := range s.Folders {
		if f.ID == id {
			return f, true
		}
	}
	return Folder{}, false
}
