package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/note"
	"github.com/carpeta/organizer/internal/note/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid note")
)

// View is a note as the API returns it.
type View struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Color      string `json:"color"`
	LastEdited string `json:"lastEdited"`
}

// Service defines the note operations used by the handler layer.
type Service interface {
	Create(title, content, color string) (View, error)
	Get(id string) (View, error)
	List(search string) ([]View, error)
	Update(id string, p note.Patch) (View, error)
	Delete(id string) error
}

type repo interface {
	Create(n *note.Note) (string, error)
	Get(id string) (*note.Note, error)
	List() ([]*note.Note, error)
	Update(id string, p note.Patch) (*note.Note, error)
	Delete(id string) error
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return &noteService{repo: repository.NewMemoryRepo(), now: time.Now}
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection) Service {
	return &noteService{repo: repository.NewMongoRepo(col), now: time.Now}
}

type noteService struct {
	repo repo
	now  func() time.Time
}

func (s *noteService) view(n *note.Note) View {
	return View{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Color:      n.Color,
		LastEdited: calendar.RelativeAge(n.UpdatedAt, s.now()),
	}
}

func (s *noteService) Create(title, content, color string) (View, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return View{}, fmt.Errorf("%w: title and content are required", ErrInvalid)
	}
	if color == "" {
		color = note.DefaultColor
	}
	n := &note.Note{Title: title, Content: content, Color: color}
	if _, err := s.repo.Create(n); err != nil {
		return View{}, err
	}
	return s.view(n), nil
}

func (s *noteService) Get(id string) (View, error) {
	n, err := s.repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	return s.view(n), nil
}

// List returns notes newest edit first. search matches title or content,
// case-insensitively.
func (s *noteService) List(search string) ([]View, error) {
	list, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]View, 0, len(list))
	for _, n := range list {
		if q != "" && !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		out = append(out, s.view(n))
	}
	return out, nil
}

func (s *noteService) Update(id string, p note.Patch) (View, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return View{}, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}
	n, err := s.repo.Update(id, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	return s.view(n), nil
}

func (s *noteService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
