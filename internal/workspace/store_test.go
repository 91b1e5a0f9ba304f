package workspace

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/stretchr/testify/require"
)

// recorder keeps every saved snapshot and serves a fixed load result.
type recorder struct {
	mu    sync.Mutex
	saves []*models.Snapshot
	load  *models.Snapshot
	src   persistence.Source
}

func (r *recorder) Save(_ context.Context, snap *models.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, snap)
}

func (r *recorder) Load(context.Context) (*models.Snapshot, persistence.Source) {
	if r.load == nil {
		return nil, persistence.SourceNone
	}
	return r.load.Clone(), r.src
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recorder) last() *models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

// clock advances one second per call.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(p Persister) *Store {
	c := &clock{t: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)}
	return New(p, WithClock(c.now), WithIDFunc(sequentialIDs()))
}

func TestCreateFolder(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)

	seen := map[string]bool{}
	for _, name := range []string{"Notes", "Maths", "Notes"} {
		f, err := s.CreateFolder(name)
		require.NoError(t, err)
		require.False(t, seen[f.ID], "ids must be fresh")
		seen[f.ID] = true

		docs, err := s.Documents(f.ID)
		require.NoError(t, err)
		require.Empty(t, docs)
		require.NotNil(t, docs)
	}
	require.Len(t, s.Folders(), 3)
	require.Equal(t, 3, rec.count())
	require.Len(t, rec.last().Folders, 3)

	_, err := s.CreateFolder("   ")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 3, rec.count())
}

func TestDocumentLifecycle(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)
	f, err := s.CreateFolder("Notes")
	require.NoError(t, err)

	d, err := s.CreateDocument(f.ID, "")
	require.NoError(t, err)
	require.Equal(t, UntitledDocument, d.Title)
	require.Equal(t, "", d.Content)
	require.Equal(t, f.ID, d.FolderID)
	require.Equal(t, d.CreatedAt, d.UpdatedAt)

	require.NoError(t, s.SaveDocument(f.ID, d.ID, "Draft 2", "<p>body</p>"))
	got, err := s.Document(f.ID, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Draft 2", got.Title)
	require.Equal(t, "<p>body</p>", got.Content)
	require.False(t, got.UpdatedAt.Before(got.CreatedAt))
	require.True(t, got.UpdatedAt.After(d.UpdatedAt))
	require.Equal(t, d.CreatedAt, got.CreatedAt)

	_, err = s.CreateDocument("nope", "x")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.SaveDocument(f.ID, "nope", "t", "c"), ErrNotFound)
	require.ErrorIs(t, s.SaveDocument("nope", d.ID, "t", "c"), ErrNotFound)
	require.NoError(t, rec.last().Validate())
}

func TestSaveDocumentNeverMovesUpdatedBeforeCreated(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), // selected date
		time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), // folder
		time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), // document
		time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC), // clock went backwards
	}
	i := 0
	s := New(nil, WithIDFunc(sequentialIDs()), WithClock(func() time.Time {
		ts := times[i]
		if i < len(times)-1 {
			i++
		}
		return ts
	}))
	f, _ := s.CreateFolder("a")
	d, _ := s.CreateDocument(f.ID, "b")
	require.NoError(t, s.SaveDocument(f.ID, d.ID, "b", "c"))
	got, _ := s.Document(f.ID, d.ID)
	require.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestEvents(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)

	e1, err := s.CreateEvent("Exam", "2025-03-14", "room 4")
	require.NoError(t, err)
	require.Equal(t, models.NewDate(2025, time.March, 14), e1.Date)

	e2, err := s.CreateEventWith(EventInput{Title: "Lab", Date: "2025-03-14T23:30:00Z", Time: "14:00", Type: models.EventClass})
	require.NoError(t, err)
	_, err = s.CreateEvent("Other", "2025-03-15", "")
	require.NoError(t, err)

	require.Equal(t, models.NewDate(2025, time.March, 14), s.SelectedDate(), "selection defaults to today")
	require.Len(t, s.EventsOnSelectedDate(), 2)
	s.SelectDate(models.NewDate(2025, time.March, 15))
	require.Len(t, s.EventsOnSelectedDate(), 1)
	s.SelectDate(models.NewDate(2025, time.March, 14))
	on := s.EventsOnSelectedDate()
	require.Len(t, on, 2)
	require.Equal(t, e1.ID, on[0].ID)
	require.Equal(t, e2.ID, on[1].ID)

	for _, bad := range []EventInput{
		{Title: "", Date: "2025-03-14"},
		{Title: "x", Date: "14/03/2025"},
		{Title: "x", Date: "2025-03-14", Time: "25:00"},
		{Title: "x", Date: "2025-03-14", Type: "party"},
	} {
		_, err := s.CreateEventWith(bad)
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", bad)
	}
	require.Len(t, s.Events(), 3)
}

func TestDeleteEvent(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)
	e, _ := s.CreateEvent("a", "2025-03-14", "")
	_, _ = s.CreateEvent("b", "2025-03-15", "")
	before := s.Events()
	saves := rec.count()

	err := s.DeleteEvent("missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, before, s.Events())
	require.Equal(t, saves, rec.count(), "failed delete must not persist")

	require.NoError(t, s.DeleteEvent(e.ID))
	require.Len(t, s.Events(), 1)
	require.Equal(t, "b", s.Events()[0].Title)
	require.Len(t, rec.last().Events, 1)
	// the earlier save copy was not aliased by the removal
	require.Len(t, before, 2)
}

func TestSelectionDoesNotPersist(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)
	f, _ := s.CreateFolder("a")
	saves := rec.count()

	_, ok := s.CurrentFolder()
	require.False(t, ok)
	require.NoError(t, s.SelectFolder(f.ID))
	cur, ok := s.CurrentFolder()
	require.True(t, ok)
	require.Equal(t, f.ID, cur.ID)
	require.ErrorIs(t, s.SelectFolder("zzz"), ErrNotFound)

	s.SelectDate(models.NewDate(2030, time.January, 1))
	require.Equal(t, saves, rec.count())
}

func TestRenameFolder(t *testing.T) {
	s := newTestStore(nil)
	f, _ := s.CreateFolder("old")
	require.NoError(t, s.RenameFolder(f.ID, " new "))
	require.Equal(t, "new", s.Folders()[0].Name)
	require.ErrorIs(t, s.RenameFolder(f.ID, ""), ErrInvalidInput)
	require.ErrorIs(t, s.RenameFolder("x", "y"), ErrNotFound)
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := newTestStore(nil)
	f, _ := s.CreateFolder("a")
	_, _ = s.CreateDocument(f.ID, "d")

	snap := s.Snapshot()
	snap.Folders[0].Name = "mutated"
	snap.Documents[f.ID][0].Title = "mutated"
	folders := s.Folders()
	folders[0].Name = "mutated"

	require.Equal(t, "a", s.Folders()[0].Name)
	docs, _ := s.Documents(f.ID)
	require.Equal(t, "d", docs[0].Title)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(nil)
	var got []Change
	unsubscribe := s.Subscribe(func(c Change) {
		// listeners may read the store
		_ = s.Folders()
		got = append(got, c)
	})

	f, _ := s.CreateFolder("a")
	d, _ := s.CreateDocument(f.ID, "")
	_ = s.SaveDocument(f.ID, d.ID, "t", "c")
	_ = s.SelectFolder(f.ID)
	s.SelectDate(models.NewDate(2025, 1, 1))
	_ = s.DeleteEvent("missing")

	require.Equal(t, []Change{
		{Kind: FolderCreated, ID: f.ID},
		{Kind: DocumentCreated, ID: d.ID},
		{Kind: DocumentSaved, ID: d.ID},
		{Kind: FolderSelected, ID: f.ID},
		{Kind: DateSelected},
	}, got)

	unsubscribe()
	unsubscribe()
	_, _ = s.CreateFolder("b")
	require.Len(t, got, 5)
}

func TestLoad_DefaultFolderWhenNothingStored(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(rec)
	var kinds []ChangeKind
	s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	src := s.Load(context.Background())
	require.Equal(t, persistence.SourceNone, src)
	folders := s.Folders()
	require.Len(t, folders, 1)
	require.Equal(t, DefaultFolderName, folders[0].Name)
	cur, ok := s.CurrentFolder()
	require.True(t, ok)
	require.Equal(t, folders[0].ID, cur.ID)
	require.Equal(t, 1, rec.count(), "default folder is persisted")
	require.Equal(t, []ChangeKind{FolderCreated, SnapshotLoaded}, kinds)
}

func TestLoad_ReplacesSnapshot(t *testing.T) {
	stored := models.NewSnapshot()
	stored.Folders = []models.Folder{{ID: "f1", Name: "Physics"}, {ID: "f2", Name: "Maths"}}
	stored.Normalize()
	rec := &recorder{load: stored, src: persistence.SourceRemote}

	s := New(rec, WithDefaultFolderName("Inbox"))
	_, _ = s.CreateFolder("scratch")
	saves := rec.count()

	require.Equal(t, persistence.SourceRemote, s.Load(context.Background()))
	require.Equal(t, stored, s.Snapshot())
	cur, _ := s.CurrentFolder()
	require.Equal(t, "f1", cur.ID)
	require.Equal(t, saves, rec.count(), "a plain load does not write back")
}

func TestReloadScenario(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	gw := persistence.NewGateway(persistence.NewKVLocal(kv, ""), nil, persistence.GatewayOptions{})

	s := New(gw)
	f, err := s.CreateFolder("Notes")
	require.NoError(t, err)
	d, err := s.CreateDocument(f.ID, "Draft")
	require.NoError(t, err)
	require.NoError(t, s.SaveDocument(f.ID, d.ID, "Draft", "<p>hi</p>"))
	gw.Wait()

	fresh := New(persistence.NewGateway(persistence.NewKVLocal(kv, ""), nil, persistence.GatewayOptions{}))
	require.Equal(t, persistence.SourceLocal, fresh.Load(ctx))
	got, err := fresh.Document(f.ID, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Draft", got.Title)
	require.Equal(t, "<p>hi</p>", got.Content)
	require.Equal(t, s.Snapshot(), fresh.Snapshot())
}

func TestConcurrentCommands(t *testing.T) {
	rec := &recorder{}
	s := New(rec)
	f, _ := s.CreateFolder("shared")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.CreateDocument(f.ID, fmt.Sprintf("doc %d", i))
			_, _ = s.CreateEvent("e", "2025-03-14", "")
		}(i)
	}
	wg.Wait()

	docs, _ := s.Documents(f.ID)
	require.Len(t, docs, 20)
	require.Len(t, s.Events(), 20)
	require.NoError(t, s.Snapshot().Validate())
	require.Equal(t, 41, rec.count())
}
