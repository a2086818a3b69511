package rooms

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escaperoom/internal/puzzle"
	"escaperoom/internal/source"
	synchub "escaperoom/internal/sync"
	"escaperoom/pkg/models"
)

type fakeDocs struct {
	books      []models.Book
	directions []models.Direction
	err        error
	wait       time.Duration
	calls      atomic.Int32
}

func (f *fakeDocs) Books(ctx context.Context) ([]models.Book, error) {
	f.calls.Add(1)
	time.Sleep(f.wait)
	return f.books, f.err
}

func (f *fakeDocs) Directions(ctx context.Context) ([]models.Direction, error) {
	f.calls.Add(1)
	time.Sleep(f.wait)
	return f.directions, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []synchub.RoomEvent
}

func (r *recorder) Publish(ev synchub.RoomEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []synchub.RoomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]synchub.RoomEvent(nil), r.events...)
}

func newService(docs Documents, pub *recorder) *Service {
	return &Service{
		Docs:  docs,
		Board: NewBoard(pub),
		Pub:   pub,
		Delay: 10 * time.Millisecond,
	}
}

func TestSolveRoom1(t *testing.T) {
	docs := &fakeDocs{books: []models.Book{
		{Title: "A", Published: "2020-01-01"},
		{Title: "B", Published: "2023-06-15"},
		{Title: "C", Published: "2019-12-31"},
	}}
	pub := &recorder{}
	svc := newService(docs, pub)

	res, err := svc.Solve(context.Background(), models.Room1)
	require.NoError(t, err)
	assert.Equal(t, "The key to the next room is: B", res.Text)
	assert.Equal(t, "room1Result", res.Output)
	assert.NotEmpty(t, res.RunID)

	got, ok := svc.Board.Get("room1Result")
	require.True(t, ok)
	assert.Equal(t, res, got)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, synchub.EventRoomResult, events[0].Type)
	assert.Equal(t, res.Text, events[0].Text)
}

func TestSolveRoom2(t *testing.T) {
	svc := newService(&fakeDocs{}, &recorder{})

	res, err := svc.Solve(context.Background(), models.Room2)
	require.NoError(t, err)
	assert.Equal(t, "The code to unlock the door is: async", res.Text)
}

func TestSolveRoom3(t *testing.T) {
	docs := &fakeDocs{directions: []models.Direction{{Step: "north"}, {Step: "east"}}}
	pub := &recorder{}
	svc := newService(docs, pub)

	start := time.Now()
	res, err := svc.Solve(context.Background(), models.Room3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 2*svc.Delay)
	assert.Equal(t, puzzle.Congratulations, res.Text)

	events := pub.all()
	require.Len(t, events, 3)
	assert.Equal(t, synchub.EventLabyrinthStep, events[0].Type)
	assert.Equal(t, "north", events[0].Step)
	assert.Equal(t, "east", events[1].Step)
	assert.Equal(t, 1, events[1].Index)
	assert.Equal(t, synchub.EventRoomResult, events[2].Type)
	assert.Equal(t, res.RunID, events[0].RunID)
}

func TestSolveRoom3EmptyLabyrinth(t *testing.T) {
	pub := &recorder{}
	svc := newService(&fakeDocs{directions: []models.Direction{}}, pub)
	svc.Delay = time.Hour

	res, err := svc.Solve(context.Background(), models.Room3)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Congratulations, res.Text)
	require.Len(t, pub.all(), 1)
}

func TestSolveFailuresAreShown(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		docs := &fakeDocs{err: fmt.Errorf("books.json: %w: status 500", source.ErrFetch)}
		svc := newService(docs, &recorder{})

		res, err := svc.Solve(context.Background(), models.Room1)
		require.ErrorIs(t, err, source.ErrFetch)
		assert.True(t, res.Failed)
		assert.Equal(t, "Something went wrong: books.json: fetch failed: status 500", res.Text)

		got, ok := svc.Board.Get("room1Result")
		require.True(t, ok)
		assert.True(t, got.Failed)
	})

	t.Run("empty books", func(t *testing.T) {
		svc := newService(&fakeDocs{books: nil}, &recorder{})

		res, err := svc.Solve(context.Background(), models.Room1)
		require.ErrorIs(t, err, puzzle.ErrEmptyInput)
		assert.Equal(t, "Something went wrong: books.json: empty input", res.Text)
	})

	t.Run("unknown room", func(t *testing.T) {
		svc := newService(&fakeDocs{}, &recorder{})
		_, err := svc.Solve(context.Background(), models.RoomID(7))
		assert.ErrorIs(t, err, ErrUnknownRoom)
		assert.Empty(t, svc.Board.Snapshot())
	})
}

func TestSolveIgnoresCallerCancel(t *testing.T) {
	docs := &fakeDocs{directions: []models.Direction{{Step: "north"}}}
	svc := newService(docs, &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Solve(ctx, models.Room3)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Congratulations, res.Text)
}

func TestOverlappingSolvesLastWriteWins(t *testing.T) {
	docs := &fakeDocs{directions: []models.Direction{{Step: "a"}}}
	svc := newService(docs, &recorder{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []models.Result
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Solve(context.Background(), models.Room3)
			assert.NoError(t, err)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), docs.calls.Load())
	snap := svc.Board.Snapshot()
	require.Len(t, snap, 1)

	runIDs := map[string]bool{}
	for _, r := range results {
		runIDs[r.RunID] = true
	}
	assert.Len(t, runIDs, 3)
	assert.True(t, runIDs[snap[0].RunID])
}

func TestSingleFlightJoinsRun(t *testing.T) {
	docs := &fakeDocs{
		books: []models.Book{{Title: "only", Published: "2001-01-01"}},
		wait:  50 * time.Millisecond,
	}
	svc := newService(docs, &recorder{})
	svc.SingleFlight = true

	var wg sync.WaitGroup
	runIDs := make([]string, 4)
	for i := range runIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Solve(context.Background(), models.Room1)
			assert.NoError(t, err)
			runIDs[i] = res.RunID
		}(i)
	}
	wg.Wait()

	assert.Less(t, docs.calls.Load(), int32(4))
	for _, id := range runIDs {
		assert.NotEmpty(t, id)
	}
}

func TestBoardSnapshotOrder(t *testing.T) {
	b := NewBoard(nil)
	b.Write(models.Result{Room: models.Room3, Output: "room3Result", Text: "c"})
	b.Write(models.Result{Room: models.Room1, Output: "room1Result", Text: "a"})
	b.Write(models.Result{Room: models.Room1, Output: "room1Result", Text: "a2"})

	snap := b.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a2", snap[0].Text)
	assert.Equal(t, "c", snap[1].Text)

	_, ok := b.Get("room2Result")
	assert.False(t, ok)
}

// slowPublisher stalls on chosen texts so a later write can overtake it.
type slowPublisher struct {
	recorder
	stall map[string]time.Duration
}

func (p *slowPublisher) Publish(ev synchub.RoomEvent) {
	time.Sleep(p.stall[ev.Text])
	p.recorder.Publish(ev)
}

func TestBoardBroadcastOrderMatchesWrites(t *testing.T) {
	pub := &slowPublisher{stall: map[string]time.Duration{"A": 50 * time.Millisecond}}
	b := NewBoard(pub)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.Write(models.Result{Room: models.Room3, Output: "room3Result", Text: "A"})
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		b.Write(models.Result{Room: models.Room3, Output: "room3Result", Text: "B"})
	}()
	wg.Wait()

	got, ok := b.Get("room3Result")
	require.True(t, ok)

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, got.Text, events[len(events)-1].Text)
	assert.Equal(t, "B", got.Text)
}

func TestBoardEvents(t *testing.T) {
	b := NewBoard(nil)
	b.Write(models.Result{Room: models.Room2, Output: "room2Result", Text: "code", RunID: "r2"})
	b.Write(models.Result{Room: models.Room1, Output: "room1Result", Text: "key", RunID: "r1", Failed: true})

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, synchub.EventRoomResult, events[0].Type)
	assert.Equal(t, "room1Result", events[0].Output)
	assert.True(t, events[0].Failed)
	assert.Equal(t, "r2", events[1].RunID)
}

func TestBaseCancelStopsWalk(t *testing.T) {
	docs := &fakeDocs{directions: []models.Direction{{Step: "north"}, {Step: "east"}}}
	svc := newService(docs, &recorder{})
	svc.Delay = time.Hour

	base, shutdown := context.WithCancel(context.Background())
	svc.Base = base

	type outcome struct {
		res models.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := svc.Solve(context.Background(), models.Room3)
		done <- outcome{res, err}
	}()

	time.Sleep(20 * time.Millisecond)
	shutdown()

	select {
	case o := <-done:
		require.ErrorIs(t, o.err, context.Canceled)
		assert.True(t, o.res.Failed)
	case <-time.After(2 * time.Second):
		t.Fatal("walk kept running after base context was cancelled")
	}
}

func TestBaseStillDetachesCaller(t *testing.T) {
	docs := &fakeDocs{directions: []models.Direction{{Step: "north"}}}
	svc := newService(docs, &recorder{})
	svc.Base = context.Background()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Solve(ctx, models.Room3)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Congratulations, res.Text)
}
