package rooms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"escaperoom/internal/puzzle"
	"escaperoom/internal/source"
	synchub "escaperoom/internal/sync"
	"escaperoom/pkg/models"
)

const (
	keyPrefix     = "The key to the next room is: "
	codePrefix    = "The code to unlock the door is: "
	failurePrefix = "Something went wrong: "
)

var ErrUnknownRoom = errors.New("unknown room")

// Documents is the fetch side of rooms 1 and 3.
type Documents interface {
	Books(ctx context.Context) ([]models.Book, error)
	Directions(ctx context.Context) ([]models.Direction, error)
}

// Service runs a room from its trigger to its output element.
type Service struct {
	Docs   Documents
	Board  *Board
	Pub    Publisher
	Delay  time.Duration // labyrinth step delay
	Logger *zap.Logger

	// Base bounds every run; cancelling it (process shutdown) stops
	// in-flight walks. Nil means runs are never cancelled.
	Base context.Context

	// SingleFlight makes a solve that starts while the same room is still
	// running wait for that run instead of starting another.
	SingleFlight bool
	group        singleflight.Group
}

// Solve runs the room's pipeline and writes the outcome to the board. The
// run is detached from ctx cancellation: a caller that goes away does not
// stop it, matching a click that cannot be taken back. Only Base ends a run
// early.
func (s *Service) Solve(ctx context.Context, room models.RoomID) (models.Result, error) {
	if !room.Valid() {
		return models.Result{}, ErrUnknownRoom
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	if s.Base != nil {
		stop := context.AfterFunc(s.Base, cancel)
		defer stop()
	}

	if !s.SingleFlight {
		return s.solve(ctx, room)
	}

	type outcome struct {
		res models.Result
		err error
	}
	v, _, shared := s.group.Do(room.Output(), func() (any, error) {
		res, err := s.solve(ctx, room)
		return outcome{res: res, err: err}, nil
	})
	if shared {
		s.logger().Debug("joined in-flight run", zap.String("room", room.Trigger()))
	}
	o := v.(outcome)
	return o.res, o.err
}

func (s *Service) solve(ctx context.Context, room models.RoomID) (models.Result, error) {
	runID := uuid.NewString()
	log := s.logger().With(zap.String("room", room.Trigger()), zap.String("run_id", runID))
	log.Info("room started")
	start := time.Now()

	var (
		text string
		err  error
	)
	switch room {
	case models.Room1:
		text, err = s.findKey(ctx)
	case models.Room2:
		text = s.unlockCode()
	case models.Room3:
		text, err = s.navigate(ctx, room, runID, log)
	}

	res := models.Result{
		Room:   room,
		Output: room.Output(),
		Text:   text,
		RunID:  runID,
		At:     time.Now().UTC(),
	}
	if err != nil {
		log.Error("room failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		res.Text = failurePrefix + err.Error()
		res.Failed = true
	} else {
		log.Info("room solved", zap.String("text", text), zap.Duration("took", time.Since(start)))
	}

	if s.Board != nil {
		s.Board.Write(res)
	}
	return res, err
}

func (s *Service) findKey(ctx context.Context) (string, error) {
	books, err := s.Docs.Books(ctx)
	if err != nil {
		return "", err
	}
	book, err := puzzle.MostRecentBook(books)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source.BooksDocument, err)
	}
	return keyPrefix + book.Title, nil
}

func (s *Service) unlockCode() string {
	common := puzzle.Intersect(puzzle.JSConcepts(), puzzle.ReactConcepts())
	return codePrefix + common.String()
}

func (s *Service) navigate(ctx context.Context, room models.RoomID, runID string, log *zap.Logger) (string, error) {
	dirs, err := s.Docs.Directions(ctx)
	if err != nil {
		return "", err
	}

	w := &puzzle.Walker{
		Delay:  s.Delay,
		Logger: log,
		OnStep: func(ev puzzle.StepEvent) {
			if s.Pub == nil {
				return
			}
			s.Pub.Publish(synchub.RoomEvent{
				Type:  synchub.EventLabyrinthStep,
				Room:  int(room),
				Step:  ev.Step,
				Index: ev.Index,
				Total: ev.Total,
				RunID: runID,
				At:    time.Now().UTC(),
			})
		},
	}
	return w.Walk(ctx, dirs)
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
