package service

import (
	"context"
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompletionThreshold is the playback percentage at which a video lesson
// counts as finished.
const CompletionThreshold = 95.0

// sessionIdleExpiry is how long an untouched playback session survives
// before the janitor sweeps it.
const sessionIdleExpiry = 6 * time.Hour

type PlaybackState string

const (
	PlaybackUnloaded  PlaybackState = "unloaded"
	PlaybackPaused    PlaybackState = "loaded-paused"
	PlaybackPlaying   PlaybackState = "loaded-playing"
	PlaybackCompleted PlaybackState = "completed"
)

// CompletionSink receives the single completion event a playback session
// may emit. ProgressService implements it.
type CompletionSink interface {
	MarkLessonComplete(ctx context.Context, userID, courseID, lessonID uint, idempotencyKey string) (*model.Enrollment, error)
}

// PlaybackStatus is the view returned to the presentation layer after
// every playback operation.
type PlaybackStatus struct {
	SessionID string        `json:"sessionId"`
	LessonID  uint          `json:"lessonId"`
	State     PlaybackState `json:"state"`
	Position  float64       `json:"position"`
	Emitted   bool          `json:"completionEmitted"`
}

// playbackSession tracks one lesson load. The session id doubles as the
// idempotency key for the completion event, which is what bounds the
// event to once per load.
type playbackSession struct {
	id        string
	userID    uint
	courseID  uint
	lessonID  uint
	state     PlaybackState
	position  float64
	emitted   bool
	lastTouch time.Time
}

// PlaybackService runs the per-load playback state machine:
// unloaded -> loaded-paused <-> loaded-playing -> completed. Completed is
// sticky; loading a lesson always starts a fresh session.
type PlaybackService struct {
	sink CompletionSink

	mu       sync.Mutex
	sessions map[string]*playbackSession
}

func NewPlaybackService(sink CompletionSink) *PlaybackService {
	return &PlaybackService{
		sink:     sink,
		sessions: make(map[string]*playbackSession),
	}
}

// Load starts a new playback session for a lesson. The previous session
// for the same lesson, if any, is left to expire; its completion event
// cannot fire twice because emission is per session.
func (s *PlaybackService) Load(userID, courseID, lessonID uint) *PlaybackStatus {
	session := &playbackSession{
		id:        uuid.New().String(),
		userID:    userID,
		courseID:  courseID,
		lessonID:  lessonID,
		state:     PlaybackPaused,
		lastTouch: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	return session.status()
}

func (s *PlaybackService) Play(sessionID string, userID uint) (*PlaybackStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.state == PlaybackPaused {
		session.state = PlaybackPlaying
	}
	session.lastTouch = time.Now()
	return session.status(), nil
}

func (s *PlaybackService) Pause(sessionID string, userID uint) (*PlaybackStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.state == PlaybackPlaying {
		session.state = PlaybackPaused
	}
	session.lastTouch = time.Now()
	return session.status(), nil
}

// UpdatePosition records a playback position (0-100). Seeks in either
// direction are accepted as-is. The first update at or past the
// completion threshold emits the session's one completion event and
// moves the machine to completed, where it stays.
func (s *PlaybackService) UpdatePosition(ctx context.Context, sessionID string, userID uint, position float64) (*PlaybackStatus, error) {
	s.mu.Lock()
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	session.position = position
	session.lastTouch = time.Now()

	emit := position >= CompletionThreshold && !session.emitted
	if emit {
		session.emitted = true
		session.state = PlaybackCompleted
	}
	status := session.status()
	s.mu.Unlock()

	if emit {
		if _, err := s.sink.MarkLessonComplete(ctx, session.userID, session.courseID, session.lessonID, session.id); err != nil {
			logger.Log.Error("Playback completion event failed",
				zap.Uint("lessonId", session.lessonID),
				zap.String("sessionId", session.id),
				zap.Error(err))
		}
	}

	return status, nil
}

func (s *PlaybackService) Status(sessionID string, userID uint) (*PlaybackStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return session.status(), nil
}

// PruneIdle drops sessions untouched for longer than maxIdle and returns
// how many were removed.
func (s *PlaybackService) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if time.Since(session.lastTouch) > maxIdle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle sessions on a timer until the context is
// cancelled.
func (s *PlaybackService) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.PruneIdle(sessionIdleExpiry); n > 0 {
					logger.Log.Debug("Pruned idle playback sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

// lookup must be called with the mutex held.
func (s *PlaybackService) lookup(sessionID string, userID uint) (*playbackSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.userID != userID {
		return nil, util.ErrPlaybackSessionNotFound
	}
	return session, nil
}

func (ps *playbackSession) status() *PlaybackStatus {
	return &PlaybackStatus{
		SessionID: ps.id,
		LessonID:  ps.lessonID,
		State:     ps.state,
		Position:  ps.position,
		Emitted:   ps.emitted,
	}
}
