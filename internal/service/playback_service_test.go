package service

import (
	"context"
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/logger"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type completionEvent struct {
	userID, courseID, lessonID uint
	idempotencyKey             string
}

type fakeCompletionSink struct {
	events []completionEvent
	err    error
}

func (f *fakeCompletionSink) MarkLessonComplete(_ context.Context, userID, courseID, lessonID uint, idempotencyKey string) (*model.Enrollment, error) {
	f.events = append(f.events, completionEvent{userID, courseID, lessonID, idempotencyKey})
	if f.err != nil {
		return nil, f.err
	}
	return &model.Enrollment{}, nil
}

func TestPlaybackLoadStartsPaused(t *testing.T) {
	svc := NewPlaybackService(&fakeCompletionSink{})

	status := svc.Load(1, 7, 101)
	require.NotEmpty(t, status.SessionID)
	assert.Equal(t, PlaybackPaused, status.State)
	assert.Equal(t, uint(101), status.LessonID)
	assert.Zero(t, status.Position)
	assert.False(t, status.Emitted)
}

func TestPlaybackPlayPauseToggle(t *testing.T) {
	svc := NewPlaybackService(&fakeCompletionSink{})
	session := svc.Load(1, 7, 101)

	status, err := svc.Play(session.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, PlaybackPlaying, status.State)

	// Play while playing is a no-op.
	status, err = svc.Play(session.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, PlaybackPlaying, status.State)

	status, err = svc.Pause(session.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, PlaybackPaused, status.State)
}

func TestPlaybackUnknownSession(t *testing.T) {
	svc := NewPlaybackService(&fakeCompletionSink{})

	_, err := svc.Play("missing", 1)
	assert.ErrorIs(t, err, util.ErrPlaybackSessionNotFound)

	_, err = svc.UpdatePosition(context.Background(), "missing", 1, 50)
	assert.ErrorIs(t, err, util.ErrPlaybackSessionNotFound)
}

func TestPlaybackSessionBoundToUser(t *testing.T) {
	svc := NewPlaybackService(&fakeCompletionSink{})
	session := svc.Load(1, 7, 101)

	_, err := svc.Status(session.SessionID, 2)
	assert.ErrorIs(t, err, util.ErrPlaybackSessionNotFound)
}

func TestPlaybackEmitsOnceAtThreshold(t *testing.T) {
	sink := &fakeCompletionSink{}
	svc := NewPlaybackService(sink)
	session := svc.Load(1, 7, 101)
	ctx := context.Background()

	_, err := svc.Play(session.SessionID, 1)
	require.NoError(t, err)

	status, err := svc.UpdatePosition(ctx, session.SessionID, 1, 10)
	require.NoError(t, err)
	assert.False(t, status.Emitted)
	assert.Empty(t, sink.events)

	// Crossing the threshold emits and completes the session.
	status, err = svc.UpdatePosition(ctx, session.SessionID, 1, 96)
	require.NoError(t, err)
	assert.True(t, status.Emitted)
	assert.Equal(t, PlaybackCompleted, status.State)
	require.Len(t, sink.events, 1)
	assert.Equal(t, completionEvent{1, 7, 101, session.SessionID}, sink.events[0])

	// Seeking back and crossing again must not re-emit.
	status, err = svc.UpdatePosition(ctx, session.SessionID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, PlaybackCompleted, status.State)
	assert.Equal(t, 50.0, status.Position)

	status, err = svc.UpdatePosition(ctx, session.SessionID, 1, 97)
	require.NoError(t, err)
	assert.Len(t, sink.events, 1)
	assert.True(t, status.Emitted)
}

func TestPlaybackExactThresholdEmits(t *testing.T) {
	sink := &fakeCompletionSink{}
	svc := NewPlaybackService(sink)
	session := svc.Load(1, 7, 101)

	_, err := svc.UpdatePosition(context.Background(), session.SessionID, 1, CompletionThreshold)
	require.NoError(t, err)
	assert.Len(t, sink.events, 1)
}

func TestPlaybackCompletedIsSticky(t *testing.T) {
	sink := &fakeCompletionSink{}
	svc := NewPlaybackService(sink)
	session := svc.Load(1, 7, 101)
	ctx := context.Background()

	_, err := svc.UpdatePosition(ctx, session.SessionID, 1, 99)
	require.NoError(t, err)

	// Play and pause no longer change the state.
	status, err := svc.Play(session.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, PlaybackCompleted, status.State)

	status, err = svc.Pause(session.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, PlaybackCompleted, status.State)
}

func TestPlaybackReloadStartsFreshSession(t *testing.T) {
	sink := &fakeCompletionSink{}
	svc := NewPlaybackService(sink)
	ctx := context.Background()

	first := svc.Load(1, 7, 101)
	_, err := svc.UpdatePosition(ctx, first.SessionID, 1, 99)
	require.NoError(t, err)
	require.Len(t, sink.events, 1)

	// A new load of the same lesson gets its own session and its own
	// emission, keyed by the new session id.
	second := svc.Load(1, 7, 101)
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, PlaybackPaused, second.State)

	_, err = svc.UpdatePosition(ctx, second.SessionID, 1, 98)
	require.NoError(t, err)
	require.Len(t, sink.events, 2)
	assert.Equal(t, second.SessionID, sink.events[1].idempotencyKey)
}

func TestPlaybackSinkErrorDoesNotFailUpdate(t *testing.T) {
	sink := &fakeCompletionSink{err: errors.New("db down")}
	svc := NewPlaybackService(sink)
	session := svc.Load(1, 7, 101)

	status, err := svc.UpdatePosition(context.Background(), session.SessionID, 1, 96)
	require.NoError(t, err)
	assert.Equal(t, PlaybackCompleted, status.State)
	assert.True(t, status.Emitted)
}

func TestPlaybackPruneIdle(t *testing.T) {
	svc := NewPlaybackService(&fakeCompletionSink{})
	stale := svc.Load(1, 7, 101)
	svc.Load(1, 7, 102)

	svc.mu.Lock()
	svc.sessions[stale.SessionID].lastTouch = time.Now().Add(-7 * time.Hour)
	svc.mu.Unlock()

	assert.Equal(t, 1, svc.PruneIdle(6*time.Hour))

	_, err := svc.Status(stale.SessionID, 1)
	assert.ErrorIs(t, err, util.ErrPlaybackSessionNotFound)
}
