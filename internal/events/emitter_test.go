package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOutPreservesOrder(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe(16)
	defer cancel()

	for i := 0; i < 5; i++ {
		evt := NewProgressEvent(StageGenerationProgress, "frag")
		evt.Sequence = uint64(i)
		hub.Emit(context.Background(), evt)
	}

	for i := 0; i < 5; i++ {
		evt := <-ch
		assert.Equal(t, uint64(i), evt.Sequence)
	}
}

func TestHubSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe(2)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Emit(context.Background(), NewProgressEvent(StageGenerationProgress, "x"))
		}
	}()

	select {
	case <-done:
	case <-contextDeadline(t):
		t.Fatal("Emit blocked on a slow subscriber")
	}

	// Only the buffer's worth arrived.
	count := 0
	cancel()
	for range ch {
		count++
	}
	assert.LessOrEqual(t, count, 2)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Emitting after unsubscribe must not panic.
	hub.Emit(context.Background(), NewProgressEvent(StagePersisted, ""))
	hub.Close()
}

func TestHubCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe(1)
	hub.Close()
	hub.Close()

	_, open := <-ch
	assert.False(t, open)

	// Subscribe after close yields a closed channel.
	late, cancelLate := hub.Subscribe(1)
	cancelLate()
	_, open = <-late
	assert.False(t, open)
}

func TestSessionContextRoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), "session:abc")
	assert.Equal(t, "session:abc", SessionFromContext(ctx))
	assert.Empty(t, SessionFromContext(context.Background()))

	// Blank session keys are not stored.
	blank := WithSession(context.Background(), "  ")
	assert.Empty(t, SessionFromContext(blank))
}

func TestEmitStampsSessionFromContext(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	ctx := WithSession(context.Background(), "session:xyz")
	hub.Emit(ctx, NewProgressEvent(StagePersisted, ""))

	evt := <-ch
	assert.Equal(t, "session:xyz", evt.SessionKey)
}

func TestNewErrorEventNamesFailingStage(t *testing.T) {
	evt := NewErrorEvent("generation", "provider unavailable")
	require.Equal(t, StageError, evt.Stage)
	assert.Equal(t, "generation", evt.Metadata["stage"])
	assert.Equal(t, "provider unavailable", evt.Message)
	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())
}

func contextDeadline(t *testing.T) <-chan struct{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx.Done()
}
