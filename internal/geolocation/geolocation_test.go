package geolocation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupported(t *testing.T) {
	w := NewWatcher(nil)
	require.NoError(t, w.Start(context.Background()))
	s := w.State()
	assert.False(t, s.Supported)
	assert.Equal(t, NotSupported, s.Error)
	w.Stop()
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Location permission denied. Please enable location access.", Message(PermissionDenied))
	assert.Equal(t, "Location information is unavailable.", Message(PositionUnavailable))
	assert.Equal(t, "Location request timed out.", Message(Timeout))
	assert.Equal(t, "Unable to retrieve your location", Message(42))
}

func TestStaticSource(t *testing.T) {
	w := NewWatcher(StaticSource{Lat: 33.3, Lng: -111.7, Accuracy: 5})
	assert.True(t, w.State().Loading)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.State().Position != nil }, time.Second, 5*time.Millisecond)
	s := w.State()
	assert.False(t, s.Loading)
	assert.Equal(t, 33.3, s.Position.Lat)
}

func TestErrorThenRecovery(t *testing.T) {
	src := NewChanSource()
	w := NewWatcher(src)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	src.Fail(PermissionDenied)
	require.Eventually(t, func() bool { return w.State().Error != "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Message(PermissionDenied), w.State().Error)

	src.Push(1, 2, 3)
	require.Eventually(t, func() bool { return w.State().Position != nil }, time.Second, 5*time.Millisecond)
	assert.Empty(t, w.State().Error)
}

func TestNoUpdatesAfterStop(t *testing.T) {
	src := NewChanSource()
	w := NewWatcher(src)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
	src.Push(1, 2, 3)
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, w.State().Position)
}

func TestRestartAfterStop(t *testing.T) {
	src := NewChanSource()
	w := NewWatcher(src)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.State().Loading)

	src.Push(1, 2, 3)
	require.Eventually(t, func() bool { return w.State().Position != nil }, time.Second, 5*time.Millisecond)
	s := w.State()
	assert.False(t, s.Loading)
	assert.Equal(t, 1.0, s.Position.Lat)
	assert.Equal(t, 2.0, s.Position.Lng)
}

func TestStartTwiceReplacesSubscription(t *testing.T) {
	src := NewChanSource()
	w := NewWatcher(src)
	require.NoError(t, w.Start(context.Background()))

	w.mu.RLock()
	first := w.done
	w.mu.RUnlock()

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	select {
	case <-first:
	default:
		t.Fatal("first subscription still running")
	}

	src.Push(4, 5, 6)
	require.Eventually(t, func() bool { return w.State().Position != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4.0, w.State().Position.Lat)
}

func TestFirstFixTimeout(t *testing.T) {
	w := NewWatcher(NewChanSource())
	w.Timeout = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.State().Error != "" }, time.Second, 5*time.Millisecond)
	s := w.State()
	assert.Equal(t, Message(Timeout), s.Error)
	assert.False(t, s.Loading)
}

func TestOnChange(t *testing.T) {
	src := NewChanSource()
	w := NewWatcher(src)

	var mu sync.Mutex
	var seen []State
	w.OnChange(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	src.Fail(PositionUnavailable)
	src.Push(1, 2, 3)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, Message(PositionUnavailable), seen[0].Error)
	require.NotNil(t, seen[1].Position)
	assert.Equal(t, 1.0, seen[1].Position.Lat)
}

func TestReaderSource(t *testing.T) {
	input := "# fixes\n33.3062,-111.7051,5\n\nnot a fix\n33.3065 -111.7049\n"
	w := NewWatcher(ReaderSource{R: strings.NewReader(input)})

	var mu sync.Mutex
	var seen []State
	w.OnChange(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	require.NoError(t, w.Start(context.Background()))
	w.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	require.NotNil(t, seen[0].Position)
	assert.Equal(t, 5.0, seen[0].Position.Accuracy)
	assert.Equal(t, Message(PositionUnavailable), seen[1].Error)
	require.NotNil(t, seen[2].Position)
	assert.Equal(t, -111.7049, seen[2].Position.Lng)
	assert.Empty(t, seen[2].Error)
}
