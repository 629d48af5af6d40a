package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	filter string
	err    error

	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) OnEvent(event Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return o.err
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) ShouldHandle(eventType string) bool {
	return o.filter == "" || o.filter == eventType
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func TestDispatcher_RegisterAndDispatch(t *testing.T) {
	d := NewDispatcher(nil)
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b", filter: TypeCatalogReloaded}
	d.Register(a)
	d.Register(b)
	require.Equal(t, 2, d.ObserverCount())

	d.Dispatch(NewTypedEvent(context.Background(), TypeGenerationCompleted, "u1", GenerationCompletedEvent{GameID: "pick3", Count: 1}))

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 0, b.count())
	assert.Equal(t, "u1", a.events[0].UserID)
}

func TestDispatcher_ErrorDoesNotStopDelivery(t *testing.T) {
	d := NewDispatcher(nil)
	failing := &recordingObserver{name: "failing", err: errors.New("boom")}
	ok := &recordingObserver{name: "ok"}
	d.Register(failing)
	d.Register(ok)

	d.Dispatch(Event{Type: "x"})

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, ok.count())
}

func TestDispatcher_Unregister(t *testing.T) {
	d := NewDispatcher(nil)
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	d.Register(a)
	d.Register(b)

	d.Unregister(a)
	require.Equal(t, 1, d.ObserverCount())

	d.Dispatch(Event{Type: "x"})
	assert.Equal(t, 0, a.count())
	assert.Equal(t, 1, b.count())

	d.Clear()
	assert.Equal(t, 0, d.ObserverCount())
}

func TestDispatcher_DispatchAsync(t *testing.T) {
	d := NewDispatcher(nil)
	a := &recordingObserver{name: "a"}
	d.Register(a)

	d.DispatchAsync(Event{Type: "x"})

	assert.Eventually(t, func() bool { return a.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGetTypedData(t *testing.T) {
	event := NewTypedEvent(context.Background(), TypeCatalogReloaded, "", CatalogReloadedEvent{Source: "file"})

	data, ok := GetTypedData[CatalogReloadedEvent](event)
	require.True(t, ok)
	assert.Equal(t, "file", data.Source)

	_, ok = GetTypedData[UserEvent](event)
	assert.False(t, ok)

	_, ok = GetTypedData[UserEvent](Event{})
	assert.False(t, ok)
}
