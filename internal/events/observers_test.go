package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

func TestNATSObserver_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	obs := NewNATSObserver(pub, "obyyo.events.")

	err := obs.OnEvent(NewTypedEvent(context.Background(), TypeGenerationCompleted, "u1", GenerationCompletedEvent{
		ResultID: "r1",
		GameID:   "pick3",
		Count:    2,
	}))
	require.NoError(t, err)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "obyyo.events.generator.completed", pub.subjects[0])

	var got struct {
		Type   string                   `json:"type"`
		UserID string                   `json:"userId"`
		Data   GenerationCompletedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, TypeGenerationCompleted, got.Type)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "pick3", got.Data.GameID)
	assert.Equal(t, 2, got.Data.Count)
}

func TestNATSObserver_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("closed")}
	obs := NewNATSObserver(pub, "p")

	err := obs.OnEvent(Event{Type: "x"})
	assert.Error(t, err)
}

func TestLoggingObserver(t *testing.T) {
	obs := NewLoggingObserver(nil)
	assert.True(t, obs.ShouldHandle("anything"))
	assert.NoError(t, obs.OnEvent(Event{Type: "x"}))
}
