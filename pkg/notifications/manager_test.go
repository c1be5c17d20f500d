package notifications

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingProvider struct {
	sends int
}

func (p *failingProvider) send(msg Message) error {
	p.sends++
	return errors.New("invalid_auth")
}

type recordingProvider struct {
	sends int
}

func (p *recordingProvider) send(msg Message) error {
	p.sends++
	return nil
}

func TestBroadcastContinuesPastFailingProvider(t *testing.T) {
	failing := &failingProvider{}
	recording := &recordingProvider{}

	manager := NewManager()
	manager.AddProvider(failing)
	manager.AddProvider(recording)

	manager.Broadcast(testMessage("a@x.com"))

	// a provider error is logged, not propagated, the remaining
	// providers still get the message
	assert.Equal(t, 1, failing.sends)
	assert.Equal(t, 1, recording.sends)
}
