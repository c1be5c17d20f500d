package notifications

import (
	"github.com/sirupsen/logrus"
)

type Manager interface {
	Broadcast(msg Message)
	AddProvider(provider Provider)
}

type ManagerImpl struct {
	provider []Provider
}

func NewManager() *ManagerImpl {
	return &ManagerImpl{
		provider: []Provider{},
	}
}

func (m *ManagerImpl) AddProvider(provider Provider) {
	m.provider = append(m.provider, provider)
}

// Broadcast delivers the message on every provider. Delivery problems are
// logged and swallowed, a notification must never fail the pipeline it
// reports on.
func (m *ManagerImpl) Broadcast(msg Message) {
	for _, p := range m.provider {
		err := p.send(msg)
		if err != nil {
			logrus.Warnf("cannot send notification: %s", err)
		}
	}
}
