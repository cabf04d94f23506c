package testhelpers

import (
	"context"
	"sync"

	"domly/pkg/access"
	"domly/pkg/notify"
)

// OwnerChecker is an access.Checker backed by a map of row id to owning user id.
type OwnerChecker map[string]string

func (o OwnerChecker) Owner(ctx context.Context, entity access.Entity, id string) (string, error) {
	return o[id], nil
}

func (o OwnerChecker) Owns(ctx context.Context, userID string, entity access.Entity, id string) (bool, error) {
	owner := o[id]
	return owner != "" && owner == userID, nil
}

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events map[string][]notify.Event
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{events: make(map[string][]notify.Event)}
}

func (p *RecordingPublisher) Publish(userID string, ev notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[userID] = append(p.events[userID], ev)
}

// Events returns what userID received, in publish order.
func (p *RecordingPublisher) Events(userID string) []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Event(nil), p.events[userID]...)
}
