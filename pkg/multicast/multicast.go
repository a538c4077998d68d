// Package multicast fans a single stream of RTP forwarding info out to many
// per-subscriber receivers, split by quality layer so a subscriber only
// drains the layer it actually wants.
//
// Grounded on the sealed-channel idiom in pkg/common/channel.go: every
// per-subscriber receiver here is a common.Sender/Receiver pair rather than
// a raw chan T, generalized from one pair to a quality-keyed set of
// bounded(1) channels, one per subscriber.
package multicast

import (
	"sync"

	"github.com/waterbus-go/sfu/pkg/common"
	"github.com/waterbus-go/sfu/pkg/quality"
)

// capacity of each per-subscriber channel. A subscriber that can't keep up
// with a full frame's worth of packets is better served dropping the stale
// one than blocking the publisher's forwarding goroutine.
const capacity = 1

// Sender fans RTP forwarding payloads of type T out to receivers registered
// per quality layer. Safe for concurrent use by one producer and many
// consumers adding/removing themselves.
type Sender[T any] struct {
	mu    sync.RWMutex
	tiers map[quality.TrackQuality]map[string]common.Sender[T]
}

func NewSender[T any]() *Sender[T] {
	tiers := make(map[quality.TrackQuality]map[string]common.Sender[T], 3)
	for _, q := range []quality.TrackQuality{quality.Low, quality.Medium, quality.High} {
		tiers[q] = make(map[string]common.Sender[T])
	}
	return &Sender[T]{tiers: tiers}
}

// AddReceiver registers a new receiver for a quality layer, keyed by an id
// unique to the caller (typically the subscriber id). Replaces any existing
// receiver registered under the same id and quality.
func (s *Sender[T]) AddReceiver(q quality.TrackQuality, id string) <-chan T {
	sender, receiver := common.NewChannelWithSize[T](capacity)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.tiers[q]
	if !ok {
		m = make(map[string]common.Sender[T])
		s.tiers[q] = m
	}
	m[id] = sender
	return receiver.Channel
}

// RemoveReceiver unregisters a receiver. Idempotent.
func (s *Sender[T]) RemoveReceiver(q quality.TrackQuality, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.tiers[q]; ok {
		delete(m, id)
	}
}

// Send delivers info to every receiver registered for q. Sends never block:
// a receiver whose channel is already full (still processing the previous
// packet) simply misses this one, same as the reference multicast sender.
func (s *Sender[T]) Send(q quality.TrackQuality, info T) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sender := range s.tiers[q] {
		sender.TrySend(info)
	}
}

// Clear drops every registered receiver, used when the publisher stops.
func (s *Sender[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for q := range s.tiers {
		s.tiers[q] = make(map[string]common.Sender[T])
	}
}
