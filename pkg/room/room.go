// Package room models the Room/Participant data carried by a single SFU
// node: the set of participants currently connected to it and, for each
// participant, the Media they publish and the Subscribers receiving other
// participants' tracks.
//
// Grounded on pkg/conference/participant/{participant.go,tracker.go}, with
// the Matrix-specific ID{UserID, DeviceID, CallID} replaced by the plain
// participant id the RPC surface uses.
package room

import (
	"sync"

	"github.com/waterbus-go/sfu/pkg/media"
)

// Participant is one client connected to this SFU node for one room.
type Participant struct {
	ID     string
	RoomID string
	AV     *AVState

	mu         sync.RWMutex
	publishers map[string]*media.Publisher // keyed by media id
	medias     map[string]*media.Media     // keyed by media id
	subscribers map[string]*media.Subscriber // keyed by subscriber id
}

func NewParticipant(id, roomID string) *Participant {
	return &Participant{
		ID:          id,
		RoomID:      roomID,
		AV:          NewAVState(false),
		publishers:  make(map[string]*media.Publisher),
		medias:      make(map[string]*media.Media),
		subscribers: make(map[string]*media.Subscriber),
	}
}

func (p *Participant) AddPublisher(m *media.Media, pub *media.Publisher) {
	p.mu.Lock()
	p.medias[m.ID] = m
	p.publishers[m.ID] = pub
	p.mu.Unlock()
	p.AV.TrackPublished(m.ID)
}

func (p *Participant) Publisher(mediaID string) (*media.Publisher, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pub, ok := p.publishers[mediaID]
	return pub, ok
}

func (p *Participant) Media(mediaID string) (*media.Media, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.medias[mediaID]
	return m, ok
}

// SetEnabled updates the mute state of a published Media, e.g. from a
// SetEnabled/SetScreenSharing RPC.
func (p *Participant) SetEnabled(mediaID string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.medias[mediaID]; ok {
		m.Enabled = enabled
	}
}

func (p *Participant) RemovePublisher(mediaID string) (*media.Publisher, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pub, ok := p.publishers[mediaID]
	delete(p.publishers, mediaID)
	delete(p.medias, mediaID)
	return pub, ok
}

func (p *Participant) AddSubscriber(sub *media.Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers[sub.ID] = sub
}

func (p *Participant) Subscriber(id string) (*media.Subscriber, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sub, ok := p.subscribers[id]
	return sub, ok
}

// Subscribers returns every Subscriber this participant currently owns, a
// snapshot safe to range over after the Participant itself has been torn
// down (e.g. to notify each one's publisher of the detach).
func (p *Participant) Subscribers() []*media.Subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*media.Subscriber, 0, len(p.subscribers))
	for _, sub := range p.subscribers {
		out = append(out, sub)
	}
	return out
}

// SubscriberByTrack finds this participant's Subscriber for trackID (the
// published media id being forwarded to it), used to resolve a
// TrackQualityRequest arriving over the track_quality control channel,
// which names a track rather than a subscriber id.
func (p *Participant) SubscriberByTrack(trackID string) (*media.Subscriber, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subscribers {
		if sub.TrackID == trackID {
			return sub, true
		}
	}
	return nil, false
}

func (p *Participant) RemoveSubscriber(id string) (*media.Subscriber, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub, ok := p.subscribers[id]
	delete(p.subscribers, id)
	return sub, ok
}

// Close tears down every publisher and subscriber owned by this participant,
// e.g. on Leave or on the underlying peer connection failing permanently.
func (p *Participant) Close() {
	p.mu.Lock()
	publishers := p.publishers
	subscribers := p.subscribers
	p.publishers = make(map[string]*media.Publisher)
	p.medias = make(map[string]*media.Media)
	p.subscribers = make(map[string]*media.Subscriber)
	p.mu.Unlock()

	for _, pub := range publishers {
		pub.Stop()
	}
	for _, sub := range subscribers {
		sub.Stop()
	}
}

// Room is the set of participants this SFU node currently hosts for one
// conference. A room is only ever partially represented on any one node:
// the Dispatcher is what reconciles state across the whole cluster.
type Room struct {
	ID string

	mu           sync.RWMutex
	participants map[string]*Participant
}

func NewRoom(id string) *Room {
	return &Room{ID: id, participants: make(map[string]*Participant)}
}

func (r *Room) AddParticipant(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[p.ID] = p
}

func (r *Room) Participant(id string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	return p, ok
}

func (r *Room) RemoveParticipant(id string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	delete(r.participants, id)
	return p, ok
}

func (r *Room) Participants() []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, p)
	}
	return out
}

func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants) == 0
}

// Manager owns every Room hosted by this SFU node.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the Room for id, creating it if this is the first
// participant joining it on this node.
func (m *Manager) GetOrCreate(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id)
		m.rooms[id] = r
	}
	return r
}

func (m *Manager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RemoveIfEmpty drops the room bookkeeping once its last participant leaves.
func (m *Manager) RemoveIfEmpty(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok && r.IsEmpty() {
		delete(m.rooms, id)
	}
}

// Count returns the number of rooms currently hosted, published to the
// registry as part of this node's load metadata.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
