package media

import "sync/atomic"

// State is a Publisher or Subscriber's position in the spec's lifecycle:
// Connecting -> Connected -> (Disconnected <-> Connected) -> Closing -> Closed.
// Subscriber additionally passes through Renegotiating whenever the
// upstream Publisher adds or removes a Track and the Subscriber's client
// needs a fresh offer/answer.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
	StateRenegotiating
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateRenegotiating:
		return "renegotiating"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// lifecycle is the atomic state shared by Publisher and Subscriber,
// embedded rather than duplicated on both. Matches the teacher's
// VideoSubscription.currentLayer atomic.Int32 idiom: a plain store, no CAS
// loop, since the owning PeerConnection's callbacks are the only writer and
// a just-arrived state always supersedes a stale one.
type lifecycle struct {
	state int32
}

func (l *lifecycle) State() State {
	return State(atomic.LoadInt32(&l.state))
}

func (l *lifecycle) SetState(s State) {
	atomic.StoreInt32(&l.state, int32(s))
}
