// Package media implements the Publisher/Track/Subscriber/ForwardTrack model:
// an SFU node receives one Publisher per up-stream track (holding one layer
// per simulcast stream it receives), fans each received packet out to every subscriber
// interested in that quality layer, and rewrites the forwarded stream so a
// subscriber sees one continuous RTP stream across layer switches.
//
// Grounded on pkg/conference/track/{track.go,track_handler.go,publisher.go}
// and pkg/conference/publisher/{publisher.go,status.go} (stall/recovery,
// subscription bookkeeping), generalized from a flat subscription set to the
// quality-keyed multicast fan-out described by
// crates/webrtc-manager/src/utils/multicast_sender.rs.
package media

// Kind identifies what a Media groups together.
type Kind int

const (
	KindAudio Kind = iota
	KindVideo
	KindScreenShare
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindScreenShare:
		return "screen_share"
	default:
		return "unknown"
	}
}

// Media is a named group of one or more Tracks published by a participant
// (e.g. a camera's video track plus its simulcast layers, or a microphone's
// single audio track). Enabled tracks the client-reported mute state:
// a disabled Media's publishers going stalled is expected, not an error.
type Media struct {
	ID      string
	Kind    Kind
	Enabled bool
}
