package sfunode

import (
	"context"
	"time"

	"github.com/pion/webrtc/v3"

	"github.com/waterbus-go/sfu/pkg/common"
	"github.com/waterbus-go/sfu/pkg/media"
	"github.com/waterbus-go/sfu/pkg/room"
	"github.com/waterbus-go/sfu/pkg/rpc/sfupb"
)

// iceDisconnectGrace is spec §4.1/§4.2's ICE disconnect grace: a peer whose
// ICE connection drops to Disconnected gets this long to reconnect before
// it is torn down (scenario 5: an 8s drop recovers in place with nothing
// torn down, a 12s drop closes the Publisher and every Subscriber shadowing
// it, and removes the session-cache entry).
const iceDisconnectGrace = 10 * time.Second

// onICEStateChange drives every Publisher and Subscriber state machine
// owned by pp off its single shared PeerConnection's ICE state (one
// PeerConnection carries both a participant's publish and subscribe
// traffic in this implementation, so there is one grace timer per peer,
// not one per Publisher/Subscriber). Connected/Completed cancels any
// pending grace timer; Disconnected starts one; Failed is DTLS-failure
// territory and is fatal with no grace, matching spec §4.1's failure
// semantics.
func (n *Node) onICEStateChange(pp *participantPeer, participant *room.Participant, roomID string) func(webrtc.ICEConnectionState) {
	return func(s webrtc.ICEConnectionState) {
		switch s {
		case webrtc.ICEConnectionStateConnected, webrtc.ICEConnectionStateCompleted:
			n.markPeerConnected(pp, participant)
		case webrtc.ICEConnectionStateDisconnected:
			n.markPeerDisconnected(pp, participant, roomID)
		case webrtc.ICEConnectionStateFailed:
			n.logger.WithField("participant_id", participant.ID).Warn("ICE connection failed, tearing down peer")
			n.teardownPeer(pp, participant, roomID)
		case webrtc.ICEConnectionStateClosed:
			n.applyPeerState(pp, participant, media.StateClosed)
		}
	}
}

// applyPeerState pushes s onto every Publisher and Subscriber pp/participant
// currently own. Publishers live on pp (the peer doing the publishing);
// Subscribers live on the room.Participant (the peer doing the
// subscribing) — the same participant, since Subscribe always renegotiates
// the subscribing participant's own PeerConnection rather than opening a
// second one.
func (n *Node) applyPeerState(pp *participantPeer, participant *room.Participant, s media.State) {
	pp.mu.Lock()
	publishers := make([]*media.Publisher, 0, len(pp.publishers))
	for _, pub := range pp.publishers {
		publishers = append(publishers, pub)
	}
	pp.mu.Unlock()

	for _, pub := range publishers {
		pub.SetState(s)
	}
	for _, sub := range participant.Subscribers() {
		sub.SetState(s)
	}
}

// markPeerDisconnected starts the grace timer the first time ICE reports
// Disconnected; a repeat callback before the timer fires or is cancelled
// (Pion can report Disconnected more than once) is a no-op.
func (n *Node) markPeerDisconnected(pp *participantPeer, participant *room.Participant, roomID string) {
	n.applyPeerState(pp, participant, media.StateDisconnected)

	pp.mu.Lock()
	if pp.watchdog != nil {
		pp.mu.Unlock()
		return
	}
	pp.watchdog = (&common.WatchdogConfig{
		Timeout: iceDisconnectGrace,
		OnTimeout: func() {
			n.logger.WithField("participant_id", participant.ID).Warn("ICE disconnect grace expired, tearing down peer")
			n.teardownPeer(pp, participant, roomID)
		},
	}).Start()
	pp.mu.Unlock()
}

// markPeerConnected cancels any pending grace timer: the "drop recovers in
// place" half of scenario 5.
func (n *Node) markPeerConnected(pp *participantPeer, participant *room.Participant) {
	pp.mu.Lock()
	wd := pp.watchdog
	pp.watchdog = nil
	pp.mu.Unlock()

	if wd != nil {
		wd.Close()
	}
	n.applyPeerState(pp, participant, media.StateConnected)
}

// teardownPeer closes the peer the same way an explicit Leave does. Guarded
// against pp having already been replaced (e.g. by MigrateConnection
// racing the grace timer) or already torn down, in which case it is a
// no-op: n.Leave always operates on whichever participantPeer is currently
// registered for the participant, not necessarily pp.
func (n *Node) teardownPeer(pp *participantPeer, participant *room.Participant, roomID string) {
	n.mu.RLock()
	current, ok := n.peers[participant.ID]
	n.mu.RUnlock()
	if !ok || current != pp {
		return
	}

	n.applyPeerState(pp, participant, media.StateClosing)
	if _, err := n.Leave(context.Background(), &sfupb.LeaveRequest{RoomID: roomID, ParticipantID: participant.ID}); err != nil {
		n.logger.WithError(err).WithField("participant_id", participant.ID).Debug("peer already torn down")
	}
}
