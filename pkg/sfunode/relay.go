package sfunode

import (
	"context"
	"fmt"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/waterbus-go/sfu/pkg/media"
	"github.com/waterbus-go/sfu/pkg/quality"
	"github.com/waterbus-go/sfu/pkg/room"
	"github.com/waterbus-go/sfu/pkg/rpc/codec"
	"github.com/waterbus-go/sfu/pkg/rpc/sfupb"
	"github.com/waterbus-go/sfu/pkg/webrtc_ext"
)

// Dialer opens a client connection to another node's gRPC address, the same
// shape as pkg/dispatcher.Dialer, kept as its own type here so this package
// doesn't need to import pkg/dispatcher just for a function signature.
type Dialer func(addr string) (grpc.ClientConnInterface, func() error, error)

// relayPeer is this node's client-side PeerConnection to a remote node,
// standing in for a real participant purely to pull one participant's media
// across (spec §5's "one-hop mesh": at most one extra WebRTC hop, no N-way
// mesh between nodes). Reuses JoinRoom/Subscribe/AnswerSubscribe instead of
// a dedicated streaming RPC (see DESIGN.md's Open Question decision).
type relayPeer struct {
	pc           *webrtc.PeerConnection
	remoteNodeID string
	remoteAddr   string
	closeConn    func() error
}

func relayParticipantID(nodeID, roomID string) string {
	return fmt.Sprintf("relay:%s:%s", nodeID, roomID)
}

func relayKey(roomID, participantID string) string {
	return roomID + "|" + participantID
}

// NotifyNewUserJoined relays req.ParticipantID's media from req.NodeAddr
// into this node's copy of req.RoomID, if it hosts one, so local
// subscribers can Subscribe to it exactly as if it were published locally.
// A no-op if this node doesn't host the room, or already has an entry
// (local or relayed) for that participant id.
func (n *Node) NotifyNewUserJoined(ctx context.Context, req *sfupb.NotifyNewUserJoinedRequest) (*sfupb.Ack, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return &sfupb.Ack{OK: true}, nil
	}
	if _, ok := r.Participant(req.ParticipantID); ok {
		return &sfupb.Ack{OK: true}, nil
	}
	if n.dial == nil {
		n.logger.Warn("relay requested but this node has no dialer configured, skipping")
		return &sfupb.Ack{OK: true}, nil
	}

	if err := n.startRelay(ctx, r, req); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"room_id":        req.RoomID,
			"participant_id": req.ParticipantID,
			"remote_addr":    req.NodeAddr,
		}).Warn("failed to relay remote participant's media")
	}

	return &sfupb.Ack{OK: true}, nil
}

func (n *Node) startRelay(ctx context.Context, r *room.Room, req *sfupb.NotifyNewUserJoinedRequest) error {
	conn, closeConn, err := n.dial(req.NodeAddr)
	if err != nil {
		return fmt.Errorf("dial remote node: %w", err)
	}
	client := sfupb.NewSfuServiceClient(conn)

	pc, err := n.factory.CreatePeerConnection()
	if err != nil {
		closeConn()
		return fmt.Errorf("create relay peer connection: %w", err)
	}

	participant := room.NewParticipant(req.ParticipantID, req.RoomID)
	r.AddParticipant(participant)

	rp := &relayPeer{pc: pc, remoteNodeID: req.NodeID, remoteAddr: req.NodeAddr, closeConn: closeConn}
	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		n.onRelayedTrack(participant, rp, track)
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		closeConn()
		return fmt.Errorf("create relay offer: %w", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		closeConn()
		return fmt.Errorf("set relay local description: %w", err)
	}

	relayID := relayParticipantID(n.ID, req.RoomID)
	joinResp, err := client.JoinRoom(ctx, &sfupb.JoinRoomRequest{
		RoomID:        req.RoomID,
		ParticipantID: relayID,
		SDPOffer:      offer.SDP,
	}, grpc.CallContentSubtype(codec.Name))
	if err != nil {
		closeConn()
		return fmt.Errorf("join remote room as relay: %w", err)
	}
	if err := pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: joinResp.SDPAnswer}); err != nil {
		closeConn()
		return fmt.Errorf("set relay remote description: %w", err)
	}

	n.mu.Lock()
	n.relays[relayKey(req.RoomID, req.ParticipantID)] = rp
	n.mu.Unlock()

	medias, err := client.ListMedia(ctx, &sfupb.ListMediaRequest{
		RoomID:        req.RoomID,
		ParticipantID: req.ParticipantID,
	}, grpc.CallContentSubtype(codec.Name))
	if err != nil {
		return fmt.Errorf("list remote media: %w", err)
	}

	for _, m := range medias.Medias {
		if err := n.relaySubscribeOne(ctx, client, pc, req.RoomID, relayID, req.ParticipantID, m.MediaID); err != nil {
			n.logger.WithError(err).WithField("media_id", m.MediaID).Warn("failed to relay-subscribe to remote media")
		}
	}

	return nil
}

// relaySubscribeOne drives one Subscribe/AnswerSubscribe round trip against
// the remote node for a single media id, reusing this relay's already
// negotiated PeerConnection (Subscribe always renegotiates the existing
// connection rather than opening a new one).
func (n *Node) relaySubscribeOne(ctx context.Context, client sfupb.SfuServiceClient, pc *webrtc.PeerConnection, roomID, relayID, publisherID, mediaID string) error {
	subResp, err := client.Subscribe(ctx, &sfupb.SubscribeRequest{
		RoomID:                 roomID,
		ParticipantID:          relayID,
		PublisherParticipantID: publisherID,
		MediaID:                mediaID,
		RequestedQuality:       quality.High.String(),
	}, grpc.CallContentSubtype(codec.Name))
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: subResp.SDPOffer}); err != nil {
		return fmt.Errorf("set renegotiation offer: %w", err)
	}
	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create renegotiation answer: %w", err)
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set renegotiation local description: %w", err)
	}
	if _, err := client.AnswerSubscribe(ctx, &sfupb.AnswerSubscribeRequest{
		SubscriberID: subResp.SubscriberID,
		SDPAnswer:    answer.SDP,
	}, grpc.CallContentSubtype(codec.Name)); err != nil {
		return fmt.Errorf("answer subscribe: %w", err)
	}

	return nil
}

// onRelayedTrack mirrors onRemoteTrack: the relayed RTP becomes a Publisher
// on the synthetic relay Participant, so this node's normal Subscribe path
// can hand it to local clients without knowing it crossed the cluster.
func (n *Node) onRelayedTrack(participant *room.Participant, rp *relayPeer, track *webrtc.TrackRemote) {
	mediaID := track.ID()
	info := webrtc_ext.TrackInfoFromTrack(track)

	pub := media.NewPublisher(n.logger.WithField("media_id", mediaID), n.tel)
	pub.Simulcast = false
	pub.VP9SVC = info.Codec.MimeType == webrtc.MimeTypeVP9
	pub.RequestKeyFrame = func(quality.TrackQuality) error {
		return rp.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: uint32(track.SSRC())}})
	}
	pub.Muted = func() bool {
		m, ok := participant.Media(mediaID)
		return ok && !m.Enabled
	}

	participant.AddPublisher(&media.Media{
		ID:      mediaID,
		Kind:    mediaKindFromRTP(info),
		Enabled: true,
	}, pub)
	pub.AddLayer(quality.High, &remoteTrackAdapter{track: track})
}

// teardownRelaysFromNode closes and forgets every relay sourced from
// nodeID, e.g. once the Dispatcher reports it terminated (spec §8
// scenario 4). The corresponding relay Participant is left in place with a
// now-stalled Publisher rather than removed outright, so an in-flight local
// Subscribe doesn't race against a disappearing room.Participant; its
// Publisher simply reports stalled/no layers available going forward.
func (n *Node) teardownRelaysFromNode(nodeID string) {
	n.mu.Lock()
	var closed []*relayPeer
	for key, rp := range n.relays {
		if rp.remoteNodeID == nodeID {
			closed = append(closed, rp)
			delete(n.relays, key)
		}
	}
	n.mu.Unlock()

	for _, rp := range closed {
		_ = rp.pc.Close()
		if rp.closeConn != nil {
			_ = rp.closeConn()
		}
	}
}
