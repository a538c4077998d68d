// Package sfunode implements sfupb.SfuServiceServer: the per-process RPC
// surface a client's signaling session talks to once the Dispatcher has
// placed it here. It ties together pkg/room (participant/media bookkeeping),
// pkg/media (publisher/subscriber forwarding), pkg/webrtc_ext (the Pion
// PeerConnection factory) and pkg/sessioncache (so the Dispatcher can find
// this node's members for broadcast).
//
// Grounded on pkg/peer/peer.go and pkg/peer/webrtc_callbacks.go's
// track-received/renegotiation-needed callback shape, generalized from a
// single Matrix call's to-device signaling onto the gRPC request/response
// surface of proto/sfu.proto.
package sfunode

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v3"
	"github.com/sirupsen/logrus"

	"github.com/waterbus-go/sfu/pkg/common"
	"github.com/waterbus-go/sfu/pkg/media"
	"github.com/waterbus-go/sfu/pkg/quality"
	"github.com/waterbus-go/sfu/pkg/room"
	"github.com/waterbus-go/sfu/pkg/rpc/sfupb"
	"github.com/waterbus-go/sfu/pkg/sessioncache"
	"github.com/waterbus-go/sfu/pkg/sfuerr"
	"github.com/waterbus-go/sfu/pkg/telemetry"
	"github.com/waterbus-go/sfu/pkg/webrtc_ext"
)

// SessionRecorder is the slice of *sessioncache.Cache a Node needs: it
// records where each of its participants live so the Dispatcher can list
// room membership for broadcast, and removes the record on Leave.
type SessionRecorder interface {
	Put(ctx context.Context, s sessioncache.Session) error
	Remove(ctx context.Context, roomID, participantID string) error
}

// Node is this process's view of the cluster: every room/participant
// currently hosted here, plus the infrastructure handles needed to answer
// RPCs about them.
type Node struct {
	ID       string
	Addr     string
	rooms    *room.Manager
	factory  *webrtc_ext.PeerConnectionFactory
	sessions SessionRecorder
	dial     Dialer
	tel      *telemetry.Telemetry
	logger   *logrus.Entry

	mu     sync.RWMutex
	peers  map[string]*participantPeer // keyed by participant id
	relays map[string]*relayPeer       // keyed by relayKey(roomID, participantID)
}

type participantPeer struct {
	pc            *webrtc.PeerConnection
	roomID        string
	participantID string
	// publishers holds one Publisher per media id, created lazily in
	// onRemoteTrack when the first track for it arrives (PublishTrack is called
	// before the client's OnNegotiationNeeded offer carries the actual track).
	mu             sync.Mutex
	publishers     map[string]*media.Publisher
	remoteTracks   map[string]map[quality.TrackQuality]*webrtc.TrackRemote
	controlChannel *webrtc.DataChannel    // this participant's track_quality channel, once opened
	watchdog       *common.WatchdogChannel // non-nil only while ICE is in its disconnect grace, see ice.go
}

// New builds a Node. dial is used only for cross-node relay (see
// relay.go); it may be nil for single-node deployments or tests that never
// exercise NotifyNewUserJoined.
func New(id, addr string, factory *webrtc_ext.PeerConnectionFactory, sessions SessionRecorder, dial Dialer, tel *telemetry.Telemetry, logger *logrus.Entry) *Node {
	return &Node{
		ID:       id,
		Addr:     addr,
		rooms:    room.NewManager(),
		factory:  factory,
		sessions: sessions,
		dial:     dial,
		tel:      tel,
		logger:   logger,
		peers:    make(map[string]*participantPeer),
		relays:   make(map[string]*relayPeer),
	}
}

var _ sfupb.SfuServiceServer = (*Node)(nil)

// RoomCount reports how many rooms this node currently hosts at least one
// participant for, published to the registry as part of this node's load.
func (n *Node) RoomCount() int {
	return n.rooms.Count()
}

// JoinRoom creates this participant's PeerConnection, applies the client's
// offer, and returns an answer. The participant is registered with
// pkg/room and pkg/sessioncache before the answer is returned, so a
// Subscribe racing in from another participant can find it immediately.
func (n *Node) JoinRoom(ctx context.Context, req *sfupb.JoinRoomRequest) (*sfupb.JoinRoomResponse, error) {
	child := n.tel.CreateChild("JoinRoom")
	defer child.End()

	pc, err := n.factory.CreatePeerConnection()
	if err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToCreatePeer
	}

	pp := &participantPeer{
		pc:            pc,
		roomID:        req.RoomID,
		participantID: req.ParticipantID,
		publishers:    make(map[string]*media.Publisher),
		remoteTracks:  make(map[string]map[quality.TrackQuality]*webrtc.TrackRemote),
	}

	r := n.rooms.GetOrCreate(req.RoomID)
	participant := room.NewParticipant(req.ParticipantID, req.RoomID)
	r.AddParticipant(participant)

	n.mu.Lock()
	n.peers[req.ParticipantID] = pp
	n.mu.Unlock()

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		n.onRemoteTrack(participant, pp, track)
	})
	pc.OnICEConnectionStateChange(n.onICEStateChange(pp, participant, req.RoomID))
	n.wireControlChannel(pp, participant)

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: req.SDPOffer}); err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToSetSDP
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToCreateAnswer
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToSetSDP
	}

	if err := n.sessions.Put(ctx, sessioncache.Session{
		RoomID:        req.RoomID,
		ParticipantID: req.ParticipantID,
		NodeID:        n.ID,
		NodeAddr:      n.Addr,
	}); err != nil {
		n.logger.WithError(err).Warn("failed to record session in cache")
	}

	return &sfupb.JoinRoomResponse{SDPAnswer: answer.SDP}, nil
}

// onRemoteTrack wires an incoming RTP track into the Media/Publisher for
// the media id carried in the track's StreamID, as the layer named by its
// simulcast RID (quality.High for a non-simulcast publish).
func (n *Node) onRemoteTrack(participant *room.Participant, pp *participantPeer, track *webrtc.TrackRemote) {
	info := webrtc_ext.TrackInfoFromTrack(track)
	mediaID := track.StreamID()

	layer := info.Quality
	if track.RID() == "" {
		layer = quality.High // single-layer publish forwards at the only quality it has
	}

	pp.mu.Lock()
	pub, ok := pp.publishers[mediaID]
	if !ok {
		pub = media.NewPublisher(n.logger.WithField("media_id", mediaID), n.tel)
		pub.Simulcast = track.RID() != ""
		// A non-simulcast VP9 track may still carry multiple spatial layers
		// muxed onto its single RTP stream (SVC); demuxed per-packet in
		// layerPublisher.run instead of forwarding the whole stream under
		// one fixed quality.
		pub.VP9SVC = !pub.Simulcast && info.Codec.MimeType == webrtc.MimeTypeVP9
		pub.RequestKeyFrame = n.keyFrameRequester(pp, mediaID)
		pub.Muted = func() bool {
			m, ok := participant.Media(mediaID)
			return ok && !m.Enabled
		}
		pp.publishers[mediaID] = pub
		pp.remoteTracks[mediaID] = make(map[quality.TrackQuality]*webrtc.TrackRemote)
		participant.AddPublisher(&media.Media{ID: mediaID, Kind: mediaKindFromRTP(info), Enabled: true}, pub)
	}
	pp.remoteTracks[mediaID][layer] = track
	pp.mu.Unlock()

	pub.AddLayer(layer, &remoteTrackAdapter{track: track})
}

// keyFrameRequester builds the Publisher.RequestKeyFrame callback for one
// media id: it resolves the live webrtc.TrackRemote for the requested
// quality at call time (not at closure-creation time, since simulcast
// layers arrive and disappear independently) and writes a PLI for its SSRC.
func (n *Node) keyFrameRequester(pp *participantPeer, mediaID string) func(quality.TrackQuality) error {
	return func(q quality.TrackQuality) error {
		pp.mu.Lock()
		track, ok := pp.remoteTracks[mediaID][q]
		pp.mu.Unlock()
		if !ok {
			return sfuerr.ErrTrackNotFound
		}

		return pp.pc.WriteRTCP([]rtcp.Packet{
			&rtcp.PictureLossIndication{MediaSSRC: uint32(track.SSRC())},
		})
	}
}

func mediaKindFromRTP(info webrtc_ext.TrackInfo) media.Kind {
	if info.Kind == webrtc.RTPCodecTypeAudio {
		return media.KindAudio
	}
	return media.KindVideo
}

// PublishTrack acknowledges that mediaID will be published; the actual
// Publisher is created lazily in onRemoteTrack once RTP for it arrives,
// since a track's RID (for simulcast layers) is only known once Pion
// delivers the track, not from the RPC request alone.
func (n *Node) PublishTrack(ctx context.Context, req *sfupb.PublishTrackRequest) (*sfupb.PublishTrackResponse, error) {
	n.mu.RLock()
	_, ok := n.peers[req.ParticipantID]
	n.mu.RUnlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}
	return &sfupb.PublishTrackResponse{Accepted: true}, nil
}

// Subscribe adds a local track for publisherParticipantID's mediaID to the
// subscribing participant's PeerConnection and returns a renegotiation
// offer; the client answers it via AnswerSubscribe.
func (n *Node) Subscribe(ctx context.Context, req *sfupb.SubscribeRequest) (*sfupb.SubscribeResponse, error) {
	child := n.tel.CreateChild("Subscribe")
	defer child.End()

	n.mu.RLock()
	subPeer, ok := n.peers[req.ParticipantID]
	n.mu.RUnlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}

	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	publisherParticipant, ok := r.Participant(req.PublisherParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}
	pub, ok := publisherParticipant.Publisher(req.MediaID)
	if !ok {
		return nil, sfuerr.ErrTrackNotFound
	}

	local, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, req.MediaID, req.PublisherParticipantID)
	if err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToAddTrack
	}
	if _, err := subPeer.pc.AddTrack(local); err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToAddTransceiver
	}

	subscriberID := uuid.NewString()
	requested := quality.FromString(req.RequestedQuality)
	subscriber := media.NewSubscriber(subscriberID, req.ParticipantID, req.PublisherParticipantID, req.MediaID, pub, local, requested, n.logger)

	subscribingParticipant, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}
	subscribingParticipant.AddSubscriber(subscriber)
	n.notifyTrackQuality(req.PublisherParticipantID, req.MediaID, quality.None)

	offer, err := subPeer.pc.CreateOffer(nil)
	if err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToCreateOffer
	}
	if err := subPeer.pc.SetLocalDescription(offer); err != nil {
		child.AddError(err)
		return nil, sfuerr.ErrFailedToSetSDP
	}

	return &sfupb.SubscribeResponse{SubscriberID: subscriberID, SDPOffer: offer.SDP}, nil
}

// AnswerSubscribe applies the client's answer to the renegotiation offer
// Subscribe produced.
func (n *Node) AnswerSubscribe(ctx context.Context, req *sfupb.AnswerSubscribeRequest) (*sfupb.Ack, error) {
	// The subscriber id doesn't identify a PeerConnection on its own (one
	// PeerConnection serves many subscriptions); the caller is expected to
	// have exactly one renegotiation in flight per participant at a time,
	// same as the teacher's onNegotiationNeeded/RenegotiationRequired flow.
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, pp := range n.peers {
		if pp.pc.SignalingState() == webrtc.SignalingStateHaveLocalOffer {
			if err := pp.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: req.SDPAnswer}); err != nil {
				return nil, sfuerr.ErrFailedToSetSDP
			}
			n.clearRenegotiating(pp)
			return &sfupb.Ack{OK: true}, nil
		}
	}
	return &sfupb.Ack{OK: false, Error: "no renegotiation in flight"}, nil
}

// clearRenegotiating returns every Subscriber of pp's participant that was
// waiting on this renegotiation back to Connected, the other half of the
// Renegotiating state NotifySubscriberRenegotiate enters.
func (n *Node) clearRenegotiating(pp *participantPeer) {
	r, ok := n.rooms.Get(pp.roomID)
	if !ok {
		return
	}
	participant, ok := r.Participant(pp.participantID)
	if !ok {
		return
	}
	for _, sub := range participant.Subscribers() {
		if sub.State() == media.StateRenegotiating {
			sub.SetState(media.StateConnected)
		}
	}
}

// SetCandidate adds a trickled ICE candidate to the PeerConnection
// identified by sessionID (a participant id).
func (n *Node) SetCandidate(ctx context.Context, req *sfupb.SetCandidateRequest) (*sfupb.Ack, error) {
	n.mu.RLock()
	pp, ok := n.peers[req.SessionID]
	n.mu.RUnlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}

	mLineIndex := uint16(req.SDPMLineIndex)
	if err := pp.pc.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:     req.Candidate,
		SDPMid:        &req.SDPMid,
		SDPMLineIndex: &mLineIndex,
	}); err != nil {
		return nil, sfuerr.ErrFailedToAddCandidate
	}

	return &sfupb.Ack{OK: true}, nil
}

// SetTrackQuality applies a subscriber's requested quality change. Finding
// the Subscriber by id alone (without room/participant) requires a reverse
// index; kept as a linear scan over this node's rooms since quality changes
// are rare compared to RTP volume and this never runs on the media hot path.
func (n *Node) SetTrackQuality(ctx context.Context, req *sfupb.SetTrackQualityRequest) (*sfupb.Ack, error) {
	requested := quality.FromString(req.RequestedQuality)

	var found *media.Subscriber
	n.mu.RLock()
	for _, pp := range n.peers {
		r, ok := n.rooms.Get(pp.roomID)
		if !ok {
			continue
		}
		for _, p := range r.Participants() {
			if sub, ok := p.Subscriber(req.SubscriberID); ok {
				found = sub
			}
		}
	}
	n.mu.RUnlock()

	if found == nil {
		return nil, sfuerr.ErrTrackNotFound
	}

	found.SetQuality(requested)
	return &sfupb.Ack{OK: true}, nil
}

// SetEnabled applies a mute/unmute of a participant's published media.
func (n *Node) SetEnabled(ctx context.Context, req *sfupb.SetEnabledRequest) (*sfupb.Ack, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	p, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}
	p.SetEnabled(req.MediaID, req.Enabled)
	return &sfupb.Ack{OK: true}, nil
}

// SetScreenSharing toggles a participant's screen-share flag. Disabling it
// also tears down the Publisher for the track SetScreenSharing identifies as
// the one being removed, enforcing the screen-share track-count invariant
// from spec §3.
func (n *Node) SetScreenSharing(ctx context.Context, req *sfupb.SetScreenSharingRequest) (*sfupb.Ack, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	p, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}

	removedTrackID, changed := p.AV.SetScreenSharing(req.Enabled, req.MediaID)
	if changed && removedTrackID != "" {
		if pub, ok := p.RemovePublisher(removedTrackID); ok {
			pub.Stop()
		}
	}

	return &sfupb.Ack{OK: true}, nil
}

// SetHandRaising toggles a participant's hand-raise flag.
func (n *Node) SetHandRaising(ctx context.Context, req *sfupb.SetHandRaisingRequest) (*sfupb.Ack, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	p, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}
	p.AV.SetHandRaising(req.Raised)
	return &sfupb.Ack{OK: true}, nil
}

// SetCameraType records which camera (front/back/external) a participant is
// publishing from, purely informational metadata carried alongside its
// video track.
func (n *Node) SetCameraType(ctx context.Context, req *sfupb.SetCameraTypeRequest) (*sfupb.Ack, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	p, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}
	p.AV.SetCameraType(req.CameraType)
	return &sfupb.Ack{OK: true}, nil
}

// ListMedia reports what a participant hosted on this node is currently
// publishing, along with its AV flags. Used both by normal clients building
// a subscription plan and by another node's relay (see relay.go) deciding
// what to pull across.
func (n *Node) ListMedia(ctx context.Context, req *sfupb.ListMediaRequest) (*sfupb.ListMediaResponse, error) {
	r, ok := n.rooms.Get(req.RoomID)
	if !ok {
		return nil, sfuerr.ErrRoomNotFound
	}
	p, ok := r.Participant(req.ParticipantID)
	if !ok {
		return nil, sfuerr.ErrParticipantNotFound
	}

	n.mu.RLock()
	pp, hasPeer := n.peers[req.ParticipantID]
	n.mu.RUnlock()

	resp := &sfupb.ListMediaResponse{}
	if hasPeer {
		pp.mu.Lock()
		for mediaID := range pp.publishers {
			m, ok := p.Media(mediaID)
			if !ok {
				continue
			}
			resp.Medias = append(resp.Medias, sfupb.MediaInfo{
				MediaID:   mediaID,
				Kind:      m.Kind.String(),
				Simulcast: len(pp.remoteTracks[mediaID]) > 1,
			})
		}
		pp.mu.Unlock()
	}

	snap := p.AV.Snapshot()
	resp.VideoEnabled = snap.VideoEnabled
	resp.AudioEnabled = snap.AudioEnabled
	resp.ScreenSharing = snap.ScreenSharing
	resp.ScreenTrackID = snap.ScreenTrackID

	return resp, nil
}

// NotifySubscriberRenegotiate is the Dispatcher telling this node that a
// subscriber it hosts needs to redo its offer/answer, e.g. because a new
// track became available upstream. Matching the teacher's
// onNegotiationNeeded idiom, we simply re-run CreateOffer against the
// existing PeerConnection; the client drives AnswerSubscribe same as any
// other Subscribe call.
//
// n.peers is keyed by participant id, not by the per-Subscribe UUID the
// Dispatcher's request calls SubscriberID, so the lookup below uses
// req.ParticipantID (the participant hosting the subscription) instead.
func (n *Node) NotifySubscriberRenegotiate(ctx context.Context, req *sfupb.NotifySubscriberRenegotiateRequest) (*sfupb.Ack, error) {
	n.mu.RLock()
	pp, ok := n.peers[req.ParticipantID]
	n.mu.RUnlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}

	if r, ok := n.rooms.Get(req.RoomID); ok {
		if participant, ok := r.Participant(req.ParticipantID); ok {
			for _, sub := range participant.Subscribers() {
				sub.SetState(media.StateRenegotiating)
			}
		}
	}

	offer, err := pp.pc.CreateOffer(nil)
	if err != nil {
		return nil, sfuerr.ErrFailedToCreateOffer
	}
	if err := pp.pc.SetLocalDescription(offer); err != nil {
		return nil, sfuerr.ErrFailedToSetSDP
	}

	return &sfupb.Ack{OK: true}, nil
}

// NotifyPublisherCandidate applies a trickled ICE candidate relayed by the
// Dispatcher for a publisher peer connection hosted on this node.
func (n *Node) NotifyPublisherCandidate(ctx context.Context, req *sfupb.NotifyCandidateRequest) (*sfupb.Ack, error) {
	return n.applyRelayedCandidate(req)
}

// NotifySubscriberCandidate applies a trickled ICE candidate relayed by the
// Dispatcher for a subscriber peer connection hosted on this node.
func (n *Node) NotifySubscriberCandidate(ctx context.Context, req *sfupb.NotifyCandidateRequest) (*sfupb.Ack, error) {
	return n.applyRelayedCandidate(req)
}

func (n *Node) applyRelayedCandidate(req *sfupb.NotifyCandidateRequest) (*sfupb.Ack, error) {
	n.mu.RLock()
	pp, ok := n.peers[req.ParticipantID]
	n.mu.RUnlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}

	mLineIndex := uint16(req.SDPMLineIndex)
	if err := pp.pc.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:     req.Candidate,
		SDPMid:        &req.SDPMid,
		SDPMLineIndex: &mLineIndex,
	}); err != nil {
		return nil, sfuerr.ErrFailedToAddCandidate
	}

	return &sfupb.Ack{OK: true}, nil
}

// NotifyNodeTerminated tears down every relay Subscriber this node sourced
// from nodeID, since the remote media it was forwarding is gone (spec §8
// scenario 4).
func (n *Node) NotifyNodeTerminated(ctx context.Context, req *sfupb.NotifyNodeTerminatedRequest) (*sfupb.Ack, error) {
	n.teardownRelaysFromNode(req.NodeID)
	return &sfupb.Ack{OK: true}, nil
}

// MigrateConnection tears down the participant's existing PeerConnection
// and negotiates a fresh one against the same room/participant state, used
// when a client needs to restart ICE after a network change the existing
// connection can't recover from (e.g. switching wifi to cellular).
func (n *Node) MigrateConnection(ctx context.Context, req *sfupb.MigrateConnectionRequest) (*sfupb.MigrateConnectionResponse, error) {
	n.mu.Lock()
	old, ok := n.peers[req.ParticipantID]
	n.mu.Unlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}
	_ = old.pc.Close()

	resp, err := n.JoinRoom(ctx, &sfupb.JoinRoomRequest{
		RoomID:        req.RoomID,
		ParticipantID: req.ParticipantID,
		SDPOffer:      req.SDPOffer,
	})
	if err != nil {
		return nil, sfuerr.ErrFailedToMigrateConnection
	}

	return &sfupb.MigrateConnectionResponse{SDPAnswer: resp.SDPAnswer}, nil
}

// Leave tears down a participant's PeerConnection and every Publisher and
// Subscriber it owned.
func (n *Node) Leave(ctx context.Context, req *sfupb.LeaveRequest) (*sfupb.Ack, error) {
	n.mu.Lock()
	pp, ok := n.peers[req.ParticipantID]
	if ok {
		delete(n.peers, req.ParticipantID)
	}
	n.mu.Unlock()
	if !ok {
		return nil, sfuerr.ErrPeerNotFound
	}

	_ = pp.pc.Close()

	if r, ok := n.rooms.Get(req.RoomID); ok {
		if participant, ok := r.RemoveParticipant(req.ParticipantID); ok {
			leavingSubs := participant.Subscribers()
			participant.Close()
			for _, sub := range leavingSubs {
				n.notifyTrackQuality(sub.PublisherParticipantID, sub.TrackID, quality.None)
			}
		}
		n.rooms.RemoveIfEmpty(req.RoomID)
	}

	if err := n.sessions.Remove(ctx, req.RoomID, req.ParticipantID); err != nil {
		n.logger.WithError(err).Warn("failed to remove session from cache")
	}

	return &sfupb.Ack{OK: true}, nil
}
