// Package sfupb is the hand-written counterpart of proto/sfu.proto: the
// request/response types an SfuServiceServer exchanges, and the
// grpc.ServiceDesc that wires them to google.golang.org/grpc the same way
// protoc-gen-go-grpc output would, but carried over pkg/rpc/codec's JSON
// codec instead of the protobuf wire format (see SPEC_FULL.md §6 and
// DESIGN.md for why).
package sfupb

import (
	"context"

	"google.golang.org/grpc"
)

type JoinRoomRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	SDPOffer      string `json:"sdp_offer"`
}

type JoinRoomResponse struct {
	SDPAnswer string `json:"sdp_answer"`
}

type PublishTrackRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	MediaID       string `json:"media_id"`
	Kind          string `json:"kind"`
	Simulcast     bool   `json:"simulcast"`
}

type PublishTrackResponse struct {
	Accepted bool `json:"accepted"`
}

type SubscribeRequest struct {
	RoomID                 string `json:"room_id"`
	ParticipantID          string `json:"participant_id"`
	PublisherParticipantID string `json:"publisher_participant_id"`
	MediaID                string `json:"media_id"`
	RequestedQuality       string `json:"requested_quality"`
}

type SubscribeResponse struct {
	SubscriberID string `json:"subscriber_id"`
	SDPOffer     string `json:"sdp_offer"`
}

type AnswerSubscribeRequest struct {
	SubscriberID string `json:"subscriber_id"`
	SDPAnswer    string `json:"sdp_answer"`
}

type SetCandidateRequest struct {
	SessionID     string `json:"session_id"`
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdp_mid"`
	SDPMLineIndex uint32 `json:"sdp_m_line_index"`
}

type SetTrackQualityRequest struct {
	SubscriberID     string `json:"subscriber_id"`
	RequestedQuality string `json:"requested_quality"`
}

type SetEnabledRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	MediaID       string `json:"media_id"`
	Enabled       bool   `json:"enabled"`
}

// SetScreenSharingRequest toggles screen-share. When Enabled is true,
// MediaID names the track the client is about to publish for the share;
// when false it is ignored (the Participant already remembers which track
// id to tear down, per the track-count invariant in spec §3).
type SetScreenSharingRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	MediaID       string `json:"media_id"`
	Enabled       bool   `json:"enabled"`
}

type SetHandRaisingRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	Raised        bool   `json:"raised"`
}

type SetCameraTypeRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	CameraType    string `json:"camera_type"`
}

// ListMediaRequest asks a node what a participant it hosts is currently
// publishing, the way Subscribe's original spec fetches "target's current
// media state" — split out as its own RPC since this implementation's
// Subscribe takes an explicit media id instead of subscribing to "whatever
// the target publishes" (see DESIGN.md).
type ListMediaRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
}

type MediaInfo struct {
	MediaID   string `json:"media_id"`
	Kind      string `json:"kind"`
	Simulcast bool   `json:"simulcast"`
}

type ListMediaResponse struct {
	Medias        []MediaInfo `json:"medias"`
	VideoEnabled  bool        `json:"video_enabled"`
	AudioEnabled  bool        `json:"audio_enabled"`
	ScreenSharing bool        `json:"screen_sharing"`
	ScreenTrackID string      `json:"screen_track_id"`
}

// NotifyNewUserJoinedRequest is what the Dispatcher forwards to every node
// already hosting members of RoomID once ParticipantID joins on a different
// node, so this node can relay the new participant's media in (spec §2
// step 4).
type NotifyNewUserJoinedRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	NodeID        string `json:"node_id"`
	NodeAddr      string `json:"node_addr"`
}

type NotifySubscriberRenegotiateRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	SubscriberID  string `json:"subscriber_id"`
}

type NotifyCandidateRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	SessionID     string `json:"session_id"`
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdp_mid"`
	SDPMLineIndex uint32 `json:"sdp_m_line_index"`
}

// NotifyNodeTerminatedRequest tells this node that NodeID has left the
// cluster, so every relay Subscriber sourced from it must be torn down
// (spec §8 scenario 4).
type NotifyNodeTerminatedRequest struct {
	NodeID string `json:"node_id"`
}

type MigrateConnectionRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	SDPOffer      string `json:"sdp_offer"`
}

type MigrateConnectionResponse struct {
	SDPAnswer string `json:"sdp_answer"`
}

type LeaveRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
}

type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SfuServiceServer is implemented by pkg/sfunode.Node.
type SfuServiceServer interface {
	JoinRoom(context.Context, *JoinRoomRequest) (*JoinRoomResponse, error)
	PublishTrack(context.Context, *PublishTrackRequest) (*PublishTrackResponse, error)
	Subscribe(context.Context, *SubscribeRequest) (*SubscribeResponse, error)
	AnswerSubscribe(context.Context, *AnswerSubscribeRequest) (*Ack, error)
	SetCandidate(context.Context, *SetCandidateRequest) (*Ack, error)
	SetTrackQuality(context.Context, *SetTrackQualityRequest) (*Ack, error)
	SetEnabled(context.Context, *SetEnabledRequest) (*Ack, error)
	SetScreenSharing(context.Context, *SetScreenSharingRequest) (*Ack, error)
	SetHandRaising(context.Context, *SetHandRaisingRequest) (*Ack, error)
	SetCameraType(context.Context, *SetCameraTypeRequest) (*Ack, error)
	MigrateConnection(context.Context, *MigrateConnectionRequest) (*MigrateConnectionResponse, error)
	Leave(context.Context, *LeaveRequest) (*Ack, error)
	ListMedia(context.Context, *ListMediaRequest) (*ListMediaResponse, error)
	NotifyNewUserJoined(context.Context, *NotifyNewUserJoinedRequest) (*Ack, error)
	NotifySubscriberRenegotiate(context.Context, *NotifySubscriberRenegotiateRequest) (*Ack, error)
	NotifyPublisherCandidate(context.Context, *NotifyCandidateRequest) (*Ack, error)
	NotifySubscriberCandidate(context.Context, *NotifyCandidateRequest) (*Ack, error)
	NotifyNodeTerminated(context.Context, *NotifyNodeTerminatedRequest) (*Ack, error)
}

// RegisterSfuServiceServer wires srv into a *grpc.Server under the service
// descriptor below, mirroring what protoc-gen-go-grpc's generated
// Register<Service>Server would do.
func RegisterSfuServiceServer(s *grpc.Server, srv SfuServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "waterbus.sfu.v1.SfuService",
	HandlerType: (*SfuServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "JoinRoom", Handler: joinRoomHandler},
		{MethodName: "PublishTrack", Handler: publishTrackHandler},
		{MethodName: "Subscribe", Handler: subscribeHandler},
		{MethodName: "AnswerSubscribe", Handler: answerSubscribeHandler},
		{MethodName: "SetCandidate", Handler: setCandidateHandler},
		{MethodName: "SetTrackQuality", Handler: setTrackQualityHandler},
		{MethodName: "SetEnabled", Handler: setEnabledHandler},
		{MethodName: "SetScreenSharing", Handler: setScreenSharingHandler},
		{MethodName: "SetHandRaising", Handler: setHandRaisingHandler},
		{MethodName: "SetCameraType", Handler: setCameraTypeHandler},
		{MethodName: "MigrateConnection", Handler: migrateConnectionHandler},
		{MethodName: "Leave", Handler: leaveHandler},
		{MethodName: "ListMedia", Handler: listMediaHandler},
		{MethodName: "NotifyNewUserJoined", Handler: notifyNewUserJoinedHandler},
		{MethodName: "NotifySubscriberRenegotiate", Handler: notifySubscriberRenegotiateHandler},
		{MethodName: "NotifyPublisherCandidate", Handler: notifyPublisherCandidateHandler},
		{MethodName: "NotifySubscriberCandidate", Handler: notifySubscriberCandidateHandler},
		{MethodName: "NotifyNodeTerminated", Handler: notifyNodeTerminatedHandler},
	},
	Metadata: "sfu.proto",
}

func joinRoomHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(JoinRoomRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).JoinRoom(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/JoinRoom"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).JoinRoom(ctx, req.(*JoinRoomRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func publishTrackHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(PublishTrackRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).PublishTrack(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/PublishTrack"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).PublishTrack(ctx, req.(*PublishTrackRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func subscribeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SubscribeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).Subscribe(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/Subscribe"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).Subscribe(ctx, req.(*SubscribeRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func answerSubscribeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AnswerSubscribeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).AnswerSubscribe(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/AnswerSubscribe"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).AnswerSubscribe(ctx, req.(*AnswerSubscribeRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setCandidateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetCandidateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetCandidate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetCandidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetCandidate(ctx, req.(*SetCandidateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setTrackQualityHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetTrackQualityRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetTrackQuality(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetTrackQuality"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetTrackQuality(ctx, req.(*SetTrackQualityRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setEnabledHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetEnabledRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetEnabled(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetEnabled"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetEnabled(ctx, req.(*SetEnabledRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setScreenSharingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetScreenSharingRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetScreenSharing(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetScreenSharing"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetScreenSharing(ctx, req.(*SetScreenSharingRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setHandRaisingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetHandRaisingRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetHandRaising(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetHandRaising"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetHandRaising(ctx, req.(*SetHandRaisingRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func setCameraTypeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SetCameraTypeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).SetCameraType(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/SetCameraType"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).SetCameraType(ctx, req.(*SetCameraTypeRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func listMediaHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListMediaRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).ListMedia(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/ListMedia"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).ListMedia(ctx, req.(*ListMediaRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func notifyNewUserJoinedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifyNewUserJoinedRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).NotifyNewUserJoined(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/NotifyNewUserJoined"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).NotifyNewUserJoined(ctx, req.(*NotifyNewUserJoinedRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func notifySubscriberRenegotiateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifySubscriberRenegotiateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).NotifySubscriberRenegotiate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/NotifySubscriberRenegotiate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).NotifySubscriberRenegotiate(ctx, req.(*NotifySubscriberRenegotiateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func notifyPublisherCandidateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifyCandidateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).NotifyPublisherCandidate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/NotifyPublisherCandidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).NotifyPublisherCandidate(ctx, req.(*NotifyCandidateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func notifySubscriberCandidateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifyCandidateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).NotifySubscriberCandidate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/NotifySubscriberCandidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).NotifySubscriberCandidate(ctx, req.(*NotifyCandidateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func notifyNodeTerminatedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifyNodeTerminatedRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).NotifyNodeTerminated(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/NotifyNodeTerminated"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).NotifyNodeTerminated(ctx, req.(*NotifyNodeTerminatedRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func migrateConnectionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(MigrateConnectionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).MigrateConnection(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/MigrateConnection"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).MigrateConnection(ctx, req.(*MigrateConnectionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func leaveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(LeaveRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SfuServiceServer).Leave(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.sfu.v1.SfuService/Leave"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SfuServiceServer).Leave(ctx, req.(*LeaveRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// NewSfuServiceClient builds a thin client stub over conn, using
// pkg/rpc/codec's JSON codec (grpc.CallContentSubtype(codec.Name)).
func NewSfuServiceClient(conn grpc.ClientConnInterface) SfuServiceClient {
	return &sfuServiceClient{conn}
}

type SfuServiceClient interface {
	JoinRoom(ctx context.Context, in *JoinRoomRequest, opts ...grpc.CallOption) (*JoinRoomResponse, error)
	PublishTrack(ctx context.Context, in *PublishTrackRequest, opts ...grpc.CallOption) (*PublishTrackResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (*SubscribeResponse, error)
	AnswerSubscribe(ctx context.Context, in *AnswerSubscribeRequest, opts ...grpc.CallOption) (*Ack, error)
	SetCandidate(ctx context.Context, in *SetCandidateRequest, opts ...grpc.CallOption) (*Ack, error)
	SetTrackQuality(ctx context.Context, in *SetTrackQualityRequest, opts ...grpc.CallOption) (*Ack, error)
	SetEnabled(ctx context.Context, in *SetEnabledRequest, opts ...grpc.CallOption) (*Ack, error)
	SetScreenSharing(ctx context.Context, in *SetScreenSharingRequest, opts ...grpc.CallOption) (*Ack, error)
	SetHandRaising(ctx context.Context, in *SetHandRaisingRequest, opts ...grpc.CallOption) (*Ack, error)
	SetCameraType(ctx context.Context, in *SetCameraTypeRequest, opts ...grpc.CallOption) (*Ack, error)
	MigrateConnection(ctx context.Context, in *MigrateConnectionRequest, opts ...grpc.CallOption) (*MigrateConnectionResponse, error)
	Leave(ctx context.Context, in *LeaveRequest, opts ...grpc.CallOption) (*Ack, error)
	ListMedia(ctx context.Context, in *ListMediaRequest, opts ...grpc.CallOption) (*ListMediaResponse, error)
	NotifyNewUserJoined(ctx context.Context, in *NotifyNewUserJoinedRequest, opts ...grpc.CallOption) (*Ack, error)
	NotifySubscriberRenegotiate(ctx context.Context, in *NotifySubscriberRenegotiateRequest, opts ...grpc.CallOption) (*Ack, error)
	NotifyPublisherCandidate(ctx context.Context, in *NotifyCandidateRequest, opts ...grpc.CallOption) (*Ack, error)
	NotifySubscriberCandidate(ctx context.Context, in *NotifyCandidateRequest, opts ...grpc.CallOption) (*Ack, error)
	NotifyNodeTerminated(ctx context.Context, in *NotifyNodeTerminatedRequest, opts ...grpc.CallOption) (*Ack, error)
}

type sfuServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *sfuServiceClient) JoinRoom(ctx context.Context, in *JoinRoomRequest, opts ...grpc.CallOption) (*JoinRoomResponse, error) {
	out := new(JoinRoomResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/JoinRoom", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) PublishTrack(ctx context.Context, in *PublishTrackRequest, opts ...grpc.CallOption) (*PublishTrackResponse, error) {
	out := new(PublishTrackResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/PublishTrack", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (*SubscribeResponse, error) {
	out := new(SubscribeResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/Subscribe", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) AnswerSubscribe(ctx context.Context, in *AnswerSubscribeRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/AnswerSubscribe", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetCandidate(ctx context.Context, in *SetCandidateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetCandidate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetTrackQuality(ctx context.Context, in *SetTrackQualityRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetTrackQuality", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetEnabled(ctx context.Context, in *SetEnabledRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetEnabled", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetScreenSharing(ctx context.Context, in *SetScreenSharingRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetScreenSharing", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetHandRaising(ctx context.Context, in *SetHandRaisingRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetHandRaising", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) SetCameraType(ctx context.Context, in *SetCameraTypeRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/SetCameraType", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) ListMedia(ctx context.Context, in *ListMediaRequest, opts ...grpc.CallOption) (*ListMediaResponse, error) {
	out := new(ListMediaResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/ListMedia", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) NotifyNewUserJoined(ctx context.Context, in *NotifyNewUserJoinedRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/NotifyNewUserJoined", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) NotifySubscriberRenegotiate(ctx context.Context, in *NotifySubscriberRenegotiateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/NotifySubscriberRenegotiate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) NotifyPublisherCandidate(ctx context.Context, in *NotifyCandidateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/NotifyPublisherCandidate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) NotifySubscriberCandidate(ctx context.Context, in *NotifyCandidateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/NotifySubscriberCandidate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) NotifyNodeTerminated(ctx context.Context, in *NotifyNodeTerminatedRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/NotifyNodeTerminated", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) MigrateConnection(ctx context.Context, in *MigrateConnectionRequest, opts ...grpc.CallOption) (*MigrateConnectionResponse, error) {
	out := new(MigrateConnectionResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/MigrateConnection", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sfuServiceClient) Leave(ctx context.Context, in *LeaveRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.sfu.v1.SfuService/Leave", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
