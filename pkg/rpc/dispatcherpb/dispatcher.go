// Package dispatcherpb is the hand-written counterpart of
// proto/dispatcher.proto, following the same grpc.ServiceDesc + JSON codec
// approach as pkg/rpc/sfupb (see SPEC_FULL.md §6).
package dispatcherpb

import (
	"context"

	"google.golang.org/grpc"
)

type AllocateNodeRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
}

type AllocateNodeResponse struct {
	NodeID                string `json:"node_id"`
	NodeAddr              string `json:"node_addr"`
	ReusedExistingSession bool   `json:"reused_existing_session"`
}

type NodeTerminatedRequest struct {
	NodeID string `json:"node_id"`
}

// NewUserJoinedRequest names a participant that just joined on NodeID, so
// the Dispatcher can fan it out (via Broadcaster) as NotifyNewUserJoined to
// every other node already hosting RoomID (spec §2 step 4). pkg/sfunode's
// JoinRoom does not send it; the node holds no Dispatcher client.
type NewUserJoinedRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	NodeID        string `json:"node_id"`
	NodeAddr      string `json:"node_addr"`
}

// SubscriberRenegotiateRequest asks the Dispatcher to relay a renegotiation
// nudge to whichever node hosts SubscriberID, e.g. after the set of tracks it
// should receive changes on a different node.
type SubscriberRenegotiateRequest struct {
	RoomID       string `json:"room_id"`
	SubscriberID string `json:"subscriber_id"`
}

// CandidateRequest carries one ICE candidate to relay to the node hosting
// ParticipantID, for either its publisher or subscriber peer connection
// depending on which RPC it is sent to.
type CandidateRequest struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	SessionID     string `json:"session_id"`
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdp_mid"`
	SDPMLineIndex uint32 `json:"sdp_m_line_index"`
}

type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DispatcherServiceServer is implemented by pkg/dispatcher.Dispatcher.
type DispatcherServiceServer interface {
	AllocateNode(context.Context, *AllocateNodeRequest) (*AllocateNodeResponse, error)
	NodeTerminated(context.Context, *NodeTerminatedRequest) (*Ack, error)
	NewUserJoined(context.Context, *NewUserJoinedRequest) (*Ack, error)
	SubscriberRenegotiate(context.Context, *SubscriberRenegotiateRequest) (*Ack, error)
	OnPublisherCandidate(context.Context, *CandidateRequest) (*Ack, error)
	OnSubscriberCandidate(context.Context, *CandidateRequest) (*Ack, error)
}

func RegisterDispatcherServiceServer(s *grpc.Server, srv DispatcherServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "waterbus.dispatcher.v1.DispatcherService",
	HandlerType: (*DispatcherServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AllocateNode", Handler: allocateNodeHandler},
		{MethodName: "NodeTerminated", Handler: nodeTerminatedHandler},
		{MethodName: "NewUserJoined", Handler: newUserJoinedHandler},
		{MethodName: "SubscriberRenegotiate", Handler: subscriberRenegotiateHandler},
		{MethodName: "OnPublisherCandidate", Handler: onPublisherCandidateHandler},
		{MethodName: "OnSubscriberCandidate", Handler: onSubscriberCandidateHandler},
	},
	Metadata: "dispatcher.proto",
}

func allocateNodeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AllocateNodeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).AllocateNode(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/AllocateNode"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).AllocateNode(ctx, req.(*AllocateNodeRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func nodeTerminatedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NodeTerminatedRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).NodeTerminated(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/NodeTerminated"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).NodeTerminated(ctx, req.(*NodeTerminatedRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func newUserJoinedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NewUserJoinedRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).NewUserJoined(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/NewUserJoined"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).NewUserJoined(ctx, req.(*NewUserJoinedRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func subscriberRenegotiateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SubscriberRenegotiateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).SubscriberRenegotiate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/SubscriberRenegotiate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).SubscriberRenegotiate(ctx, req.(*SubscriberRenegotiateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func onPublisherCandidateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(CandidateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).OnPublisherCandidate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/OnPublisherCandidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).OnPublisherCandidate(ctx, req.(*CandidateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func onSubscriberCandidateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(CandidateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServiceServer).OnSubscriberCandidate(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/waterbus.dispatcher.v1.DispatcherService/OnSubscriberCandidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DispatcherServiceServer).OnSubscriberCandidate(ctx, req.(*CandidateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// DispatcherServiceClient is the client stub for DispatcherService. Nothing
// in this repository dials it: cmd/sfu and pkg/sfunode hold no Dispatcher
// client, and NodeTerminated is driven by the Dispatcher's own registry watch.
type DispatcherServiceClient interface {
	AllocateNode(ctx context.Context, in *AllocateNodeRequest, opts ...grpc.CallOption) (*AllocateNodeResponse, error)
	NodeTerminated(ctx context.Context, in *NodeTerminatedRequest, opts ...grpc.CallOption) (*Ack, error)
	NewUserJoined(ctx context.Context, in *NewUserJoinedRequest, opts ...grpc.CallOption) (*Ack, error)
	SubscriberRenegotiate(ctx context.Context, in *SubscriberRenegotiateRequest, opts ...grpc.CallOption) (*Ack, error)
	OnPublisherCandidate(ctx context.Context, in *CandidateRequest, opts ...grpc.CallOption) (*Ack, error)
	OnSubscriberCandidate(ctx context.Context, in *CandidateRequest, opts ...grpc.CallOption) (*Ack, error)
}

func NewDispatcherServiceClient(conn grpc.ClientConnInterface) DispatcherServiceClient {
	return &dispatcherServiceClient{conn}
}

type dispatcherServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *dispatcherServiceClient) AllocateNode(ctx context.Context, in *AllocateNodeRequest, opts ...grpc.CallOption) (*AllocateNodeResponse, error) {
	out := new(AllocateNodeResponse)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/AllocateNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherServiceClient) NodeTerminated(ctx context.Context, in *NodeTerminatedRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/NodeTerminated", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherServiceClient) NewUserJoined(ctx context.Context, in *NewUserJoinedRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/NewUserJoined", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherServiceClient) SubscriberRenegotiate(ctx context.Context, in *SubscriberRenegotiateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/SubscriberRenegotiate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherServiceClient) OnPublisherCandidate(ctx context.Context, in *CandidateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/OnPublisherCandidate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatcherServiceClient) OnSubscriberCandidate(ctx context.Context, in *CandidateRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, "/waterbus.dispatcher.v1.DispatcherService/OnSubscriberCandidate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
