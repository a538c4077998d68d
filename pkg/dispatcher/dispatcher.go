// Package dispatcher implements the cluster-facing placement and signaling
// fan-out service: where a new room/participant should live, and how a
// control message meant for every node hosting a room's members gets
// delivered once each.
//
// Grounded on pkg/routing/router.go's single-process event-loop-per-resource
// idiom, generalized to a stateless gRPC service backed by pkg/registry (node
// load) and pkg/sessioncache (room membership), with the broadcast retry
// modeled on original_source's DispatcherGrpcService fire-and-forget relay.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/waterbus-go/sfu/pkg/registry"
	"github.com/waterbus-go/sfu/pkg/rpc/codec"
	"github.com/waterbus-go/sfu/pkg/rpc/dispatcherpb"
	"github.com/waterbus-go/sfu/pkg/rpc/sfupb"
	"github.com/waterbus-go/sfu/pkg/sessioncache"
)

// Dialer opens a gRPC client connection to a node's address. Exposed so
// tests can substitute an in-memory bufconn dialer instead of real sockets.
type Dialer func(addr string) (grpc.ClientConnInterface, func() error, error)

// SessionCache is the slice of *sessioncache.Cache the dispatcher needs,
// narrowed to an interface so tests can substitute an in-memory fake instead
// of a real Redis connection.
type SessionCache interface {
	Get(ctx context.Context, roomID, participantID string) (sessioncache.Session, error)
	Put(ctx context.Context, s sessioncache.Session) error
	ListByRoom(ctx context.Context, roomID string) ([]sessioncache.Session, error)
}

// NodeRegistry is the slice of *registry.Registry the dispatcher needs.
type NodeRegistry interface {
	LeastLoaded() (id string, meta registry.NodeMetadata, ok bool)
	Lookup(id string) (registry.NodeMetadata, bool)
	Snapshot() map[string]registry.NodeMetadata
}

// Dispatcher implements dispatcherpb.DispatcherServiceServer.
type Dispatcher struct {
	registry NodeRegistry
	cache    SessionCache
	dial     Dialer
	logger   *logrus.Entry

	broadcast *Broadcaster
}

func New(reg NodeRegistry, cache SessionCache, dial Dialer, logger *logrus.Entry) *Dispatcher {
	return &Dispatcher{
		registry:  reg,
		cache:     cache,
		dial:      dial,
		logger:    logger,
		broadcast: NewBroadcaster(cache, dial, logger),
	}
}

var _ dispatcherpb.DispatcherServiceServer = (*Dispatcher)(nil)

// AllocateNode picks a node for (roomID, participantID): the participant's
// existing session if the cache still has one (so a reconnect lands back on
// the node holding its publisher/subscriber state), otherwise the
// least-loaded node currently in the registry.
func (d *Dispatcher) AllocateNode(ctx context.Context, req *dispatcherpb.AllocateNodeRequest) (*dispatcherpb.AllocateNodeResponse, error) {
	if existing, err := d.cache.Get(ctx, req.RoomID, req.ParticipantID); err == nil {
		if meta, ok := d.registry.Lookup(existing.NodeID); ok {
			return &dispatcherpb.AllocateNodeResponse{
				NodeID:                existing.NodeID,
				NodeAddr:              meta.Addr,
				ReusedExistingSession: true,
			}, nil
		}
		// The node that held this session is gone; fall through to a fresh
		// placement instead of returning a dead address.
		d.logger.WithFields(logrus.Fields{
			"room_id":        req.RoomID,
			"participant_id": req.ParticipantID,
			"stale_node_id":  existing.NodeID,
		}).Warn("cached session points at a node no longer in the registry")
	}

	nodeID, meta, ok := d.registry.LeastLoaded()
	if !ok {
		return nil, fmt.Errorf("dispatcher: no nodes available")
	}

	if err := d.cache.Put(ctx, sessioncache.Session{
		RoomID:        req.RoomID,
		ParticipantID: req.ParticipantID,
		NodeID:        nodeID,
		NodeAddr:      meta.Addr,
	}); err != nil {
		return nil, fmt.Errorf("dispatcher: failed to record session: %w", err)
	}

	return &dispatcherpb.AllocateNodeResponse{NodeID: nodeID, NodeAddr: meta.Addr}, nil
}

// NodeTerminated tells every other node still in the registry that nodeID is
// gone, so any relay Subscriber each of them sourced from it can be torn down
// (spec §8 scenario 4). It does not itself evict sessioncache entries: those
// expire along with the dead node's session TTL, and a reconnecting client's
// AllocateNode call already falls back to a fresh placement when the cached
// node is no longer in the registry (see AllocateNode above).
func (d *Dispatcher) NodeTerminated(ctx context.Context, req *dispatcherpb.NodeTerminatedRequest) (*dispatcherpb.Ack, error) {
	d.logger.WithField("node_id", req.NodeID).Info("notifying cluster of terminated node")

	for id, meta := range d.registry.Snapshot() {
		if id == req.NodeID {
			continue
		}
		addr := meta.Addr
		go d.broadcast.DeliverTo(ctx, addr, func(ctx context.Context, conn grpc.ClientConnInterface) error {
			client := sfupb.NewSfuServiceClient(conn)
			_, err := client.NotifyNodeTerminated(ctx, &sfupb.NotifyNodeTerminatedRequest{
				NodeID: req.NodeID,
			}, grpc.CallContentSubtype(codec.Name))
			return err
		})
	}

	return &dispatcherpb.Ack{OK: true}, nil
}

// NewUserJoined fans NotifyNewUserJoined out to every other node already
// hosting a member of req.RoomID, so each can relay the new participant's
// media in (spec §2 step 4).
func (d *Dispatcher) NewUserJoined(ctx context.Context, req *dispatcherpb.NewUserJoinedRequest) (*dispatcherpb.Ack, error) {
	d.broadcast.Broadcast(ctx, req.RoomID, req.NodeID, func(ctx context.Context, conn grpc.ClientConnInterface) error {
		client := sfupb.NewSfuServiceClient(conn)
		_, err := client.NotifyNewUserJoined(ctx, &sfupb.NotifyNewUserJoinedRequest{
			RoomID:        req.RoomID,
			ParticipantID: req.ParticipantID,
			NodeID:        req.NodeID,
			NodeAddr:      req.NodeAddr,
		}, grpc.CallContentSubtype(codec.Name))
		return err
	})
	return &dispatcherpb.Ack{OK: true}, nil
}

// SubscriberRenegotiate relays a renegotiation nudge to the single node
// hosting req.SubscriberID, looked up via the session cache rather than
// broadcast to the whole room.
func (d *Dispatcher) SubscriberRenegotiate(ctx context.Context, req *dispatcherpb.SubscriberRenegotiateRequest) (*dispatcherpb.Ack, error) {
	session, err := d.cache.Get(ctx, req.RoomID, req.SubscriberID)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: subscriber %s not found in room %s: %w", req.SubscriberID, req.RoomID, err)
	}

	d.broadcast.DeliverTo(ctx, session.NodeAddr, func(ctx context.Context, conn grpc.ClientConnInterface) error {
		client := sfupb.NewSfuServiceClient(conn)
		_, err := client.NotifySubscriberRenegotiate(ctx, &sfupb.NotifySubscriberRenegotiateRequest{
			RoomID: req.RoomID,
			// req.SubscriberID names the participant acting as a subscriber
			// (it's what the session cache above is keyed by), not a
			// per-Subscribe UUID; carry it as ParticipantID so the node can
			// find the right PeerConnection, which isn't indexed by any
			// per-subscription id.
			ParticipantID: req.SubscriberID,
			SubscriberID:  req.SubscriberID,
		}, grpc.CallContentSubtype(codec.Name))
		return err
	})
	return &dispatcherpb.Ack{OK: true}, nil
}

// OnPublisherCandidate relays one ICE candidate to the node hosting the
// publisher peer connection for req.ParticipantID.
func (d *Dispatcher) OnPublisherCandidate(ctx context.Context, req *dispatcherpb.CandidateRequest) (*dispatcherpb.Ack, error) {
	return d.relayCandidate(ctx, req, true)
}

// OnSubscriberCandidate relays one ICE candidate to the node hosting the
// subscriber peer connection for req.ParticipantID.
func (d *Dispatcher) OnSubscriberCandidate(ctx context.Context, req *dispatcherpb.CandidateRequest) (*dispatcherpb.Ack, error) {
	return d.relayCandidate(ctx, req, false)
}

func (d *Dispatcher) relayCandidate(ctx context.Context, req *dispatcherpb.CandidateRequest, publisher bool) (*dispatcherpb.Ack, error) {
	session, err := d.cache.Get(ctx, req.RoomID, req.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: participant %s not found in room %s: %w", req.ParticipantID, req.RoomID, err)
	}

	d.broadcast.DeliverTo(ctx, session.NodeAddr, func(ctx context.Context, conn grpc.ClientConnInterface) error {
		client := sfupb.NewSfuServiceClient(conn)
		notify := &sfupb.NotifyCandidateRequest{
			RoomID:        req.RoomID,
			ParticipantID: req.ParticipantID,
			SessionID:     req.SessionID,
			Candidate:     req.Candidate,
			SDPMid:        req.SDPMid,
			SDPMLineIndex: req.SDPMLineIndex,
		}
		var err error
		if publisher {
			_, err = client.NotifyPublisherCandidate(ctx, notify, grpc.CallContentSubtype(codec.Name))
		} else {
			_, err = client.NotifySubscriberCandidate(ctx, notify, grpc.CallContentSubtype(codec.Name))
		}
		return err
	})
	return &dispatcherpb.Ack{OK: true}, nil
}

// Broadcaster relays a control-channel message to every other node hosting
// members of a room, retrying each node's delivery independently.
type Broadcaster struct {
	cache  SessionCache
	dial   Dialer
	logger *logrus.Entry
}

func NewBroadcaster(cache SessionCache, dial Dialer, logger *logrus.Entry) *Broadcaster {
	return &Broadcaster{cache: cache, dial: dial, logger: logger}
}

// Deliver is invoked once per target node address with the payload to
// relay; signature kept generic so Broadcast works for NewUserJoined,
// SubscriberRenegotiate, OnPublisherCandidate and OnSubscriberCandidate
// alike, each of which has its own RPC method on SfuService.
type Deliver func(ctx context.Context, conn grpc.ClientConnInterface) error

// Broadcast delivers to every node currently hosting a member of roomID
// other than excludeNodeID (the node the message originated from), making
// up to 3 attempts per node with exponential backoff starting at 100ms. A
// node's delivery failing after retries is logged and does not block
// delivery to the others.
func (b *Broadcaster) Broadcast(ctx context.Context, roomID, excludeNodeID string, deliver Deliver) {
	sessions, err := b.cache.ListByRoom(ctx, roomID)
	if err != nil {
		b.logger.WithError(err).WithField("room_id", roomID).Warn("failed to list room members for broadcast")
		return
	}

	targets := make(map[string]struct{})
	for _, s := range sessions {
		if s.NodeID == excludeNodeID {
			continue
		}
		targets[s.NodeAddr] = struct{}{}
	}

	for addr := range targets {
		go b.deliverWithRetry(ctx, addr, deliver)
	}
}

// DeliverTo relays to a single node address, with the same retry policy as
// Broadcast. Used where the message has exactly one destination (e.g. a
// renegotiate nudge or ICE candidate addressed to the node hosting one
// specific participant) rather than every node in a room.
func (b *Broadcaster) DeliverTo(ctx context.Context, addr string, deliver Deliver) {
	b.deliverWithRetry(ctx, addr, deliver)
}

func (b *Broadcaster) deliverWithRetry(ctx context.Context, addr string, deliver Deliver) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 100 * time.Millisecond
	// WithMaxRetries counts retries after the first attempt: 2 retries make
	// 3 attempts in total.
	policy := backoff.WithMaxRetries(expBackoff, 2)

	operation := func() error {
		conn, closeConn, err := b.dial(addr)
		if err != nil {
			return err
		}
		defer closeConn()

		return deliver(ctx, conn)
	}

	if err := backoff.Retry(operation, policy); err != nil {
		b.logger.WithError(err).WithField("addr", addr).Warn("giving up broadcasting to node after retries")
	}
}
