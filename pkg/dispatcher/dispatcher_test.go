package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/waterbus-go/sfu/pkg/registry"
	"github.com/waterbus-go/sfu/pkg/rpc/dispatcherpb"
	"github.com/waterbus-go/sfu/pkg/sessioncache"
)

type fakeCache struct {
	mu       sync.Mutex
	sessions map[string]sessioncache.Session
}

func newFakeCache() *fakeCache {
	return &fakeCache{sessions: make(map[string]sessioncache.Session)}
}

func (f *fakeCache) key(roomID, participantID string) string { return roomID + ":" + participantID }

func (f *fakeCache) Get(_ context.Context, roomID, participantID string) (sessioncache.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[f.key(roomID, participantID)]
	if !ok {
		return sessioncache.Session{}, sessioncache.ErrNotFound
	}
	return s, nil
}

func (f *fakeCache) Put(_ context.Context, s sessioncache.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[f.key(s.RoomID, s.ParticipantID)] = s
	return nil
}

func (f *fakeCache) ListByRoom(_ context.Context, roomID string) ([]sessioncache.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sessioncache.Session
	for _, s := range f.sessions {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

func testLogger() *logrus.Entry {
	return logrus.NewEntry(logrus.New())
}

func TestAllocateNodePicksLeastLoaded(t *testing.T) {
	reg := registry.NewFromSnapshot(map[string]registry.NodeMetadata{
		"node-a": {Addr: "10.0.0.1:50051", CPUPercent: 70},
		"node-b": {Addr: "10.0.0.2:50051", CPUPercent: 10},
	})
	cache := newFakeCache()
	d := New(reg, cache, nil, testLogger())

	resp, err := d.AllocateNode(context.Background(), &dispatcherpb.AllocateNodeRequest{RoomID: "room-1", ParticipantID: "alice"})
	if err != nil {
		t.Fatalf("AllocateNode() error = %v", err)
	}
	if resp.NodeID != "node-b" || resp.ReusedExistingSession {
		t.Fatalf("expected fresh placement on node-b, got %+v", resp)
	}
}

func TestAllocateNodeReusesExistingSession(t *testing.T) {
	reg := registry.NewFromSnapshot(map[string]registry.NodeMetadata{
		"node-a": {Addr: "10.0.0.1:50051", CPUPercent: 5},
		"node-b": {Addr: "10.0.0.2:50051", CPUPercent: 90},
	})
	cache := newFakeCache()
	_ = cache.Put(context.Background(), sessioncache.Session{RoomID: "room-1", ParticipantID: "alice", NodeID: "node-b", NodeAddr: "10.0.0.2:50051"})

	d := New(reg, cache, nil, testLogger())
	resp, err := d.AllocateNode(context.Background(), &dispatcherpb.AllocateNodeRequest{RoomID: "room-1", ParticipantID: "alice"})
	if err != nil {
		t.Fatalf("AllocateNode() error = %v", err)
	}
	if resp.NodeID != "node-b" || !resp.ReusedExistingSession {
		t.Fatalf("expected reused session on node-b, got %+v", resp)
	}
}

func TestAllocateNodeFallsBackWhenCachedNodeGone(t *testing.T) {
	reg := registry.NewFromSnapshot(map[string]registry.NodeMetadata{
		"node-a": {Addr: "10.0.0.1:50051", CPUPercent: 5},
	})
	cache := newFakeCache()
	_ = cache.Put(context.Background(), sessioncache.Session{RoomID: "room-1", ParticipantID: "alice", NodeID: "node-gone", NodeAddr: "10.0.0.9:50051"})

	d := New(reg, cache, nil, testLogger())
	resp, err := d.AllocateNode(context.Background(), &dispatcherpb.AllocateNodeRequest{RoomID: "room-1", ParticipantID: "alice"})
	if err != nil {
		t.Fatalf("AllocateNode() error = %v", err)
	}
	if resp.NodeID != "node-a" || resp.ReusedExistingSession {
		t.Fatalf("expected fresh placement on node-a, got %+v", resp)
	}
}

func TestBroadcastExcludesOriginatingNode(t *testing.T) {
	cache := newFakeCache()
	ctx := context.Background()
	_ = cache.Put(ctx, sessioncache.Session{RoomID: "room-1", ParticipantID: "alice", NodeID: "node-a", NodeAddr: "10.0.0.1:50051"})
	_ = cache.Put(ctx, sessioncache.Session{RoomID: "room-1", ParticipantID: "bob", NodeID: "node-b", NodeAddr: "10.0.0.2:50051"})

	var mu sync.Mutex
	dialed := make(map[string]int)
	delivered := make(chan string, 4)

	dial := func(addr string) (grpc.ClientConnInterface, func() error, error) {
		mu.Lock()
		dialed[addr]++
		mu.Unlock()
		return nil, func() error { return nil }, nil
	}

	b := NewBroadcaster(cache, dial, testLogger())

	b.Broadcast(ctx, "room-1", "node-a", func(_ context.Context, _ grpc.ClientConnInterface) error {
		delivered <- "ok"
		return nil
	})

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("expected a delivery to the non-excluded node")
	}

	mu.Lock()
	defer mu.Unlock()
	if dialed["10.0.0.1:50051"] != 0 {
		t.Fatalf("expected node-a (the originating node) to never be dialed, got %d dials", dialed["10.0.0.1:50051"])
	}
	if dialed["10.0.0.2:50051"] != 1 {
		t.Fatalf("expected node-b to be dialed exactly once, got %d", dialed["10.0.0.2:50051"])
	}
}
