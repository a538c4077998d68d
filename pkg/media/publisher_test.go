package media

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"

	"github.com/waterbus-go/sfu/pkg/quality"
	"github.com/waterbus-go/sfu/pkg/telemetry"
)

type fakeRemoteTrack struct {
	mu      sync.Mutex
	packets chan *rtp.Packet
	closed  bool
}

func newFakeRemoteTrack() *fakeRemoteTrack {
	return &fakeRemoteTrack{packets: make(chan *rtp.Packet, 16)}
}

func (f *fakeRemoteTrack) ReadRTP() (*rtp.Packet, interface{}, error) {
	p, ok := <-f.packets
	if !ok {
		return nil, nil, errClosedTrack
	}
	return p, nil, nil
}

func (f *fakeRemoteTrack) push(p *rtp.Packet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.packets <- p
	}
}

func (f *fakeRemoteTrack) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.packets)
	}
}

type testErr string

func (e testErr) Error() string { return string(e) }

const errClosedTrack = testErr("track closed")

func newTestPublisher() *Publisher {
	logger := logrus.NewEntry(logrus.New())
	return NewPublisher(logger, telemetry.NewTelemetry(context.Background(), "test"))
}

func TestPublisherBestAliveAtOrBelowBeforeAnyLayer(t *testing.T) {
	p := newTestPublisher()
	if got := p.BestAliveAtOrBelow(quality.High); got != quality.None {
		t.Fatalf("expected None with no layers registered, got %v", got)
	}
}

func TestPublisherFallsBackToLowerAliveLayer(t *testing.T) {
	p := newTestPublisher()
	high := newFakeRemoteTrack()
	low := newFakeRemoteTrack()
	p.AddLayer(quality.High, high)
	p.AddLayer(quality.Low, low)

	if got := p.BestAliveAtOrBelow(quality.High); got != quality.High {
		t.Fatalf("expected High alive, got %v", got)
	}

	p.RemoveLayer(quality.High)
	if got := p.BestAliveAtOrBelow(quality.High); got != quality.Low {
		t.Fatalf("expected fallback to Low, got %v", got)
	}

	low.close()
	p.Stop()
}

func TestForwardTrackForwardsFromAliveLayer(t *testing.T) {
	p := newTestPublisher()
	highTrack := newFakeRemoteTrack()
	p.AddLayer(quality.High, highTrack)

	var written []uint16
	var mu sync.Mutex
	local := localWriterFunc(func(pkt *rtp.Packet) error {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, pkt.SequenceNumber)
		return nil
	})

	ft := NewForwardTrack("sub-1", p, local, quality.High, logrus.NewEntry(logrus.New()))
	defer ft.Stop()

	highTrack.push(&rtp.Packet{Header: rtp.Header{SequenceNumber: 1, SSRC: 1}})

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(written)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected at least one packet to be forwarded")
		case <-time.After(10 * time.Millisecond):
		}
	}

	p.Stop()
}

type localWriterFunc func(*rtp.Packet) error

func (f localWriterFunc) WriteRTP(p *rtp.Packet) error { return f(p) }
