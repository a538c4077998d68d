package media

import (
	"sync"
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"

	"github.com/waterbus-go/sfu/pkg/media/rewriter"
	"github.com/waterbus-go/sfu/pkg/quality"
)

// LocalTrack is the subset of webrtc.TrackLocalStaticRTP a ForwardTrack
// writes into, kept narrow so tests can fake it without standing up Pion.
type LocalTrack interface {
	WriteRTP(p *rtp.Packet) error
}

// ForwardTrack is the per-subscriber side of a published track: it tracks
// the quality the subscriber asked for, the quality actually available from
// the Publisher, and rewrites the forwarded RTP stream so switching between
// the two never produces a discontinuity the subscriber's decoder can see.
//
// Grounded on crates/webrtc-manager/src/entities/forward_track.rs's
// requested/effective/desired split, wired onto the teacher's packet
// rewriter (pkg/peer/subscription/rewriter) and worker/channel idioms.
type ForwardTrack struct {
	id        string
	publisher *Publisher
	local     LocalTrack
	rewriter  *rewriter.PacketRewriter
	logger    *logrus.Entry

	requested int32 // quality.TrackQuality, accessed atomically

	mu       sync.Mutex
	current  quality.TrackQuality
	receiver <-chan *rtp.Packet
	resub    chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewForwardTrack starts forwarding packets from publisher to local at the
// given initial requested quality.
func NewForwardTrack(id string, publisher *Publisher, local LocalTrack, initial quality.TrackQuality, logger *logrus.Entry) *ForwardTrack {
	ft := &ForwardTrack{
		id:        id,
		publisher: publisher,
		local:     local,
		rewriter:  rewriter.NewPacketRewriter(),
		logger:    logger,
		requested: int32(initial),
		resub:     make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	publisher.AddSubscriber(id, ft)
	go ft.run()
	return ft
}

// SetRequestedQuality updates the quality the subscriber's client asked for
// (the `track_quality` control-channel message). Takes effect on the next
// forwarded packet at the latest.
func (ft *ForwardTrack) SetRequestedQuality(q quality.TrackQuality) {
	if atomic.SwapInt32(&ft.requested, int32(q)) != int32(q) {
		ft.requestResubscribe()
	}
}

func (ft *ForwardTrack) RequestedQuality() quality.TrackQuality {
	return quality.TrackQuality(atomic.LoadInt32(&ft.requested))
}

// DesiredQuality is the quality actually being forwarded right now:
// min(requested, effective), clamped down further to whatever is actually
// alive at or below that cap (effective is the publisher's highest alive
// layer, but the requested layer itself may have stalled independently).
func (ft *ForwardTrack) DesiredQuality() quality.TrackQuality {
	requested := ft.RequestedQuality()
	effective := ft.publisher.HighestAlive()
	return ft.publisher.BestAliveAtOrBelow(quality.Min(requested, effective))
}

// Reconsider is called by the Publisher whenever a layer's aliveness
// changes, so a ForwardTrack stuck on a stalled layer (or one that can now
// recover to a higher layer) re-evaluates its desired quality.
func (ft *ForwardTrack) Reconsider() {
	ft.requestResubscribe()
}

func (ft *ForwardTrack) requestResubscribe() {
	select {
	case ft.resub <- struct{}{}:
	default:
	}
}

func (ft *ForwardTrack) Stop() {
	ft.stopOnce.Do(func() {
		close(ft.stop)
		ft.publisher.RemoveSubscriber(ft.id)
	})
}

func (ft *ForwardTrack) run() {
	ft.subscribe(ft.DesiredQuality())
	defer ft.unsubscribe()

	for {
		select {
		case <-ft.stop:
			return
		case <-ft.resub:
			ft.unsubscribe()
			ft.subscribe(ft.DesiredQuality())
		case packet, ok := <-ft.receiver:
			if !ok {
				continue
			}
			rewritten, err := ft.rewriter.ProcessIncoming(*packet)
			if err != nil {
				ft.logger.WithError(err).Warn("failed to rewrite forwarded packet")
				continue
			}
			if err := ft.local.WriteRTP(rewritten); err != nil {
				ft.logger.WithError(err).Debug("failed to write forwarded packet")
			}
		}
	}
}

func (ft *ForwardTrack) subscribe(q quality.TrackQuality) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.current = q
	if q == quality.None {
		ft.receiver = nil
		return
	}
	ft.receiver = ft.publisher.Sender().AddReceiver(q, ft.id)
}

func (ft *ForwardTrack) unsubscribe() {
	ft.mu.Lock()
	q, id := ft.current, ft.id
	ft.mu.Unlock()
	if q != quality.None {
		ft.publisher.Sender().RemoveReceiver(q, id)
	}
}
