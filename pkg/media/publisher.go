package media

import (
	"sync"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/sirupsen/logrus"

	"github.com/waterbus-go/sfu/pkg/common"
	"github.com/waterbus-go/sfu/pkg/multicast"
	"github.com/waterbus-go/sfu/pkg/quality"
	"github.com/waterbus-go/sfu/pkg/telemetry"
)

// RemoteTrack is the subset of webrtc.TrackRemote a layerPublisher depends
// on, kept narrow so tests can fake it without standing up Pion.
type RemoteTrack interface {
	ReadRTP() (*rtp.Packet, interface{}, error)
}

// stallTimeout is how long a layer may go without a packet before its
// subscribers are told it's no longer alive. Matches the teacher's
// publisher stall detection in pkg/conference/track/track_handler.go.
const stallTimeout = 2 * time.Second

// layerPublisher reads RTP from one upstream simulcast/SVC layer and fans it
// out to every subscriber interested in that quality, tracking whether the
// layer is currently producing packets.
type layerPublisher struct {
	quality quality.TrackQuality
	track   RemoteTrack
	sender  *multicast.Sender[*rtp.Packet]
	vp9SVC  bool
	logger  *logrus.Entry
	tel     *telemetry.Telemetry

	stopOnce sync.Once
	stop     chan struct{}
	stalled  *common.Worker[struct{}]
}

// reconsiderer is implemented by ForwardTrack; kept as an interface here so
// this file doesn't need to import its own dependents.
type reconsiderer interface {
	Reconsider()
}

// Publisher owns every layerPublisher for a single published Track (e.g. all
// simulcast layers of one camera video track) and reports, for each quality,
// whether it is currently being produced.
type Publisher struct {
	mu          sync.RWMutex
	layers      map[quality.TrackQuality]*layerPublisher
	alive       map[quality.TrackQuality]bool
	subscribers map[string]reconsiderer
	sender      *multicast.Sender[*rtp.Packet]
	logger      *logrus.Entry
	tel         *telemetry.Telemetry
	// Muted reports whether the owning Media is currently disabled, in which
	// case a stalled layer is expected rather than an error worth logging loudly.
	Muted func() bool
	// RequestKeyFrame sends a PLI/FIR to the publishing peer for the given
	// layer. Wired by the caller since only the peer connection knows how to
	// write RTCP back to the publisher.
	RequestKeyFrame func(quality.TrackQuality) error
	// Simulcast controls the PLI cadence: simulcast/SVC tracks are polled
	// every second since a stuck layer is common during a quality switch,
	// single-layer tracks every three seconds.
	Simulcast bool
	// VP9SVC marks a publish as a single VP9 stream carrying its spatial
	// layers muxed together (rather than one webrtc.TrackRemote per layer,
	// as simulcast gives us). Its one layerPublisher demuxes each packet by
	// its VP9 payload descriptor instead of forwarding everything under a
	// single fixed quality.
	VP9SVC bool

	lifecycle
}

func (p *Publisher) pliInterval() time.Duration {
	if p.Simulcast || p.VP9SVC {
		return time.Second
	}
	return 3 * time.Second
}

// NewPublisher creates an empty Publisher. Layers are attached as Pion
// reports simulcast tracks for the same published track id via AddLayer.
func NewPublisher(logger *logrus.Entry, tel *telemetry.Telemetry) *Publisher {
	p := &Publisher{
		layers:      make(map[quality.TrackQuality]*layerPublisher),
		alive:       make(map[quality.TrackQuality]bool),
		subscribers: make(map[string]reconsiderer),
		sender:      multicast.NewSender[*rtp.Packet](),
		logger:      logger,
		tel:         tel,
	}
	p.SetState(StateConnecting)
	return p
}

// AddSubscriber registers a ForwardTrack to be told to Reconsider its
// desired quality whenever a layer's aliveness changes.
func (p *Publisher) AddSubscriber(id string, ft reconsiderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers[id] = ft
}

func (p *Publisher) RemoveSubscriber(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subscribers, id)
}

// SubscriberCount reports how many ForwardTracks are currently attached,
// the subscribed_count carried in the track_quality control-channel message.
func (p *Publisher) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Sender exposes the multicast sender subscribers attach receivers to.
func (p *Publisher) Sender() *multicast.Sender[*rtp.Packet] {
	return p.sender
}

// AddLayer starts forwarding packets from track as quality q. Replaces any
// previous layer registered for the same quality (e.g. after a Pion
// reconnect recreated the remote track).
func (p *Publisher) AddLayer(q quality.TrackQuality, track RemoteTrack) {
	p.mu.Lock()
	if existing, ok := p.layers[q]; ok {
		existing.close()
	}

	lp := &layerPublisher{
		quality: q,
		track:   track,
		sender:  p.sender,
		vp9SVC:  p.VP9SVC,
		logger:  p.logger.WithField("quality", q.String()),
		tel:     p.tel.CreateChild("layer_"+q.String()),
		stop:    make(chan struct{}),
	}
	p.layers[q] = lp
	p.alive[q] = true
	p.mu.Unlock()

	p.SetState(StateConnected)

	lp.stalled = common.StartWorker(common.WorkerConfig[struct{}]{
		ChannelSize: 1,
		Timeout:     stallTimeout,
		OnTimeout:   func() { p.setAlive(q, false) },
		OnTask:      func(struct{}) { p.setAlive(q, true) },
	})

	go lp.run()
	go p.runPLITicker(q, lp.stop)
}

// runPLITicker periodically asks the publishing peer for a keyframe on
// layer q, for as long as the layer is registered.
func (p *Publisher) runPLITicker(q quality.TrackQuality, stop <-chan struct{}) {
	ticker := time.NewTicker(p.pliInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if p.RequestKeyFrame == nil {
				continue
			}
			if err := p.RequestKeyFrame(q); err != nil {
				p.logger.WithError(err).WithField("quality", q.String()).Debug("failed to request keyframe")
			}
		}
	}
}

// RemoveLayer stops and forgets the layer publishing q, e.g. once the
// remote track has ended.
func (p *Publisher) RemoveLayer(q quality.TrackQuality) {
	p.mu.Lock()
	lp, ok := p.layers[q]
	if ok {
		delete(p.layers, q)
		delete(p.alive, q)
	}
	p.mu.Unlock()

	if ok {
		lp.close()
	}
}

// IsAlive reports whether quality q currently has a publisher producing
// packets (i.e. has not stalled).
func (p *Publisher) IsAlive(q quality.TrackQuality) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.alive[q]
}

// BestAliveAtOrBelow returns the highest quality <= requested that is
// currently alive, or quality.None if nothing is.
func (p *Publisher) BestAliveAtOrBelow(requested quality.TrackQuality) quality.TrackQuality {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for q := requested; q > quality.None; q-- {
		if p.alive[q] {
			return q
		}
	}
	return quality.None
}

// HighestAlive returns the highest quality currently alive, or quality.None
// if nothing is: the "effective" half of desired_quality = min(requested,
// effective).
func (p *Publisher) HighestAlive() quality.TrackQuality {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for q := quality.High; q > quality.None; q-- {
		if p.alive[q] {
			return q
		}
	}
	return quality.None
}

// Stop tears down every layer.
func (p *Publisher) Stop() {
	p.SetState(StateClosing)

	p.mu.Lock()
	layers := p.layers
	p.layers = make(map[quality.TrackQuality]*layerPublisher)
	p.alive = make(map[quality.TrackQuality]bool)
	p.mu.Unlock()

	for _, lp := range layers {
		lp.close()
	}
	p.sender.Clear()

	p.SetState(StateClosed)
}

func (p *Publisher) setAlive(q quality.TrackQuality, alive bool) {
	p.mu.Lock()
	changed := p.alive[q] != alive
	p.alive[q] = alive
	subscribers := make([]reconsiderer, 0, len(p.subscribers))
	for _, s := range p.subscribers {
		subscribers = append(subscribers, s)
	}
	p.mu.Unlock()

	if !changed {
		return
	}

	muted := p.Muted != nil && p.Muted()
	if alive {
		p.logger.WithField("quality", q.String()).Info("layer recovered")
		p.tel.AddEvent("layer_recovered")
	} else if muted {
		p.logger.WithField("quality", q.String()).Debug("layer stalled while muted, ignoring")
	} else {
		p.logger.WithField("quality", q.String()).Warn("layer stalled")
		p.tel.AddEvent("layer_stalled")
	}

	for _, s := range subscribers {
		s.Reconsider()
	}
}

func (lp *layerPublisher) run() {
	defer lp.stalled.Stop()
	for {
		select {
		case <-lp.stop:
			return
		default:
		}

		packet, _, err := lp.track.ReadRTP()
		if err != nil {
			lp.logger.WithError(err).Info("layer publisher stopped reading")
			return
		}

		_ = lp.stalled.Send(struct{}{})

		if lp.vp9SVC {
			lp.forwardVP9SVC(packet)
		} else {
			lp.sender.Send(lp.quality, packet)
		}
	}
}

// forwardVP9SVC demuxes one packet of a VP9 SVC stream (spatial layers
// muxed onto a single RTP stream rather than one webrtc.TrackRemote per
// layer) by peeking its payload descriptor and delivering it to every
// quality tier it belongs to, per quality.ShouldForwardVP9SVC. A packet
// that fails to parse as VP9 (e.g. a keyframe request raced a codec that
// isn't actually VP9) falls back to this layer's nominal quality so
// forwarding never silently stalls.
func (lp *layerPublisher) forwardVP9SVC(packet *rtp.Packet) {
	var vp9 codecs.VP9Packet
	if _, err := vp9.Unmarshal(packet.Payload); err != nil {
		lp.sender.Send(lp.quality, packet)
		return
	}

	for _, q := range []quality.TrackQuality{quality.Low, quality.Medium, quality.High} {
		if q.ShouldForwardVP9SVC(&vp9) {
			lp.sender.Send(q, packet)
		}
	}
}

func (lp *layerPublisher) close() {
	lp.stopOnce.Do(func() { close(lp.stop) })
}
