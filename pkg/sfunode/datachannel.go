package sfunode

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/tidwall/gjson"

	"github.com/waterbus-go/sfu/pkg/quality"
	"github.com/waterbus-go/sfu/pkg/room"
)

// trackQualityLabel is the WebRTC data channel every participant's client
// is expected to open alongside its media, carrying the control-channel
// messages described in spec §4.1.
const trackQualityLabel = "track_quality"

// trackQualityUpdate is what a Publisher sends down its own track_quality
// channel when a subscriber attaches/detaches or a quality preference
// changes. Quality/QualityLevel are only populated for a quality-change
// notification, string and numeric forms of the same value so either a
// human-debugging client or a byte-counting one can use it.
type trackQualityUpdate struct {
	TrackID         string `json:"track_id"`
	SubscribedCount int    `json:"subscribed_count"`
	Quality         string `json:"quality,omitempty"`
	QualityLevel    uint8  `json:"quality_level,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// wireControlChannel registers the OnDataChannel handler that captures a
// participant's track_quality channel once its client opens it, so this
// node can both push attach/detach/quality notifications to it and parse
// TrackQualityRequest messages the client sends upstream.
func (n *Node) wireControlChannel(pp *participantPeer, participant *room.Participant) {
	pp.pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != trackQualityLabel {
			return
		}

		pp.mu.Lock()
		pp.controlChannel = dc
		pp.mu.Unlock()

		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			n.onTrackQualityRequest(participant, msg.Data)
		})
	})
}

// onTrackQualityRequest applies a subscriber's requested quality change
// arriving on its own track_quality channel. Parsed defensively with gjson
// rather than encoding/json.Unmarshal, since this payload crosses a WebRTC
// data channel straight from a client and a malformed message must never
// panic the node (see SPEC_FULL.md's domain stack notes).
func (n *Node) onTrackQualityRequest(subscribingParticipant *room.Participant, data []byte) {
	if !gjson.ValidBytes(data) {
		n.logger.Warn("dropping malformed track_quality payload")
		return
	}

	parsed := gjson.ParseBytes(data)
	trackID := parsed.Get("track_id").String()
	if trackID == "" {
		return
	}

	sub, ok := subscribingParticipant.SubscriberByTrack(trackID)
	if !ok {
		return
	}

	requested := parseRequestedQuality(parsed.Get("quality"))
	sub.SetQuality(requested)

	n.notifyTrackQuality(sub.PublisherParticipantID, trackID, requested)
}

// parseRequestedQuality accepts either the "low"/"medium"/"high" string form
// or the numeric wire form (quality.TrackQuality.Uint8) of a requested
// quality, since older/leaner clients send the numeric form to avoid a
// string compare on the hot control-channel path.
func parseRequestedQuality(field gjson.Result) quality.TrackQuality {
	if field.Type == gjson.Number {
		return quality.FromUint8(uint8(field.Uint()))
	}
	return quality.FromString(field.String())
}

// notifyTrackQuality pushes an attach/detach/quality-change update down
// publisherParticipantID's own track_quality channel, if it has one open.
// changedQuality is quality.None for a plain attach/detach count update,
// in which case both the string and numeric quality fields are left unset.
func (n *Node) notifyTrackQuality(publisherParticipantID, trackID string, changedQuality quality.TrackQuality) {
	n.mu.RLock()
	publisherPeer, ok := n.peers[publisherParticipantID]
	n.mu.RUnlock()
	if !ok {
		return
	}

	publisherPeer.mu.Lock()
	pub, hasPublisher := publisherPeer.publishers[trackID]
	pp := publisherPeer
	publisherPeer.mu.Unlock()

	count := 0
	if hasPublisher {
		count = pub.SubscriberCount()
	}

	pp.mu.Lock()
	dc := pp.controlChannel
	pp.mu.Unlock()
	if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return
	}

	update := trackQualityUpdate{
		TrackID:         trackID,
		SubscribedCount: count,
		Timestamp:       unixMilliNow(),
	}
	if changedQuality != quality.None {
		update.Quality = changedQuality.String()
		update.QualityLevel = changedQuality.Uint8()
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return
	}

	if err := dc.Send(payload); err != nil {
		n.logger.WithError(err).Debug("failed to send track_quality update")
	}
}

// unixMilliNow is its own function so tests driving trackQualityUpdate
// never depend on wall-clock time indirectly through this package's public
// surface.
var unixMilliNow = func() int64 { return time.Now().UnixMilli() }
