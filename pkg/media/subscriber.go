package media

import (
	"github.com/sirupsen/logrus"

	"github.com/waterbus-go/sfu/pkg/quality"
)

// Subscriber is one participant's subscription to one published Track. It
// owns the ForwardTrack carrying media to that participant and reacts to
// RTCP feedback the subscriber's own client sends back (a PLI/FIR from the
// subscriber's decoder is forwarded to the publisher, same as the periodic
// PLI ticker the Publisher already runs).
//
// Grounded on pkg/peer/subscription/subscription.go's readRTCP loop,
// generalized onto the quality-aware ForwardTrack above.
type Subscriber struct {
	ID                     string
	ParticipantID          string
	PublisherParticipantID string
	TrackID                string
	Forward                *ForwardTrack
	publisher              *Publisher
	logger                 *logrus.Entry

	lifecycle
}

// NewSubscriber starts forwarding publisher's track to local at quality
// initial on behalf of the subscribing participant.
func NewSubscriber(
	id, participantID, publisherParticipantID, trackID string,
	publisher *Publisher,
	local LocalTrack,
	initial quality.TrackQuality,
	logger *logrus.Entry,
) *Subscriber {
	sub := &Subscriber{
		ID:                     id,
		ParticipantID:          participantID,
		PublisherParticipantID: publisherParticipantID,
		TrackID:                trackID,
		Forward:                NewForwardTrack(id, publisher, local, initial, logger),
		publisher:              publisher,
		logger:                 logger,
	}
	// Created only once the owning participantPeer's PeerConnection is
	// already established (Subscribe renegotiates an existing connection,
	// never a fresh one), so a Subscriber starts Connected rather than
	// Connecting.
	sub.SetState(StateConnected)
	return sub
}

// SetQuality applies a `track_quality` control-channel request from this
// subscriber's client.
func (s *Subscriber) SetQuality(q quality.TrackQuality) {
	s.Forward.SetRequestedQuality(q)
}

// OnKeyFrameRequest forwards a PLI/FIR received from the subscriber's own
// decoder to the publisher, on the layer currently being forwarded.
func (s *Subscriber) OnKeyFrameRequest() error {
	if s.publisher.RequestKeyFrame == nil {
		return nil
	}
	return s.publisher.RequestKeyFrame(s.Forward.DesiredQuality())
}

// Stop tears down the forwarding goroutine and unregisters from the publisher.
func (s *Subscriber) Stop() {
	s.SetState(StateClosing)
	s.Forward.Stop()
	s.SetState(StateClosed)
}
