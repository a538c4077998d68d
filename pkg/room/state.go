package room

import (
	"sync"

	"golang.org/x/exp/slices"
)

// AVState is the participant-level Media state from spec §3: the declared
// audio/video/e2ee/screen-share/hand-raise flags and camera type that travel
// alongside a participant's publisher, independent of which Tracks are
// currently flowing RTP. A change here is broadcast to every Subscriber of
// this participant over the track_quality control channel (see
// pkg/sfunode's datachannel.go).
//
// Grounded on pkg/conference/participant.go's mediaInfo struct in the
// teacher, narrowed to just the flags the RPC surface mutates.
type AVState struct {
	mu sync.RWMutex

	videoEnabled  bool
	audioEnabled  bool
	e2eeEnabled   bool
	screenSharing bool
	handRaising   bool
	cameraType    string

	// screenTrackID is the media id of the current screen-share track.
	// trackOrder enforces the invariant that a screen-share track is always
	// the last element and, when removed, exactly the last element is popped.
	screenTrackID string
	trackOrder    []string
}

// NewAVState returns the default state for a freshly joined participant:
// camera and mic enabled, nothing else set.
func NewAVState(e2ee bool) *AVState {
	return &AVState{videoEnabled: true, audioEnabled: true, e2eeEnabled: e2ee}
}

// Snapshot is a point-in-time copy of the flags, safe to hand to a caller
// (e.g. as Subscribe's "target's media flags" response).
type Snapshot struct {
	VideoEnabled  bool
	AudioEnabled  bool
	E2EEEnabled   bool
	ScreenSharing bool
	HandRaising   bool
	CameraType    string
	ScreenTrackID string
}

func (s *AVState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		VideoEnabled:  s.videoEnabled,
		AudioEnabled:  s.audioEnabled,
		E2EEEnabled:   s.e2eeEnabled,
		ScreenSharing: s.screenSharing,
		HandRaising:   s.handRaising,
		CameraType:    s.cameraType,
		ScreenTrackID: s.screenTrackID,
	}
}

func (s *AVState) SetVideoEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoEnabled = enabled
}

func (s *AVState) SetAudioEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioEnabled = enabled
}

func (s *AVState) SetHandRaising(raised bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handRaising = raised
}

func (s *AVState) SetCameraType(cameraType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameraType = cameraType
}

// TrackPublished records mediaID as the most recently published track, used
// to keep trackOrder accurate for the screen-share invariant below. While
// screen sharing is on, the screen-share track stays last: mediaID is
// inserted just before it, and the screen-share track's own publish (already
// recorded by SetScreenSharing) is not recorded a second time.
func (s *AVState) TrackPublished(mediaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screenSharing && mediaID == s.screenTrackID {
		return
	}
	if n := len(s.trackOrder); s.screenSharing && n > 0 && s.trackOrder[n-1] == s.screenTrackID {
		s.trackOrder = slices.Insert(s.trackOrder, n-1, mediaID)
		return
	}
	s.trackOrder = append(s.trackOrder, mediaID)
}

// SetScreenSharing toggles screen-share on or off. Enabling appends mediaID
// as the new last track (the invariant: "at most one screen-share track,
// always the last element"); disabling pops exactly the track that was
// added, regardless of what else was published in between, and returns its
// id so the caller can tear down the corresponding Publisher.
func (s *AVState) SetScreenSharing(enabled bool, mediaID string) (removedTrackID string, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled == s.screenSharing {
		return "", false
	}

	if enabled {
		s.screenSharing = true
		s.screenTrackID = mediaID
		s.trackOrder = append(s.trackOrder, mediaID)
		return "", true
	}

	s.screenSharing = false
	removed := s.screenTrackID
	s.screenTrackID = ""
	if n := len(s.trackOrder); n > 0 && s.trackOrder[n-1] == removed {
		s.trackOrder = slices.Delete(s.trackOrder, n-1, n)
	}
	return removed, true
}
