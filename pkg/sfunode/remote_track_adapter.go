package sfunode

import (
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
)

// remoteTrackAdapter narrows *webrtc.TrackRemote to media.RemoteTrack,
// passing the interceptor.Attributes value ReadRTP returns through as an
// untyped interface{} (the forwarding path does not use it).
type remoteTrackAdapter struct {
	track *webrtc.TrackRemote
}

func (a *remoteTrackAdapter) ReadRTP() (*rtp.Packet, interface{}, error) {
	packet, attrs, err := a.track.ReadRTP()
	return packet, attrs, err
}
