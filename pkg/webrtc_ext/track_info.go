package webrtc_ext

import (
	"github.com/pion/webrtc/v3"

	"github.com/waterbus-go/sfu/pkg/quality"
)

type RTCPPacketType int

const (
	PictureLossIndicator RTCPPacketType = iota + 1
	FullIntraRequest
)

// Basic information about a track, including the simulcast/SVC layer it was
// received on (None for a non-simulcast track).
type TrackInfo struct {
	TrackID  string
	StreamID string
	Kind     webrtc.RTPCodecType
	Codec    webrtc.RTPCodecCapability
	Quality  quality.TrackQuality
}

func TrackInfoFromTrack(track *webrtc.TrackRemote) TrackInfo {
	return TrackInfo{
		TrackID:  track.ID(),
		StreamID: track.StreamID(),
		Kind:     track.Kind(),
		Codec:    track.Codec().RTPCodecCapability,
		Quality:  quality.FromRID(track.RID()),
	}
}
