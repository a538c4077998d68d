package rewriter

import (
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// IsVP8Keyframe reports whether packet carries (the start of) a VP8 keyframe.
func IsVP8Keyframe(packet rtp.Packet) bool {
	vp8Packet := codecs.VP8Packet{}

	payload, err := vp8Packet.Unmarshal(packet.Payload)
	if err != nil || len(payload) == 0 {
		return false
	}

	// P bit of the VP8 payload header is 0 for key frames.
	pBit := payload[0] & 0x01

	// S bit of the VP8 payload descriptor marks the start of a new partition,
	// which key frames always set.
	return vp8Packet.S == 1 && pBit == 0
}
