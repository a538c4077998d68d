// Package quality defines the TrackQuality layer selection shared across
// simulcast rid negotiation, VP9 SVC spatial layers and the RPC surface.
package quality

import "github.com/pion/rtp/codecs"

// TrackQuality is the forwarding layer a subscriber receives for a track.
// Ordered so that comparisons (min/max) pick the weaker/stronger layer.
type TrackQuality int

const (
	None TrackQuality = iota
	Low
	Medium
	High
)

func (q TrackQuality) String() string {
	switch q {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "none"
	}
}

// FromRID maps a simulcast RTP stream id to its quality layer.
func FromRID(rid string) TrackQuality {
	switch rid {
	case "q": // quarter
		return Low
	case "h": // half
		return Medium
	case "f": // full
		return High
	default:
		return None
	}
}

// RID is the inverse of FromRID, used when the SFU itself announces simulcast
// encodings (e.g. when relaying TrackInfo to a new subscriber).
func (q TrackQuality) RID() string {
	switch q {
	case Low:
		return "q"
	case Medium:
		return "h"
	case High:
		return "f"
	default:
		return ""
	}
}

// FromString maps the RPC surface's "low"/"medium"/"high" string (see
// proto/sfu.proto's requested_quality fields) to a TrackQuality.
func FromString(s string) TrackQuality {
	switch s {
	case "low":
		return Low
	case "medium":
		return Medium
	case "high":
		return High
	default:
		return None
	}
}

// FromUint8 decodes the quality value sent over the wire by the
// TrackQualityRequest control-channel message or the RPC layer.
func FromUint8(v uint8) TrackQuality {
	switch v {
	case 1:
		return Low
	case 2:
		return Medium
	case 3:
		return High
	default:
		return None
	}
}

func (q TrackQuality) Uint8() uint8 {
	return uint8(q)
}

// Min returns the weaker of two qualities, used to derive the desired quality
// for a forwarded track from its requested and effective qualities.
func Min(a, b TrackQuality) TrackQuality {
	if a < b {
		return a
	}
	return b
}

// spatialLayer maps a TrackQuality onto the VP9 SVC spatial layer id that
// carries it. Temporal layer selection is left at its highest id, since the
// SFU forwards whichever temporal layer the publisher sent.
func (q TrackQuality) spatialLayer() uint8 {
	switch q {
	case Low:
		return 0
	case Medium:
		return 1
	case High:
		return 2
	default:
		return 0
	}
}

// ShouldForwardVP9SVC reports whether a VP9 SVC packet belongs to the spatial
// layer matching q. Non-layered packets (or the base temporal layer) are
// always forwarded since they carry frames every spatial layer depends on.
func (q TrackQuality) ShouldForwardVP9SVC(pkt *codecs.VP9Packet) bool {
	if !pkt.L || pkt.TID == 0 {
		return true
	}
	return pkt.SID == q.spatialLayer()
}
