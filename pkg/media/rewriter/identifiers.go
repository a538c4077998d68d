package rewriter

import "golang.org/x/exp/constraints"

// TruncatedPacketIdentifiers holds the RTP-wire-width identifiers of a
// packet, i.e. the values actually carried on the wire before rollover is
// taken into account.
type TruncatedPacketIdentifiers struct {
	timestamp      uint32
	sequenceNumber uint16
}

func (p TruncatedPacketIdentifiers) Add(delta TruncatedPacketIdentifiers) TruncatedPacketIdentifiers {
	return TruncatedPacketIdentifiers{
		timestamp:      p.timestamp + delta.timestamp,
		sequenceNumber: p.sequenceNumber + delta.sequenceNumber,
	}
}

func (p TruncatedPacketIdentifiers) Sub(delta TruncatedPacketIdentifiers) TruncatedPacketIdentifiers {
	return TruncatedPacketIdentifiers{
		timestamp:      p.timestamp - delta.timestamp,
		sequenceNumber: p.sequenceNumber - delta.sequenceNumber,
	}
}

func (p TruncatedPacketIdentifiers) Max(other TruncatedPacketIdentifiers) TruncatedPacketIdentifiers {
	return TruncatedPacketIdentifiers{
		timestamp:      max(p.timestamp, other.timestamp),
		sequenceNumber: max(p.sequenceNumber, other.sequenceNumber),
	}
}

// ExpandedPacketIdentifiers holds identifiers after rollover has been folded
// into a wider counter, so that arithmetic across a wraparound is safe.
type ExpandedPacketIdentifiers struct {
	timestamp      uint64
	sequenceNumber uint32
}

func (p ExpandedPacketIdentifiers) Add(delta ExpandedPacketIdentifiers) ExpandedPacketIdentifiers {
	return ExpandedPacketIdentifiers{
		timestamp:      p.timestamp + delta.timestamp,
		sequenceNumber: p.sequenceNumber + delta.sequenceNumber,
	}
}

func (p ExpandedPacketIdentifiers) Sub(delta ExpandedPacketIdentifiers) ExpandedPacketIdentifiers {
	return ExpandedPacketIdentifiers{
		timestamp:      p.timestamp - delta.timestamp,
		sequenceNumber: p.sequenceNumber - delta.sequenceNumber,
	}
}

func (p ExpandedPacketIdentifiers) Max(other ExpandedPacketIdentifiers) ExpandedPacketIdentifiers {
	return ExpandedPacketIdentifiers{
		timestamp:      max(p.timestamp, other.timestamp),
		sequenceNumber: max(p.sequenceNumber, other.sequenceNumber),
	}
}

// Go's math.Max is float64-only, so we roll our own for the ordered types we need.
func max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
