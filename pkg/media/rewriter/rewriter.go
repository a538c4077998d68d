package rewriter

import (
	"github.com/pion/rtp"
)

// PacketRewriter rewrites the sequence number and timestamp of forwarded RTP
// packets so that a subscriber sees a single continuous stream even as the
// SFU switches which upstream simulcast/SVC layer (and therefore SSRC) it
// forwards packets from.
type PacketRewriter struct {
	// Highest identifiers returned so far. This is the latest *identifier*
	// handed out, not necessarily the identifier of the last packet forwarded
	// (packets can arrive out of order).
	latestOutgoing ExpandedPacketIdentifiers
	state          forwardingState
}

func NewPacketRewriter() *PacketRewriter {
	return &PacketRewriter{}
}

// ProcessIncoming rewrites a copy of packet and returns it; the caller's
// packet is left unchanged.
func (p *PacketRewriter) ProcessIncoming(packet rtp.Packet) (*rtp.Packet, error) {
	incomingIDs := TruncatedPacketIdentifiers{packet.Timestamp, packet.SequenceNumber}
	outgoingIDs := p.state.process(packet.SSRC, incomingIDs, p.latestOutgoing)

	p.latestOutgoing = p.latestOutgoing.Max(outgoingIDs)

	packet.Timestamp = uint32(outgoingIDs.timestamp)
	packet.SequenceNumber = uint16(outgoingIDs.sequenceNumber)

	return &packet, nil
}

// forwardingState tracks the rewriting state for a single incoming SSRC,
// i.e. a single layer. It is reset whenever the SFU switches the layer (and
// therefore SSRC) it forwards from.
type forwardingState struct {
	ssrc uint32
	// Identifiers of the first incoming packet since the last switch, used as
	// the base to compute the packet's position relative to the switch point.
	firstIncoming ExpandedPacketIdentifiers
	// Highest incoming identifiers seen since the last switch.
	latestIncoming ExpandedPacketIdentifiers
	// Identifiers of the first outgoing packet since the last switch, the
	// base onto which the relative incoming delta is added.
	firstOutgoing ExpandedPacketIdentifiers
}

func (s *forwardingState) process(
	ssrc uint32,
	incomingIDs TruncatedPacketIdentifiers,
	latestOutgoing ExpandedPacketIdentifiers,
) ExpandedPacketIdentifiers {
	if s.ssrc != ssrc {
		return s.reset(ssrc, incomingIDs, latestOutgoing)
	}

	latestSequenceNumber := uint64(s.latestIncoming.sequenceNumber)
	expandedSequenceNumber := uint32(ExpandCounter(uint64(incomingIDs.sequenceNumber), 16, &latestSequenceNumber))
	s.latestIncoming.sequenceNumber = uint32(latestSequenceNumber)

	expandedTimestamp := ExpandCounter(uint64(incomingIDs.timestamp), 32, &s.latestIncoming.timestamp)

	expandedIncomingIDs := ExpandedPacketIdentifiers{expandedTimestamp, expandedSequenceNumber}
	delta := expandedIncomingIDs.Sub(s.firstIncoming)

	return s.firstOutgoing.Add(delta)
}

func (s *forwardingState) reset(
	newSSRC uint32,
	incoming TruncatedPacketIdentifiers,
	latestOutgoing ExpandedPacketIdentifiers,
) ExpandedPacketIdentifiers {
	previousSSRC := s.ssrc
	s.ssrc = newSSRC

	// ROC since the switch point is 0 by definition, so these expand safely
	// without needing a "latest" reference.
	s.firstIncoming = ExpandedPacketIdentifiers{uint64(incoming.timestamp), uint32(incoming.sequenceNumber)}
	s.latestIncoming = s.firstIncoming

	var delta ExpandedPacketIdentifiers
	if previousSSRC != 0 {
		// Leave a gap so the decoder treats the previous frame as incomplete
		// rather than stitching mismatched layers together.
		delta = ExpandedPacketIdentifiers{timestamp: 1, sequenceNumber: 2}
	} else {
		delta = ExpandedPacketIdentifiers{}
	}

	outgoingIDs := latestOutgoing.Add(delta)
	s.firstOutgoing = outgoingIDs

	return outgoingIDs
}
