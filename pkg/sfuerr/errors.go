// Package sfuerr defines the error taxonomy shared by the SFU node and
// Dispatcher, and the mapping from those errors onto gRPC status codes at
// the RPC boundary.
package sfuerr

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPeerNotFound        = errors.New("peer not found")
	ErrTrackNotFound       = errors.New("track not found")
	ErrNodeNotFound        = errors.New("no SFU node available")

	ErrFailedToCreatePeer        = errors.New("failed to create peer connection")
	ErrFailedToAddTrack          = errors.New("failed to add track")
	ErrFailedToAddTransceiver    = errors.New("failed to add transceiver")
	ErrFailedToCreateOffer       = errors.New("failed to create offer")
	ErrFailedToCreateAnswer      = errors.New("failed to create answer")
	ErrFailedToSetSDP            = errors.New("failed to set session description")
	ErrFailedToAddCandidate      = errors.New("failed to add ICE candidate")
	ErrFailedToRenegotiate       = errors.New("failed to renegotiate")
	ErrFailedToMigrateConnection = errors.New("failed to migrate connection")

	ErrInvalidStreamingProtocol = errors.New("invalid streaming protocol")
	ErrInvalidTrackQuality      = errors.New("invalid track quality")

	ErrDispatchUnavailable = errors.New("dispatcher could not reach any node for the room")
)

// ToGRPCStatus maps a sentinel (or wrapped sentinel) error to the gRPC status
// it should be reported as at the RPC boundary. Unrecognized errors map to
// Internal, following the teacher's habit of surfacing sentinel errors from
// typed error values rather than string matching.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrPeerNotFound),
		errors.Is(err, ErrTrackNotFound),
		errors.Is(err, ErrNodeNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrInvalidStreamingProtocol),
		errors.Is(err, ErrInvalidTrackQuality):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrDispatchUnavailable):
		return status.Error(codes.Unavailable, err.Error())

	case errors.Is(err, ErrFailedToAddTrack),
		errors.Is(err, ErrFailedToRenegotiate),
		errors.Is(err, ErrFailedToMigrateConnection):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
