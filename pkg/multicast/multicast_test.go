package multicast

import (
	"testing"

	"github.com/waterbus-go/sfu/pkg/quality"
)

func TestSenderDeliversToRegisteredQualityOnly(t *testing.T) {
	s := NewSender[int]()
	low := s.AddReceiver(quality.Low, "sub-1")
	high := s.AddReceiver(quality.High, "sub-1")

	s.Send(quality.Low, 42)

	select {
	case v := <-low:
		if v != 42 {
			t.Fatalf("got %d, want 42", v)
		}
	default:
		t.Fatal("expected low receiver to get the packet")
	}

	select {
	case v := <-high:
		t.Fatalf("high receiver should not have received anything, got %d", v)
	default:
	}
}

func TestSenderDropsWhenReceiverFull(t *testing.T) {
	s := NewSender[int]()
	ch := s.AddReceiver(quality.Medium, "sub-1")

	s.Send(quality.Medium, 1)
	s.Send(quality.Medium, 2) // receiver hasn't drained yet, must not block

	if v := <-ch; v != 1 {
		t.Fatalf("got %d, want 1 (oldest buffered value)", v)
	}
}

func TestRemoveReceiverStopsDelivery(t *testing.T) {
	s := NewSender[int]()
	ch := s.AddReceiver(quality.High, "sub-1")
	s.RemoveReceiver(quality.High, "sub-1")

	s.Send(quality.High, 7)

	select {
	case v := <-ch:
		t.Fatalf("removed receiver should not get packets, got %d", v)
	default:
	}
}
