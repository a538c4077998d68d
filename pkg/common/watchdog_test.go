package common_test

import (
	"testing"
	"time"

	"github.com/waterbus-go/sfu/pkg/common"
)

func TestWatchdogNotifyPreventsTimeout(t *testing.T) {
	timedOut := make(chan struct{})
	wd := (&common.WatchdogConfig{
		Timeout: 50 * time.Millisecond,
		OnTimeout: func() {
			close(timedOut)
		},
	}).Start()
	defer wd.Close()

	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		if !wd.Notify() {
			t.Fatal("Notify should succeed before Close")
		}
	}

	select {
	case <-timedOut:
		t.Fatal("should not time out while being notified")
	default:
	}
}

func TestWatchdogFiresOnTimeout(t *testing.T) {
	timedOut := make(chan struct{})
	wd := (&common.WatchdogConfig{
		Timeout: 10 * time.Millisecond,
		OnTimeout: func() {
			close(timedOut)
		},
	}).Start()
	defer wd.Close()

	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("OnTimeout should have fired")
	}
}

func TestWatchdogCloseStopsNotify(t *testing.T) {
	wd := (&common.WatchdogConfig{
		Timeout:   time.Second,
		OnTimeout: func() {},
	}).Start()

	wd.Close()
	if wd.Notify() {
		t.Fatal("Notify should fail after Close")
	}
	wd.Close() // idempotent
}
