package common_test

import (
	"testing"
	"time"

	"github.com/waterbus-go/sfu/pkg/common"
)

func BenchmarkWorker_Send(b *testing.B) {
	workerConfig := common.WorkerConfig[struct{}]{
		Timeout:   2 * time.Second,
		OnTimeout: func() {},
		OnTask:    func(struct{}) {},
	}
	w := common.StartWorker(workerConfig)

	// Run the Send method b.N times.
	for n := 0; n < b.N; n++ {
		w.Send(struct{}{})
	}

	w.Stop()
}
