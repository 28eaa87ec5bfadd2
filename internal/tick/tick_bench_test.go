package tick_test

import (
	"testing"
	"time"

	"github.com/randomizedcoder/boundedqueue/internal/tick"
)

// Long interval so Tick() returns false (we're measuring check overhead)
const benchInterval = time.Hour

// Sink variable to prevent compiler from eliminating benchmark loops
var sinkTick bool

func benchmarkKinds(b *testing.B, run func(b *testing.B, t tick.Ticker)) {
	for _, kind := range []tick.Kind{tick.KindStd, tick.KindAtomic, tick.KindBatch} {
		b.Run(string(kind), func(b *testing.B) {
			t, err := tick.New(kind, benchInterval)
			if err != nil {
				b.Fatal(err)
			}
			defer t.Stop()
			b.ReportAllocs()
			b.ResetTimer()
			run(b, t)
		})
	}
}

func BenchmarkTick(b *testing.B) {
	benchmarkKinds(b, func(b *testing.B, t tick.Ticker) {
		var result bool
		for i := 0; i < b.N; i++ {
			result = t.Tick()
		}
		sinkTick = result
	})
}

// Shared ticker polled by every worker, as the pool does.
func BenchmarkTick_Parallel(b *testing.B) {
	benchmarkKinds(b, func(b *testing.B, t tick.Ticker) {
		b.RunParallel(func(pb *testing.PB) {
			var result bool
			for pb.Next() {
				result = t.Tick()
			}
			sinkTick = result
		})
	})
}

func BenchmarkTick_Reset(b *testing.B) {
	benchmarkKinds(b, func(b *testing.B, t tick.Ticker) {
		for i := 0; i < b.N; i++ {
			t.Reset()
		}
	})
}
