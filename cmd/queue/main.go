// Command queue measures producer/consumer throughput of the blocking
// queue against a buffered channel and a sharded lock-free ring.
//
// Usage:
//
//	go run ./cmd/queue -n 1000000 -size 1024 -producers 4 -consumers 4
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/boundedqueue/internal/queue"
)

type result struct {
	name string
	dur  time.Duration
}

func main() {
	items := flag.Int("n", 1_000_000, "items per producer")
	size := flag.Int("size", 1024, "queue capacity")
	producers := flag.Int("producers", 4, "producer goroutines")
	consumers := flag.Int("consumers", 4, "consumer goroutines (MPMC runs)")
	flag.Parse()

	if *items <= 0 || *size <= 0 || *producers <= 0 || *consumers <= 0 {
		fmt.Fprintln(os.Stderr, "error: -n, -size, -producers and -consumers must be positive")
		os.Exit(2)
	}

	total := *items * *producers

	fmt.Printf("Benchmarking bounded queues (%d producers x %d items, size=%d)\n", *producers, *items, *size)
	fmt.Println("─────────────────────────────────────────────────────────")

	mpmc := []result{
		{"Channel", runChannel(*items, *size, *producers, *consumers)},
		{"BlockingQueue", runBlockingQueue(*items, *size, *producers, *consumers)},
	}
	mpsc := []result{
		{"Channel", runChannel(*items, *size, *producers, 1)},
		{"BlockingQueue", runBlockingQueue(*items, *size, *producers, 1)},
		{"ShardedRing", runShardedRing(*items, *producers)},
	}

	fmt.Printf("\nMPMC (%d producers → %d consumers):\n", *producers, *consumers)
	report(mpmc, total)

	fmt.Printf("\nMPSC (%d producers → 1 consumer):\n", *producers)
	report(mpsc, total)
}

func report(results []result, total int) {
	baseline := float64(results[0].dur.Nanoseconds()) / float64(total)
	for _, r := range results {
		perOp := float64(r.dur.Nanoseconds()) / float64(total)
		fmt.Printf("  %-15s %12v  %8.2f ns/item  %6.2fx  %8.2f M items/s\n",
			r.name, r.dur, perOp, baseline/perOp, 1000/perOp)
	}
}

func runChannel(items, size, producers, consumers int) time.Duration {
	ch := make(chan int, size)

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for range ch {
			}
		}()
	}

	start := time.Now()
	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func() {
			defer pwg.Done()
			for i := 0; i < items; i++ {
				ch <- i
			}
		}()
	}
	pwg.Wait()
	close(ch)
	cwg.Wait()
	return time.Since(start)
}

func runBlockingQueue(items, size, producers, consumers int) time.Duration {
	q := queue.New[int](size)

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				if _, ok := q.Pop(); !ok {
					return
				}
			}
		}()
	}

	start := time.Now()
	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func() {
			defer pwg.Done()
			for i := 0; i < items; i++ {
				q.Push(i)
			}
		}()
	}
	pwg.Wait()
	q.Abort()
	cwg.Wait()
	elapsed := time.Since(start)

	q.Release()
	return elapsed
}

const (
	ringCapacity = 8192
	ringShards   = 8
)

// runShardedRing maps producers onto a fixed set of shards. The ring
// never blocks, so producers spin on a full shard; the consumer spins
// until the producers are done, so this measures production rate.
func runShardedRing(items, producers int) time.Duration {
	r, err := ring.NewShardedRing(ringCapacity, ringShards)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				r.TryRead()
			}
		}
	}()

	start := time.Now()
	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(pid uint64) {
			defer pwg.Done()
			for i := 0; i < items; i++ {
				for !r.Write(pid, i) {
				}
			}
		}(uint64(p % ringShards))
	}
	pwg.Wait()
	elapsed := time.Since(start)

	close(stop)
	<-done
	return elapsed
}
