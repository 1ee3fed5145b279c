package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/hbelo/internal/adapters/mq/queue"
	worker "github.com/okian/hbelo/internal/adapters/mq/worker"
	logging "github.com/okian/hbelo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockProcessor struct {
	mu      sync.Mutex
	seen    map[string]int
	errors  map[string]error
	running int
	peak    int
	delay   time.Duration
}

func newMockProcessor() *mockProcessor {
	return &mockProcessor{seen: map[string]int{}, errors: map[string]error{}}
}

func (mp *mockProcessor) Process(ctx context.Context, league string) error {
	mp.mu.Lock()
	mp.running++
	mp.peak = max(mp.peak, mp.running)
	err := mp.errors[league]
	mp.mu.Unlock()

	time.Sleep(mp.delay)

	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.running--
	if err != nil {
		return err
	}
	mp.seen[league]++
	return nil
}

func (mp *mockProcessor) count(league string) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.seen[league]
}

func submit(ctx context.Context, q queue.Queue, leagues ...string) []chan error {
	out := make([]chan error, len(leagues))
	for i, l := range leagues {
		out[i] = make(chan error, 1)
		convey.So(q.Enqueue(ctx, queue.Job{League: l, Requested: time.Now(), Done: out[i]}), convey.ShouldBeTrue)
	}
	return out
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue()
		proc := newMockProcessor()
		w := worker.NewInMemoryWorker(q, proc, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is queued", func() {
			done := submit(ctx, q, "herreligaen")

			convey.Convey("Then it is processed and reported", func() {
				convey.So(<-done[0], convey.ShouldBeNil)
				convey.So(proc.count("herreligaen"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When processing fails", func() {
			boom := errors.New("source unavailable")
			proc.errors["kvindeligaen"] = boom
			done := submit(ctx, q, "kvindeligaen")

			convey.Convey("Then the error is reported with the league", func() {
				err := <-done[0]
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "kvindeligaen")
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully, twice", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of three workers", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		proc := newMockProcessor()
		proc.delay = 20 * time.Millisecond
		pool := worker.NewPool(3, q, proc)
		convey.So(pool.Size(), convey.ShouldEqual, 3)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When several leagues are queued", func() {
			leagues := []string{"a", "b", "c", "d", "e", "f"}
			done := submit(ctx, q, leagues...)
			for _, d := range done {
				convey.So(<-d, convey.ShouldBeNil)
			}

			convey.Convey("Then each runs once and at most three run together", func() {
				for _, l := range leagues {
					convey.So(proc.count(l), convey.ShouldEqual, 1)
				}
				proc.mu.Lock()
				peak := proc.peak
				proc.mu.Unlock()
				convey.So(peak, convey.ShouldBeBetweenOrEqual, 1, 3)
			})
		})

		convey.Convey("When shutting down with jobs still queued", func() {
			done := submit(ctx, q, "x", "y")
			err := pool.Shutdown(context.Background())

			convey.Convey("Then the queue is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(<-done[0], convey.ShouldBeNil)
				convey.So(<-done[1], convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("A pool with a non-positive count uses one worker per CPU", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), worker.ProcessorFunc(func(context.Context, string) error { return nil }))
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
