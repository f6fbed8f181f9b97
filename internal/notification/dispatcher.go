package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const deliverTimeout = 10 * time.Second

// Dispatcher fans events out to sinks on a fixed pool of workers.
// Publish never blocks: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	queue chan Event
	sinks []Sink
	log   *zap.Logger

	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

func NewDispatcher(log *zap.Logger, workers, buffer int, sinks ...Sink) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		queue: make(chan Event, buffer),
		sinks: sinks,
		log:   log,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("notification dropped after shutdown", zap.String("type", string(ev.Type)))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("notification queue full, event dropped", zap.String("type", string(ev.Type)))
	}
}

// Close stops accepting events and waits for queued ones to be delivered or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		for _, s := range d.sinks {
			d.deliver(s, ev)
		}
	}
}

func (d *Dispatcher) deliver(s Sink, ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification sink panicked",
				zap.String("sink", s.Name()),
				zap.String("type", string(ev.Type)),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := s.Deliver(ctx, ev); err != nil {
		d.log.Warn("notification delivery failed",
			zap.String("sink", s.Name()),
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
	}
}
