package authcore

import (
	"context"
	"sync"
)

// auditDispatcher decouples engine operations from sink latency: Emit hands
// the event to a buffered queue and a single worker goroutine feeds the
// sink. Dropped events are counted per event type so a saturated sink shows
// up as numbers, not silence.
type auditDispatcher struct {
	cfg   AuditConfig
	sink  AuditSink
	queue chan AuditEvent
	done  chan struct{}
	wg    sync.WaitGroup

	mu            sync.Mutex
	closed        bool
	dropped       uint64
	droppedByType map[string]uint64

	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:           cfg,
		sink:          sink,
		queue:         make(chan AuditEvent, cfg.BufferSize),
		done:          make(chan struct{}),
		droppedByType: make(map[string]uint64),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			d.drain()
			return
		}
	}
}

// drain flushes whatever is already buffered. Emit refuses new events once
// done is closed, so this terminates.
func (d *auditDispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil {
		return
	}
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		case <-d.done:
		default:
			d.recordDrop(event.EventType)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

func (d *auditDispatcher) recordDrop(eventType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropped++
	d.droppedByType[eventType]++
}

func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.done)
		d.wg.Wait()
	})
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// DroppedByType returns a copy of the per-event-type drop counters.
func (d *auditDispatcher) DroppedByType() map[string]uint64 {
	out := make(map[string]uint64)
	if d == nil {
		return out
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for eventType, n := range d.droppedByType {
		out[eventType] = n
	}
	return out
}
