package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BatchInserter is the interface used by Recorder to persist entries.
// It exists to allow testing without a real database.
type BatchInserter interface {
	BatchInsert(ctx context.Context, entries []Entry) error
}

// Recorder buffers activity entries in memory and periodically flushes them
// to the store in batches. Activity logging is best-effort: entries that fail
// to flush are logged and dropped, and recording never blocks or fails the
// request that produced it. Safe for concurrent use.
type Recorder struct {
	store         BatchInserter
	buffer        []Entry
	mu            sync.Mutex
	batchSize     int
	flushInterval time.Duration
	done          chan struct{}
	stopOnce      sync.Once

	// Optional instrumentation hooks. Set before Start; invoked outside the
	// buffer lock.
	OnRecord func(buffered int)
	OnFlush  func(count int, took time.Duration, err error)
}

// NewRecorder creates a Recorder that flushes to the given store when the
// buffer reaches batchSize or every flushInterval, whichever comes first.
func NewRecorder(store BatchInserter, batchSize int, flushInterval time.Duration) *Recorder {
	return &Recorder{
		store:         store,
		buffer:        make([]Entry, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}
}

// Start begins a background goroutine that flushes buffered entries on a
// timer. It blocks until Stop is called or the context is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-ctx.Done():
			r.flush()
			return
		case <-r.done:
			r.flush()
			return
		}
	}
}

// Record adds an entry to the buffer, stamping created_at if unset. If the
// buffer reaches batchSize, a flush is triggered immediately.
func (r *Recorder) Record(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	r.mu.Lock()
	r.buffer = append(r.buffer, e)
	buffered := len(r.buffer)
	r.mu.Unlock()

	if r.OnRecord != nil {
		r.OnRecord(buffered)
	}
	if buffered >= r.batchSize {
		r.flush()
	}
}

// flush drains all buffered entries and writes them to the store. Errors are
// logged rather than returned so callers are never blocked.
func (r *Recorder) flush() {
	r.mu.Lock()
	if len(r.buffer) == 0 {
		r.mu.Unlock()
		return
	}
	batch := r.buffer
	r.buffer = make([]Entry, 0, r.batchSize)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	err := r.store.BatchInsert(ctx, batch)
	if err != nil {
		slog.Error("failed to flush activity entries", "count", len(batch), "error", err)
	}
	if r.OnFlush != nil {
		r.OnFlush(len(batch), time.Since(start), err)
	}
}

// Stop signals the background goroutine to exit and performs a final flush.
// Calling Stop more than once is safe.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}
