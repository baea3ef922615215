package middleware

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const DefaultMaxStreams = 16

// ConcurrencyLimiter bounds the number of ReadRange streams a storage node
// serves at once. Callers over the limit wait for a free slot until their
// context ends.
type ConcurrencyLimiter struct {
	max       int
	semaphore chan struct{}

	stats struct {
		active  int
		waiting int
		total   int64
		mutex   sync.RWMutex
	}
}

func NewConcurrencyLimiter(maxStreams int) *ConcurrencyLimiter {
	if maxStreams <= 0 {
		maxStreams = DefaultMaxStreams
	}
	return &ConcurrencyLimiter{
		max:       maxStreams,
		semaphore: make(chan struct{}, maxStreams),
	}
}

// StreamServerInterceptor limits server streams. Unary calls (Stat) are cheap
// and pass straight through.
func (cl *ConcurrencyLimiter) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		release, err := cl.acquire(ss.Context())
		if err != nil {
			return status.FromContextError(err).Err()
		}
		defer release()

		return handler(srv, ss)
	}
}

func (cl *ConcurrencyLimiter) acquire(ctx context.Context) (func(), error) {
	select {
	case cl.semaphore <- struct{}{}:
	default:
		cl.updateWaiting(1)
		select {
		case cl.semaphore <- struct{}{}:
			cl.updateWaiting(-1)
		case <-ctx.Done():
			cl.updateWaiting(-1)
			return nil, ctx.Err()
		}
	}

	cl.updateActive(1)
	return func() {
		<-cl.semaphore
		cl.updateActive(-1)
	}, nil
}

func (cl *ConcurrencyLimiter) updateActive(delta int) {
	cl.stats.mutex.Lock()
	defer cl.stats.mutex.Unlock()

	cl.stats.active += delta
	if delta > 0 {
		cl.stats.total++
	}
}

func (cl *ConcurrencyLimiter) updateWaiting(delta int) {
	cl.stats.mutex.Lock()
	defer cl.stats.mutex.Unlock()

	cl.stats.waiting += delta
}

func (cl *ConcurrencyLimiter) GetStats() (active, waiting int, total int64) {
	cl.stats.mutex.RLock()
	defer cl.stats.mutex.RUnlock()

	return cl.stats.active, cl.stats.waiting, cl.stats.total
}

func (cl *ConcurrencyLimiter) GetStatsString() string {
	active, waiting, total := cl.GetStats()
	return fmt.Sprintf("ReadRange: %d/%d active, %d waiting, %d total", active, cl.max, waiting, total)
}
