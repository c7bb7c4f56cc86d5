package services

import (
	"context"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/models"
	"go.uber.org/zap"
)

type syncJob struct {
	revision uint64
	payload  models.CartPayload
}

// CartSyncer mirrors cart snapshots to the remote API on a single worker
// goroutine. Only the newest queued snapshot is kept: pushes are sent one at a
// time in revision order and an older revision is never sent after a newer one.
// Failures are logged and dropped without retry.
type CartSyncer struct {
	client CartAPIClient
	logger *zap.SugaredLogger

	mu       sync.Mutex
	pending  *syncJob
	lastSent uint64
	closed   bool

	wake   chan struct{}
	stop   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewCartSyncer(client CartAPIClient, logger *zap.SugaredLogger) *CartSyncer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &CartSyncer{
		client: client,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go s.run()
	return s
}

// Enqueue schedules payload for upload. It never blocks.
func (s *CartSyncer) Enqueue(revision uint64, payload models.CartPayload) {
	s.mu.Lock()
	if s.closed || revision <= s.lastSent {
		s.mu.Unlock()
		return
	}
	if s.pending == nil || revision > s.pending.revision {
		s.pending = &syncJob{revision: revision, payload: payload}
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting work, lets the worker send the last pending snapshot
// and waits for it. When ctx ends first the in-flight request is cancelled.
func (s *CartSyncer) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)

	select {
	case <-s.done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.done
		return ctx.Err()
	}
}

func (s *CartSyncer) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *CartSyncer) drain() {
	for {
		job := s.take()
		if job == nil {
			return
		}
		if err := s.client.PushCart(s.ctx, job.payload); err != nil {
			s.logger.Warnf("CartSyncer.push: revision %d not mirrored: %v", job.revision, err)
		}
	}
}

func (s *CartSyncer) take() *syncJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.pending
	s.pending = nil
	if job != nil {
		s.lastSent = job.revision
	}
	return job
}
