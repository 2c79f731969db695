package infra

import (
	"context"
	"testing"
	"time"
)

func TestChanPool_BlocksAtCapacityUntilRelease(t *testing.T) {
	p := NewChanPool(1)

	release, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := p.Acquire(ctx); ok {
		t.Fatalf("expected second acquire to time out")
	}

	release()
	release() // idempotente

	r2, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
	r2()

	// o release duplicado não liberou uma vaga extra
	r3, _ := p.Acquire(context.Background())
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel2()
	if _, ok := p.Acquire(ctx2); ok {
		t.Fatalf("expected pool to stay at capacity 1")
	}
	r3()
}
