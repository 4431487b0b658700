package queue

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/core/ports"
)

type recordingDeliverer struct {
	mu      sync.Mutex
	notices []ports.PasswordResetNotice
	done    chan struct{}
}

func (r *recordingDeliverer) Deliver(_ context.Context, n ports.PasswordResetNotice) error {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestDispatcher_DeliversInOrderPerEmail(t *testing.T) {
	rec := &recordingDeliverer{done: make(chan struct{}, 8)}
	d := NewDispatcher(3, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, pw := range []string{"111111", "222222", "333333"} {
		d.NotifyPasswordReset(ports.PasswordResetNotice{Email: "a@b.com", NewPassword: pw})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-rec.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d", i)
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, want := range []string{"111111", "222222", "333333"} {
		if rec.notices[i].NewPassword != want {
			t.Fatalf("notice %d: expected %s, got %s", i, want, rec.notices[i].NewPassword)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, NewLogDeliverer(zerolog.Nop()), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("a@b.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("a@b.com") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
}

func TestLogDeliverer_WritesNewPassword(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDeliverer(zerolog.New(&buf))

	if err := d.Deliver(context.Background(), ports.PasswordResetNotice{Email: "a@b.com", NewPassword: "123456"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "New password for a@b.com: 123456") {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}
