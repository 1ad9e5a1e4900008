package cronrunner

import (
	"context"
	"testing"
	"time"
)

func TestAdd_RejectsBadSpec(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)
	if _, err := r.Add("not a spec", func(context.Context) {}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAdd_WallClockAlignedRefresh(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)
	id, err := r.Add("0 */20 * * * *", func(context.Context) {})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	r.Start()
	defer r.Stop()

	next := r.Next(id)
	if next.IsZero() {
		t.Fatalf("next activation is zero")
	}
	if m := next.Minute(); m != 0 && m != 20 && m != 40 {
		t.Fatalf("next minute=%d want 0/20/40", m)
	}
	if next.Second() != 0 {
		t.Fatalf("next second=%d want 0", next.Second())
	}
}

func TestAdd_RunsJobWithBaseContext(t *testing.T) {
	type key struct{}
	base := context.WithValue(context.Background(), key{}, "v")
	r := New(nil, base, time.UTC)
	got := make(chan any, 1)
	if _, err := r.Add("@every 1s", func(ctx context.Context) {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
	}); err != nil {
		t.Fatalf("err=%v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "v" {
			t.Fatalf("ctx value=%v want=v", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}
