package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recorder struct {
	events []string
	waits  []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	r.events = append(r.events, "wait")
	return nil
}

func (r *recorder) task(name string, paced bool) Task {
	return func(ctx context.Context) bool {
		r.events = append(r.events, name)
		return paced
	}
}

func TestPacer_DelayOnlyBetweenPacedTasks(t *testing.T) {
	rec := &recorder{}
	p := New(time.Second).WithSleep(rec.sleep)
	defer p.Close()

	ctx := context.Background()
	tasks := []Task{
		rec.task("a", true),
		rec.task("b", false),
		rec.task("c", true),
		rec.task("d", true),
	}
	for _, task := range tasks {
		if err := p.Do(ctx, task); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}

	want := []string{"a", "wait", "b", "c", "wait", "d"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
	for _, w := range rec.waits {
		if w != time.Second {
			t.Errorf("wait = %v, want 1s", w)
		}
	}
}

func TestPacer_NoWaitAfterLastTask(t *testing.T) {
	rec := &recorder{}
	p := New(time.Second).WithSleep(rec.sleep)
	defer p.Close()

	if err := p.Do(context.Background(), rec.task("only", true)); err != nil {
		t.Fatal(err)
	}
	if len(rec.waits) != 0 {
		t.Errorf("expected no waits, got %v", rec.waits)
	}
}

func TestPacer_ZeroDelay(t *testing.T) {
	rec := &recorder{}
	p := New(0).WithSleep(rec.sleep)
	defer p.Close()

	for i := 0; i < 3; i++ {
		if err := p.Do(context.Background(), rec.task("x", true)); err != nil {
			t.Fatal(err)
		}
	}
	if len(rec.waits) != 0 {
		t.Errorf("zero delay should never wait, got %v", rec.waits)
	}
}

func TestPacer_CancelledWhileWaiting(t *testing.T) {
	p := New(time.Hour)
	defer p.Close()

	ran := 0
	task := func(ctx context.Context) bool {
		ran++
		return true
	}

	if err := p.Do(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Do(ctx, task)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if ran != 1 {
		t.Errorf("task must not run after cancellation, ran %d times", ran)
	}
}

func TestPacer_CancelledBeforeStart(t *testing.T) {
	p := New(0)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func(ctx context.Context) bool {
		t.Error("task should not run")
		return false
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Sleep returned early")
	}
}
