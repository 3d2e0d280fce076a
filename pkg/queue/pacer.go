package queue

import (
	"context"
	"time"

	"github.com/Jeffail/tunny"
)

// Task is one unit of work. Returning paced=true makes the next task wait for the delay.
type Task func(ctx context.Context) (paced bool)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer is a capacity-1 task queue with a fixed delay between paced tasks.
// A delay is owed after a paced task and paid before the next one, so the
// last task of a batch never waits.
type Pacer struct {
	pool  *tunny.Pool
	delay time.Duration
	sleep SleepFunc

	// only touched from the single worker
	owed bool
}

type job struct {
	ctx  context.Context
	task Task
}

type outcome struct {
	err error
}

// New creates a pacer backed by a single tunny worker
func New(delay time.Duration) *Pacer {
	p := &Pacer{
		delay: delay,
		sleep: Sleep,
	}
	p.pool = tunny.NewFunc(1, p.work)
	return p
}

// WithSleep replaces the wait function, used by tests
func (p *Pacer) WithSleep(fn SleepFunc) *Pacer {
	p.sleep = fn
	return p
}

// Delay returns the configured delay
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Do blocks until task ran. If ctx is cancelled while the owed delay is
// being paid, task is not run and ctx.Err() is returned.
func (p *Pacer) Do(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := p.pool.Process(&job{ctx: ctx, task: task})
	return res.(*outcome).err
}

// Close stops the worker
func (p *Pacer) Close() {
	p.pool.Close()
}

func (p *Pacer) work(payload interface{}) interface{} {
	j := payload.(*job)

	if p.owed && p.delay > 0 {
		if err := p.sleep(j.ctx, p.delay); err != nil {
			return &outcome{err: err}
		}
	}

	p.owed = j.task(j.ctx)
	return &outcome{}
}

// Sleep is the default SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
