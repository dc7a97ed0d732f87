// Package reveal implements the typewriter effect used to display review
// feedback: the source text is shown one character per tick.
package reveal

import (
	"context"
	"io"
	"sync"
	"time"
)

// DefaultInterval is the tick used when none is configured.
const DefaultInterval = 10 * time.Millisecond

type State int

const (
	Idle State = iota
	Revealing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Typewriter reveals one text at a time. Setting a new text cancels the
// running ticker before a new one starts, so at most one is ever active.
//
// OnUpdate, when set, is called with the displayed text after every change.
// It runs while the Typewriter's lock is held and must not call back into it.
type Typewriter struct {
	interval time.Duration
	onUpdate func(displayed string)

	mu         sync.Mutex
	source     []rune
	shown      int
	state      State
	generation uint64
	stop       chan struct{}
	done       chan struct{}
	doneClosed bool
}

func New(interval time.Duration, onUpdate func(displayed string)) *Typewriter {
	if interval <= 0 {
		interval = DefaultInterval
	}

	done := make(chan struct{})
	close(done)

	return &Typewriter{
		interval:   interval,
		onUpdate:   onUpdate,
		state:      Idle,
		done:       done,
		doneClosed: true,
	}
}

// SetText restarts the reveal from the first character of text. An empty
// text leaves the Typewriter idle with nothing displayed.
func (t *Typewriter) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.generation++
	t.source = []rune(text)
	t.shown = 0
	t.done = make(chan struct{})
	t.doneClosed = false
	t.notifyLocked()

	if len(t.source) == 0 {
		t.state = Idle
		t.closeDoneLocked()
		return
	}

	t.state = Revealing
	stop := make(chan struct{})
	t.stop = stop
	go t.run(t.generation, stop)
}

// Stop cancels an in-progress reveal, leaving the partial text displayed.
func (t *Typewriter) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	if t.state == Revealing {
		t.state = Idle
	}
	t.closeDoneLocked()
}

func (t *Typewriter) Displayed() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.source[:t.shown])
}

func (t *Typewriter) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed when the current reveal finishes or is stopped.
func (t *Typewriter) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Typewriter) run(generation uint64, stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !t.tick(generation) {
				return
			}
		}
	}
}

// tick appends the next character. It reports whether more ticks are needed.
func (t *Typewriter) tick(generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation || t.state != Revealing {
		return false
	}

	t.shown++
	t.notifyLocked()

	if t.shown >= len(t.source) {
		t.state = Done
		t.stop = nil
		t.closeDoneLocked()
		return false
	}
	return true
}

func (t *Typewriter) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Typewriter) closeDoneLocked() {
	if !t.doneClosed {
		close(t.done)
		t.doneClosed = true
	}
}

func (t *Typewriter) notifyLocked() {
	if t.onUpdate != nil {
		t.onUpdate(string(t.source[:t.shown]))
	}
}

// Write reveals text on w and returns once every character has been written
// or ctx is done.
func Write(ctx context.Context, w io.Writer, text string, interval time.Duration) error {
	var (
		written  int
		writeErr error
	)

	tw := New(interval, func(displayed string) {
		if writeErr != nil || len(displayed) <= written {
			return
		}
		_, writeErr = io.WriteString(w, displayed[written:])
		written = len(displayed)
	})

	tw.SetText(text)

	select {
	case <-tw.Done():
	case <-ctx.Done():
		tw.Stop()
		return ctx.Err()
	}

	// writeErr is only touched under the Typewriter lock.
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return writeErr
}
