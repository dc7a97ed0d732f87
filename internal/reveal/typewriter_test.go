package reveal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	updates []string
}

func (r *recorder) record(displayed string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, displayed)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.updates...)
}

func waitDone(t *testing.T, tw *Typewriter) {
	t.Helper()
	select {
	case <-tw.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("reveal did not finish, displayed %q", tw.Displayed())
	}
}

func TestTypewriter_RevealsOneCharacterPerTick(t *testing.T) {
	rec := &recorder{}
	tw := New(time.Millisecond, rec.record)
	assert.Equal(t, Idle, tw.State())

	text := "Strong résumé ✓"
	tw.SetText(text)
	waitDone(t, tw)

	assert.Equal(t, Done, tw.State())
	assert.Equal(t, text, tw.Displayed())

	updates := rec.snapshot()
	runes := []rune(text)
	require.Len(t, updates, len(runes)+1)
	for i, displayed := range updates {
		assert.Equal(t, string(runes[:i]), displayed, "update %d", i)
	}
}

func TestTypewriter_DisplayedIsAlwaysPrefix(t *testing.T) {
	tw := New(time.Millisecond, nil)
	text := "Add measurable outcomes to each role."
	tw.SetText(text)

	for tw.State() == Revealing {
		displayed := tw.Displayed()
		assert.True(t, strings.HasPrefix(text, displayed), "%q is not a prefix", displayed)
		assert.Less(t, len(displayed), len(text)+1)
		time.Sleep(200 * time.Microsecond)
	}

	waitDone(t, tw)
	assert.Equal(t, text, tw.Displayed())
}

func TestTypewriter_RestartOnNewText(t *testing.T) {
	rec := &recorder{}
	tw := New(2*time.Millisecond, rec.record)

	first := strings.Repeat("x", 500)
	second := "yyyyyyyyyy"

	tw.SetText(first)
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, Revealing, tw.State())

	tw.SetText(second)
	assert.Equal(t, "", tw.Displayed())
	waitDone(t, tw)

	updates := rec.snapshot()
	reset := -1
	for i, displayed := range updates {
		if displayed == "" {
			reset = i
		}
	}
	require.Greater(t, reset, 0)

	for _, displayed := range updates[:reset] {
		assert.True(t, strings.HasPrefix(first, displayed))
	}
	for _, displayed := range updates[reset:] {
		assert.True(t, strings.HasPrefix(second, displayed), "%q leaked into the second reveal", displayed)
	}
	assert.Equal(t, second, tw.Displayed())
}

func TestTypewriter_RestartAfterDone(t *testing.T) {
	tw := New(time.Millisecond, nil)

	tw.SetText("first")
	waitDone(t, tw)
	assert.Equal(t, "first", tw.Displayed())

	tw.SetText("second")
	assert.Equal(t, Revealing, tw.State())
	assert.Equal(t, "", tw.Displayed())
	waitDone(t, tw)
	assert.Equal(t, "second", tw.Displayed())
}

func TestTypewriter_EmptyTextStaysIdle(t *testing.T) {
	tw := New(time.Millisecond, nil)
	tw.SetText("")

	waitDone(t, tw)
	assert.Equal(t, Idle, tw.State())
	assert.Equal(t, "", tw.Displayed())
}

func TestTypewriter_Stop(t *testing.T) {
	tw := New(5*time.Millisecond, nil)
	tw.SetText(strings.Repeat("a", 1000))
	time.Sleep(20 * time.Millisecond)

	tw.Stop()
	waitDone(t, tw)
	assert.Equal(t, Idle, tw.State())

	partial := tw.Displayed()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, partial, tw.Displayed())
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, "Looks great overall.", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "Looks great overall.", buf.String())
}

func TestWrite_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := Write(ctx, &buf, strings.Repeat("a", 1000), 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
