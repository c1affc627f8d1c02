package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/huncholane/dothub/internal/ui/styles"
)

// Indicator redraws a single "<frame> <message>" status line until stopped.
//
// Unlike Spinner it does not start a Bubble Tea program: it only writes to
// its own writer and never reads the terminal, so it is safe to run while
// other goroutines make network calls.
type Indicator struct {
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration

	mu      sync.Mutex // serialises writes to w
	started atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
}

// NewIndicator creates an indicator drawing the spinner.Line frames on w.
func NewIndicator(w io.Writer, message string) *Indicator {
	return &Indicator{
		w:        w,
		message:  message,
		frames:   spinner.Line.Frames,
		interval: spinner.Line.FPS,
		done:     make(chan struct{}),
	}
}

// Start launches the drawing goroutine. Calling it more than once, or after
// Stop, does nothing.
func (i *Indicator) Start() {
	if i.stopped.Load() || !i.started.CompareAndSwap(false, true) {
		return
	}
	go i.run()
}

func (i *Indicator) run() {
	defer close(i.done)

	glyph := lipgloss.NewStyle().Foreground(styles.Accent)
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	for n := 0; ; n++ {
		if i.stopped.Load() {
			return
		}
		i.mu.Lock()
		fmt.Fprintf(i.w, "\r%s %s", glyph.Render(i.frames[n%len(i.frames)]), i.message)
		i.mu.Unlock()
		<-ticker.C
	}
}

// Stop ends the animation and moves to a fresh line. Safe to call more
// than once.
func (i *Indicator) Stop() {
	if i.stopped.Swap(true) || !i.started.Load() {
		return
	}

	select {
	case <-i.done:
	case <-time.After(500 * time.Millisecond):
	}

	i.mu.Lock()
	fmt.Fprintln(i.w)
	i.mu.Unlock()
}
