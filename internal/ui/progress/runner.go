package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// stopTimeout bounds how long stop waits for the program to exit.
const stopTimeout = 500 * time.Millisecond

// runner owns the Bubble Tea program behind Spinner and ProgressBar. The
// program only renders; it never reads the terminal.
type runner struct {
	out io.Writer

	mu      sync.Mutex
	program *tea.Program
	running bool
	done    chan struct{}
}

// start runs the model returned by build. build is called with the lock
// held, so it may read state that idle callbacks of send write.
// A runner starts at most once.
func (r *runner) start(build func() tea.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		return
	}

	r.program = tea.NewProgram(build(),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(r.out),
	)
	r.running = true
	r.done = make(chan struct{})

	go func() {
		_, _ = r.program.Run()
		close(r.done)
	}()
}

// send delivers msg to the running program. When nothing is running idle is
// called instead, under the lock.
func (r *runner) send(msg tea.Msg, idle func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		idle()
		return
	}
	r.program.Send(msg)
}

// stop quits the program and clears the line it drew on.
func (r *runner) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.program.Quit()
	select {
	case <-r.done:
	case <-time.After(stopTimeout):
	}

	fmt.Fprint(r.out, "\r\033[K")
}
