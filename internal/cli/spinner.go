package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames are the braille animation frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows a progress indicator on stderr until stopped or until its
// context is cancelled.
type Spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
}

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		parent:  ctx,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Update replaces the message shown next to the animation.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pad := len(s.message) - len(message)
	s.message = message
	if pad > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", len(message)+pad+4))
	}
}

// Stop stops the spinner and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
	<-s.stopped
	s.cancel()
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context the spinner was created with was
// cancelled. Stopping the spinner does not count.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
