package output

import (
	"fmt"
	"sync"
	"time"
)

// Spinner shows a spinning progress indicator
type Spinner struct {
	formatter *Formatter
	frames    []string

	mu      sync.Mutex
	message string
	done    chan struct{}
	wg      sync.WaitGroup
}

// Start begins the spinner animation. Calling Start on a running spinner
// does nothing.
func (s *Spinner) Start() {
	if s.formatter.level == LevelQuiet {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.done)
}

func (s *Spinner) run(done <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	current := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := s.formatter.colorize(s.frames[current], s.formatter.theme.Primary, StyleNormal)
			fmt.Fprintf(s.formatter.writer, "\r%s %s", frame, s.message)
			s.mu.Unlock()
			current = (current + 1) % len(s.frames)
		}
	}
}

// Stop ends the spinner animation and clears its line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	s.wg.Wait()
	fmt.Fprint(s.formatter.writer, "\r\033[K")
}

// Update changes the spinner message
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}
