// Package terminal owns the tcell screen lifecycle and turns terminal key
// presses into input events for the frame loop.
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/core"
	"github.com/lixenwraith/vi-drive/parameter"
)

// Service manages the screen and its event polling goroutine
type Service struct {
	screen  tcell.Screen
	eventCh chan tcell.Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
	log     zerolog.Logger
}

// NewService wraps screen; a nil screen opens the controlling terminal on Init
func NewService(screen tcell.Screen, log zerolog.Logger) *Service {
	return &Service{
		screen:  screen,
		eventCh: make(chan tcell.Event, parameter.EventQueueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		log:     log.With().Str("component", "terminal").Logger(),
	}
}

// Init opens and initializes the screen
func (s *Service) Init() error {
	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal open: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.screen.HideCursor()
	s.screen.Clear()
	core.SetCrashCleanup(s.screen.Fini)
	return nil
}

// Start launches event polling
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	core.Go(s.pollLoop)
}

func (s *Service) pollLoop() {
	defer close(s.doneCh)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Fini was called
			return
		}
		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// Stop ends polling and restores the terminal
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		if s.screen != nil {
			s.screen.Fini()
		}
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.screen.Fini()
	<-s.doneCh
	s.log.Debug().Msg("terminal stopped")
}

// Screen returns the underlying screen
func (s *Service) Screen() tcell.Screen {
	return s.screen
}

// Events returns polled terminal events
func (s *Service) Events() <-chan tcell.Event {
	return s.eventCh
}
