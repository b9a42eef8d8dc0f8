package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// mockRecogniser implements driven.Recogniser. Tests push events by hand
// through HandleRecognition, so the channel is only handed out.
type mockRecogniser struct {
	mu       sync.Mutex
	starts   int
	stops    int
	running  bool
	startErr error
	events   chan domain.RecognitionEvent
}

func newMockRecogniser() *mockRecogniser {
	return &mockRecogniser{events: make(chan domain.RecognitionEvent, 8)}
}

func (m *mockRecogniser) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	if m.running {
		return nil
	}
	m.starts++
	m.running = true
	return nil
}

func (m *mockRecogniser) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.stops++
		m.running = false
	}
	return nil
}

func (m *mockRecogniser) Events() <-chan domain.RecognitionEvent {
	return m.events
}

func (m *mockRecogniser) Close() error {
	return m.Stop()
}

func (m *mockRecogniser) counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

func result(entries ...domain.ResultEntry) domain.RecognitionEvent {
	return domain.RecognitionEvent{Type: domain.RecognitionResult, Results: entries}
}

func final(text string) domain.ResultEntry {
	return domain.ResultEntry{Transcript: text, IsFinal: true}
}

func interim(text string) domain.ResultEntry {
	return domain.ResultEntry{Transcript: text}
}

var (
	evStart = domain.RecognitionEvent{Type: domain.RecognitionStart}
	evEnd   = domain.RecognitionEvent{Type: domain.RecognitionEnd}
)
