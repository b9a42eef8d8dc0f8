package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.NoteService = (*Session)(nil)

// Session owns the note collection, the selection, the search query and
// the dictation recorder for one interactive user.
//
// All methods are safe for concurrent use. Engine events, UI input and
// MCP requests are applied one at a time.
type Session struct {
	store  driven.NoteStore
	saver  *Saver
	engine driven.Recogniser

	now            func() time.Time
	newID          func() string
	discardInterim bool

	mu       sync.Mutex
	notes    []domain.Note
	selected string
	query    string
	recorder *Recorder
	closed   bool

	// version increases with every change handed to the saver.
	version uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRecogniser sets the speech recognition engine.
func WithRecogniser(engine driven.Recogniser) SessionOption {
	return func(s *Session) {
		s.engine = engine
	}
}

// WithSaveDelay sets the debounce window for edits.
func WithSaveDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.saver = NewSaver(s.store, d)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator overrides note id generation.
func WithIDGenerator(gen func() string) SessionOption {
	return func(s *Session) {
		s.newID = gen
	}
}

// WithDiscardInterimOnStop drops the provisional guess from the note body
// when dictation stops.
func WithDiscardInterimOnStop(discard bool) SessionOption {
	return func(s *Session) {
		s.discardInterim = discard
	}
}

// NewSession creates a session backed by store.
func NewSession(store driven.NoteStore, opts ...SessionOption) *Session {
	s := &Session{
		store: store,
		saver: NewSaver(store, domain.DefaultSaveDelay),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		notes: []domain.Note{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = NewRecorder(s.engine)
	return s
}

// Open loads the collection and selects the first visible note.
// An unreadable store is logged and treated as empty.
func (s *Session) Open(ctx context.Context) error {
	notes := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = notes
	s.closed = false
	s.selected = ""
	if visible := Project(s.notes, s.query); len(visible) > 0 {
		s.selected = visible[0].ID
	}
	logger.Debug("session opened with %d notes", len(s.notes))
	return nil
}

// Reload re-reads the collection after flushing pending edits.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.saver.Flush(ctx); err != nil {
		logger.Debug("flush before reload: %v", err)
	}
	notes := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = notes
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}
	if id := s.recorder.NoteID(); id != "" && s.indexOf(id) < 0 {
		_ = s.stopRecordingLocked()
	}
	logger.Debug("session reloaded with %d notes", len(s.notes))
	return nil
}

func (s *Session) load(ctx context.Context) []domain.Note {
	notes, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn("load notes: %v; starting with an empty collection", err)
		return []domain.Note{}
	}
	return s.sanitise(notes)
}

// sanitise repairs records that would break collection invariants.
func (s *Session) sanitise(notes []domain.Note) []domain.Note {
	out := make([]domain.Note, 0, len(notes))
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.ID == "" || seen[n.ID] {
			n.ID = s.newID()
			logger.Debug("assigned fresh id %s to note %q", n.ID, n.Title)
		}
		seen[n.ID] = true
		if n.UpdatedAt.Before(n.CreatedAt) {
			n.UpdatedAt = n.CreatedAt
		}
		out = append(out, n)
	}
	return out
}

// Close stops dictation and flushes pending writes.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	_ = s.stopRecordingLocked()
	s.closed = true
	s.mu.Unlock()

	return s.saver.Close(ctx)
}

// Flush writes any pending debounced save.
func (s *Session) Flush(ctx context.Context) error {
	return s.saver.Flush(ctx)
}

// Notes returns a copy of the collection in storage order.
func (s *Session) Notes() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Visible returns the projection for the current search query.
func (s *Session) Visible() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.notes, s.query)
}

// Search returns the projection for query without touching the session query.
func (s *Session) Search(query string) []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.notes, query)
}

// SetQuery changes the current search query.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// Query returns the current search query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Get returns the note with the given id.
func (s *Session) Get(id string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Note{}, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return s.notes[i], nil
}

// Create adds a new note at the front of the collection, selects it and
// saves immediately.
func (s *Session) Create(ctx context.Context) (domain.Note, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Note{}, domain.ErrSessionClosed
	}
	_ = s.stopRecordingLocked()

	now := s.now()
	note := domain.Note{
		ID:        s.newID(),
		Title:     domain.DefaultNoteTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append([]domain.Note{note}, s.notes...)
	s.selected = note.ID
	version, snapshot := s.stamp(), s.snapshot()
	s.mu.Unlock()

	logger.Debug("created note %s", note.ID)
	s.saveNow(ctx, version, snapshot)
	return note, nil
}

// CreateNote adds a note with title and body at the front of the collection
// and saves immediately. An empty title becomes the default title. Unlike
// Create, the selection and any dictation are left alone.
func (s *Session) CreateNote(ctx context.Context, title, body string) (domain.Note, error) {
	if title == "" {
		title = domain.DefaultNoteTitle
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Note{}, domain.ErrSessionClosed
	}
	now := s.now()
	note := domain.Note{
		ID:        s.newID(),
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append([]domain.Note{note}, s.notes...)
	version, snapshot := s.stamp(), s.snapshot()
	s.mu.Unlock()

	logger.Debug("created note %s", note.ID)
	s.saveNow(ctx, version, snapshot)
	return note, nil
}

// AppendTo appends text to the body of note id, schedules a save and
// returns the updated note. The selection is left alone.
func (s *Session) AppendTo(id, text string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Note{}, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	if text != "" {
		s.notes[i].Body += text
		s.touch(&s.notes[i])
		s.saver.Schedule(s.stamp(), s.snapshot())
	}
	return s.notes[i], nil
}

// Select makes id the selected note. Dictation into another note stops first.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("select note %s: %w", id, domain.ErrNotFound)
	}
	if s.selected != id {
		_ = s.stopRecordingLocked()
		s.resetErrorLocked()
	}
	s.selected = id
	return nil
}

// Deselect clears the selection, stopping dictation first.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.stopRecordingLocked()
	s.resetErrorLocked()
	s.selected = ""
}

// Selected returns the selected note, if any.
func (s *Session) Selected() (domain.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.selected)
	if i < 0 {
		return domain.Note{}, false
	}
	return s.notes[i], true
}

// SetTitle replaces the selected note's title and schedules a save.
func (s *Session) SetTitle(title string) error {
	return s.editSelected(func(n *domain.Note) bool {
		if n.Title == title {
			return false
		}
		n.Title = title
		return true
	})
}

// SetBody replaces the selected note's body and schedules a save.
func (s *Session) SetBody(body string) error {
	return s.editSelected(func(n *domain.Note) bool {
		if n.Body == body {
			return false
		}
		n.Body = body
		return true
	})
}

// AppendBody appends text to the selected note's body and schedules a save.
func (s *Session) AppendBody(text string) error {
	return s.editSelected(func(n *domain.Note) bool {
		if text == "" {
			return false
		}
		n.Body += text
		return true
	})
}

func (s *Session) editSelected(edit func(n *domain.Note) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.selected)
	if i < 0 {
		return domain.ErrNoNoteSelected
	}
	if edit(&s.notes[i]) {
		s.touch(&s.notes[i])
		s.saver.Schedule(s.stamp(), s.snapshot())
	}
	return nil
}

// TogglePin flips the selected note's pin state and saves immediately.
// It returns the new pin state.
func (s *Session) TogglePin(ctx context.Context) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(s.selected)
	if i < 0 {
		s.mu.Unlock()
		return false, domain.ErrNoNoteSelected
	}
	s.notes[i].Pinned = !s.notes[i].Pinned
	s.touch(&s.notes[i])
	pinned := s.notes[i].Pinned
	version, snapshot := s.stamp(), s.snapshot()
	s.mu.Unlock()

	s.saveNow(ctx, version, snapshot)
	return pinned, nil
}

// Delete removes the selected note, clears the selection and saves
// immediately. Dictation stops first.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	i := s.indexOf(s.selected)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrNoNoteSelected
	}
	_ = s.stopRecordingLocked()

	id := s.notes[i].ID
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	s.selected = ""
	version, snapshot := s.stamp(), s.snapshot()
	s.mu.Unlock()

	logger.Debug("deleted note %s", id)
	s.saveNow(ctx, version, snapshot)
	return nil
}

// StartRecording starts dictation into the selected note.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.selected
	if s.indexOf(id) < 0 {
		id = ""
	}
	return s.recorder.Start(ctx, id)
}

// StopRecording requests the engine to stop.
func (s *Session) StopRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopRecordingLocked()
}

// ToggleRecording starts dictation when idle and stops it when listening.
func (s *Session) ToggleRecording(ctx context.Context) error {
	s.mu.Lock()
	listening := s.selected != "" && s.recorder.Listening(s.selected)
	s.mu.Unlock()

	if listening {
		return s.StopRecording()
	}
	return s.StartRecording(ctx)
}

// HandleRecognition applies one engine event. Results only reach the note
// the session was started for, and only while listening.
func (s *Session) HandleRecognition(ev domain.RecognitionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Type != domain.RecognitionResult {
		bound := s.recorder.NoteID()
		if ev.Type == domain.RecognitionEnd && s.recorder.Accepting() {
			s.discardInterimLocked(bound)
		}
		s.recorder.Handle(ev)
		return
	}

	if !s.recorder.Accepting() {
		logger.Debug("dropping recognition result while %s", s.recorder.State())
		return
	}
	i := s.indexOf(s.recorder.NoteID())
	if i < 0 {
		_ = s.recorder.ForceIdle()
		return
	}

	body := s.recorder.Merge(s.notes[i].Body, ev.Changed())
	if body == s.notes[i].Body {
		return
	}
	s.notes[i].Body = body
	s.touch(&s.notes[i])
	s.saver.Schedule(s.stamp(), s.snapshot())
}

// RecordingStatus returns the dictation status for display.
func (s *Session) RecordingStatus() domain.RecordingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Status()
}

// RecognitionEvents returns the engine's event channel, or nil when
// dictation is unsupported.
func (s *Session) RecognitionEvents() <-chan domain.RecognitionEvent {
	if s.engine == nil {
		return nil
	}
	return s.engine.Events()
}

// stopRecordingLocked stops an active recording. Caller holds mu.
func (s *Session) stopRecordingLocked() error {
	if s.recorder.State() != domain.RecordingListening {
		return nil
	}
	s.discardInterimLocked(s.recorder.NoteID())
	if err := s.recorder.Stop(); err != nil {
		logger.Warn("stop dictation: %v", err)
		return err
	}
	return nil
}

// discardInterimLocked removes the provisional guess from the bound note
// when configured to. Caller holds mu.
func (s *Session) discardInterimLocked(noteID string) {
	if !s.discardInterim {
		return
	}
	i := s.indexOf(noteID)
	if i < 0 {
		return
	}
	body := s.recorder.DiscardInterim(s.notes[i].Body)
	if body != s.notes[i].Body {
		s.notes[i].Body = body
		s.touch(&s.notes[i])
		s.saver.Schedule(s.stamp(), s.snapshot())
	}
}

// resetErrorLocked clears a stale error status when the user moves on.
func (s *Session) resetErrorLocked() {
	if s.recorder.State() == domain.RecordingError {
		_ = s.recorder.ForceIdle()
	}
}

// touch refreshes UpdatedAt, keeping it strictly increasing.
func (s *Session) touch(n *domain.Note) {
	now := s.now()
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Nanosecond)
	}
	n.UpdatedAt = now
}

func (s *Session) saveNow(ctx context.Context, version uint64, snapshot []domain.Note) {
	if err := s.saver.SaveNow(ctx, version, snapshot); err != nil {
		logger.Debug("immediate save failed: %v", err)
	}
}

func (s *Session) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// stamp returns the version for a snapshot taken now. Caller holds mu.
func (s *Session) stamp() uint64 {
	s.version++
	return s.version
}

func (s *Session) snapshot() []domain.Note {
	out := make([]domain.Note, len(s.notes))
	copy(out, s.notes)
	return out
}
