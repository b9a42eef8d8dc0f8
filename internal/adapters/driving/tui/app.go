package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/editor"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/logger"
)

// Focus identifies the component receiving keyboard input.
type Focus int

const (
	// FocusList is the note list.
	FocusList Focus = iota
	// FocusSearch is the search input.
	FocusSearch
	// FocusTitle is the editor's title field.
	FocusTitle
	// FocusBody is the editor's body field.
	FocusBody
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusList:
		return "list"
	case FocusSearch:
		return "search"
	case FocusTitle:
		return "title"
	case FocusBody:
		return "body"
	default:
		return "unknown"
	}
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Every session mutation happens inside Update, including recognition
// events, which arrive as messages from a waiting command.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	list   *list.NoteList
	search *input.SearchInput
	editor *editor.Editor
	status *status.Bar

	currentView messages.ViewType
	focus       Focus

	// changes is the store's external edit feed, once the watch started.
	changes <-chan struct{}

	// statusSeq identifies the latest transient status message.
	statusSeq int

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application over an opened note session.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		list:        list.NewNoteList(s),
		search:      input.NewSearchInput(s),
		editor:      editor.New(s),
		status:      status.NewBar(s),
		currentView: messages.ViewNotes,
		focus:       FocusList,
	}
	a.search.SetValue(ports.Notes.Query())
	a.refresh()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("quill"),
		a.editor.Init(),
	}
	if cmd := waitForRecognition(a.ports.Notes.RecognitionEvents()); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if a.ports.Watcher != nil {
		cmds = append(cmds, startWatch(a.ctx, a.ports.Watcher))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.RecognitionReceived:
		a.ports.Notes.HandleRecognition(msg.Event)
		a.refresh()
		return a, waitForRecognition(a.ports.Notes.RecognitionEvents())

	case messages.RecognitionClosed:
		logger.Debug("recognition channel closed")
		return a, nil

	case messages.WatchStarted:
		if msg.Err != nil {
			logger.Warn("watching notes: %v", msg.Err)
			return a, nil
		}
		a.changes = msg.Changes
		return a, waitForChange(a.changes)

	case messages.NotesChanged:
		if err := a.ports.Notes.Reload(a.ctx); err != nil {
			a.err = err
		}
		a.refresh()
		return a, waitForChange(a.changes)

	case messages.StatusExpired:
		if msg.Seq == a.statusSeq {
			a.status.Clear()
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.flash(domain.UserMessage(msg.Err), true)

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blinks and other component ticks.
	var cmd tea.Cmd
	switch a.focus {
	case FocusSearch:
		a.search, cmd, _ = a.search.Update(msg)
	case FocusTitle, FocusBody:
		a.editor, cmd, _ = a.editor.Update(msg)
	case FocusList:
	}
	return a, cmd
}

//nolint:gocognit,gocyclo // key routing depends on view and focus
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if keymap.Matches(k, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keys.Back) || keymap.Matches(k, a.keys.Help) || k == "q" {
			a.currentView = messages.ViewNotes
		}
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keys.New):
		return a, a.createNote()
	case keymap.Matches(k, a.keys.Pin):
		return a, a.togglePin()
	case keymap.Matches(k, a.keys.Delete):
		return a, a.deleteNote()
	case keymap.Matches(k, a.keys.Record):
		return a, a.toggleRecording()
	case keymap.Matches(k, a.keys.Focus):
		return a, a.cycleFocus()
	case keymap.Matches(k, a.keys.Back):
		if a.focus == FocusList {
			a.ports.Notes.Deselect()
			a.refresh()
			return a, nil
		}
		return a, a.setFocus(FocusList)
	}

	var cmd tea.Cmd
	switch a.focus {
	case FocusList:
		switch {
		case keymap.Matches(k, a.keys.Help):
			a.currentView = messages.ViewHelp
		case keymap.Matches(k, a.keys.Search):
			cmd = a.setFocus(FocusSearch)
		case keymap.Matches(k, a.keys.Open):
			cmd = a.setFocus(FocusBody)
		case keymap.Matches(k, a.keys.Up), keymap.Matches(k, a.keys.Down):
			a.list, cmd = a.list.Update(msg)
			a.selectFromList()
		}

	case FocusSearch:
		if keymap.Matches(k, a.keys.Open) {
			return a, a.setFocus(FocusList)
		}
		var changed bool
		a.search, cmd, changed = a.search.Update(msg)
		if changed {
			a.ports.Notes.SetQuery(a.search.Value())
			a.refresh()
		}

	case FocusTitle:
		if keymap.Matches(k, a.keys.Open) {
			return a, a.setFocus(FocusBody)
		}
		cmd = a.updateEditor(msg)

	case FocusBody:
		cmd = a.updateEditor(msg)
	}
	return a, cmd
}

func (a *App) updateEditor(msg tea.Msg) tea.Cmd {
	var (
		cmd    tea.Cmd
		change editor.Change
		err    error
	)
	a.editor, cmd, change = a.editor.Update(msg)
	switch {
	case change.Title:
		err = a.ports.Notes.SetTitle(a.editor.Title())
	case change.Body:
		err = a.ports.Notes.SetBody(a.editor.Body())
	default:
		return cmd
	}
	if err != nil {
		a.err = err
		return tea.Batch(cmd, a.flash(domain.UserMessage(err), true))
	}
	a.refresh()
	return cmd
}

func (a *App) selectFromList() {
	note := a.list.SelectedNote()
	if note == nil {
		return
	}
	if current, ok := a.ports.Notes.Selected(); ok && current.ID == note.ID {
		return
	}
	if err := a.ports.Notes.Select(note.ID); err != nil {
		a.err = err
	}
	a.refresh()
}

func (a *App) createNote() tea.Cmd {
	if _, err := a.ports.Notes.Create(a.ctx); err != nil {
		a.err = err
		return a.flash(domain.UserMessage(err), true)
	}
	a.refresh()
	return a.setFocus(FocusTitle)
}

func (a *App) togglePin() tea.Cmd {
	pinned, err := a.ports.Notes.TogglePin(a.ctx)
	if err != nil {
		a.err = err
		return a.flash(domain.UserMessage(err), true)
	}
	a.refresh()
	if pinned {
		return a.flash("Pinned", false)
	}
	return a.flash("Unpinned", false)
}

func (a *App) deleteNote() tea.Cmd {
	note, ok := a.ports.Notes.Selected()
	if err := a.ports.Notes.Delete(a.ctx); err != nil {
		a.err = err
		return a.flash(domain.UserMessage(err), true)
	}
	a.refresh()
	focus := a.setFocus(FocusList)
	if ok {
		return tea.Batch(focus, a.flash("Deleted "+note.DisplayTitle(), false))
	}
	return focus
}

func (a *App) toggleRecording() tea.Cmd {
	err := a.ports.Notes.ToggleRecording(a.ctx)
	a.refresh()
	if err != nil {
		a.err = err
		return a.flash(domain.UserMessage(err), true)
	}
	return nil
}

// refresh re-renders every component from the session.
func (a *App) refresh() {
	note, ok := a.ports.Notes.Selected()
	selectedID := ""
	if ok {
		selectedID = note.ID
	}
	a.list.SetNotes(a.ports.Notes.Visible(), selectedID)

	if ok {
		a.editor.Sync(note)
	} else {
		a.editor.Clear()
		if a.focus == FocusTitle || a.focus == FocusBody {
			a.focus = FocusList
		}
	}

	rec := a.ports.Notes.RecordingStatus()
	a.status.SetRecording(rec)
	a.editor.SetRecording(rec.State == domain.RecordingListening)
	a.status.SetHints(a.hints())
}

// flash shows a status message that clears itself after statusTTL.
func (a *App) flash(text string, isError bool) tea.Cmd {
	a.statusSeq++
	if isError {
		a.status.SetError(text)
	} else {
		a.status.SetMessage(text)
	}
	return expireStatus(a.statusSeq, statusTTL)
}

func (a *App) setFocus(f Focus) tea.Cmd {
	a.search.Blur()
	a.editor.Blur()

	var cmd tea.Cmd
	switch f {
	case FocusSearch:
		cmd = a.search.Focus()
	case FocusTitle:
		cmd = a.editor.Focus(editor.FieldTitle)
	case FocusBody:
		cmd = a.editor.Focus(editor.FieldBody)
	case FocusList:
	}

	// Editor fields need a note.
	if (f == FocusTitle || f == FocusBody) && a.editor.Focused() == editor.FieldNone {
		f = FocusList
	}
	a.focus = f
	a.status.SetHints(a.hints())
	return cmd
}

// cycleFocus moves focus list → title → body → search → list, skipping
// the editor when no note is selected.
func (a *App) cycleFocus() tea.Cmd {
	hasNote := a.editor.NoteID() != ""
	switch a.focus {
	case FocusList:
		if hasNote {
			return a.setFocus(FocusTitle)
		}
		return a.setFocus(FocusSearch)
	case FocusTitle:
		return a.setFocus(FocusBody)
	case FocusBody:
		return a.setFocus(FocusSearch)
	default:
		return a.setFocus(FocusList)
	}
}

func (a *App) hints() []key.Binding {
	switch a.focus {
	case FocusSearch:
		return a.keys.SearchHelp()
	case FocusTitle, FocusBody:
		return a.keys.EditorHelp()
	default:
		return a.keys.ListHelp()
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}

	listStyle, editorStyle := a.styles.Pane, a.styles.Pane
	switch a.focus {
	case FocusList:
		listStyle = a.styles.ActivePane
	case FocusTitle, FocusBody:
		editorStyle = a.styles.ActivePane
	case FocusSearch:
	}

	listWidth, editorWidth, paneHeight := a.layout()
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(listWidth).Height(paneHeight).Render(a.list.View()),
		editorStyle.Width(editorWidth).Height(paneHeight).Render(a.editor.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("quill"),
		a.search.View(),
		panes,
		a.status.View(),
	)
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, row := range a.keys.FullHelp() {
		for _, binding := range row {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to notes"))
	return b.String()
}

// layout splits the terminal between the list and editor panes.
func (a *App) layout() (listWidth, editorWidth, paneHeight int) {
	listWidth = max(a.width/3, 24)
	editorWidth = max(a.width-listWidth-4, 20)
	paneHeight = max(a.height-6, 5)
	return listWidth, editorWidth, paneHeight
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Focus returns the component receiving keyboard input.
func (a *App) Focus() Focus {
	return a.focus
}

// StatusMessage returns the transient status message, if any.
func (a *App) StatusMessage() string {
	return a.status.Message()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	listWidth, editorWidth, paneHeight := a.layout()
	a.list.SetDimensions(listWidth-2, paneHeight-2)
	a.editor.SetDimensions(editorWidth-2, paneHeight-2)
	a.search.SetWidth(width)
	a.status.SetWidth(width)
}
