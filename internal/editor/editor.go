package editor

import (
	"fmt"

	"dualhex/internal/config"
	"dualhex/internal/hexview"
	"dualhex/internal/logging"
	"dualhex/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type View int

const (
	ViewMain View = iota
	ViewHelp
	ViewConfirmQuit
	ViewFileChangedPrompt
)

// chromeRows is the number of terminal rows taken by everything but the pane
// contents: legend, pane borders, status line and message line.
const chromeRows = 5

type Model struct {
	session *session.Session
	config  *config.Config
	styles  *config.Styles
	keys    KeyMap

	view   View
	width  int
	height int
	dirty  bool

	lastWindow int64

	// Error/status message
	statusMsg string
}

// NewModel wraps an open session. The model registers itself as the
// session's listener to report window moves.
func NewModel(s *session.Session, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Model{
		session:    s,
		config:     cfg,
		styles:     config.NewStyles(&cfg.Theme),
		keys:       DefaultKeyMap(),
		view:       ViewMain,
		lastWindow: s.Window().Offset,
	}
	s.SetListener(m.observe)
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Dirty() bool {
	return m.dirty
}

func (m *Model) observe(ev session.Event) {
	loaded, ok := ev.(session.WindowLoaded)
	if !ok || loaded.Offset == m.lastWindow {
		return
	}
	m.lastWindow = loaded.Offset
	m.statusMsg = fmt.Sprintf("Window moved to %08x", loaded.Offset)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.config.Layout.VisibleRows == 0 {
			m.session.SetVisibleRows(max(1, m.height-chromeRows))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear status message on any key
	m.statusMsg = ""

	switch m.view {
	case ViewHelp:
		return m.handleHelpKey(msg)
	case ViewConfirmQuit:
		return m.handleConfirmQuitKey(msg)
	case ViewFileChangedPrompt:
		return m.handleFileChangedPromptKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	focus := s.Focus()

	if focus == hexview.Hex && isHexChar(msg.String()) {
		m.edit(func() error {
			return s.OnNibbleKey(s.Caret(hexview.Hex).Offset, hexCharToNibble(msg.String()))
		})
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.tryQuit()
	case key.Matches(msg, m.keys.Help):
		m.view = ViewHelp
	case key.Matches(msg, m.keys.Save):
		return m.trySave()
	case key.Matches(msg, m.keys.Focus):
		s.SetFocus(focus.Other())
	case key.Matches(msg, m.keys.Left):
		m.moveTo(focus, s.Caret(focus).Offset-1)
	case key.Matches(msg, m.keys.Right):
		m.moveTo(focus, s.Caret(focus).Offset+1)
	case key.Matches(msg, m.keys.Up):
		m.moveRows(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRows(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveRows(-s.Options().VisibleRows)
	case key.Matches(msg, m.keys.PageDown):
		m.moveRows(s.Options().VisibleRows)
	case key.Matches(msg, m.keys.Home):
		m.moveTo(focus, m.rowStart(focus, m.caretRow()))
	case key.Matches(msg, m.keys.End):
		m.moveTo(focus, m.rowEnd(focus, m.caretRow()))
	case key.Matches(msg, m.keys.ScrollUp):
		m.report(s.OnScroll(focus, s.Scroll(focus)-1))
	case key.Matches(msg, m.keys.ScrollDown):
		m.report(s.OnScroll(focus, s.Scroll(focus)+1))
	case key.Matches(msg, m.keys.Delete):
		m.edit(func() error {
			return s.OnDeleteKey(focus, s.Caret(focus).Offset)
		})
	}

	return m, nil
}

// edit runs a document-changing event and marks the model dirty when the
// window was rebuilt as a result.
func (m *Model) edit(fn func() error) {
	before := m.session.Stats().Rebuilds
	if err := fn(); err != nil {
		m.report(err)
		return
	}
	if m.session.Stats().Rebuilds != before {
		m.dirty = true
	}
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	logging.Warn("editor action failed", "err", err)
	m.statusMsg = fmt.Sprintf("Error: %v", err)
}

// moveTo hands a caret move to the session, keeping the offset inside the
// current stream so that a move past either end stays put.
func (m *Model) moveTo(v hexview.View, offset int) {
	model := m.session.Model()
	offset = max(0, min(offset, model.Limit(v)))
	m.report(m.session.OnCaretMoved(v, offset))
}

func (m *Model) caretRow() int {
	focus := m.session.Focus()
	offset := m.session.Caret(focus).Offset
	if focus == hexview.Symbol {
		return m.session.Model().Rows.RowOf(offset)
	}
	return offset / m.session.Model().HexRowWidth()
}

// moveRows moves the focused caret by delta rows, keeping its column where
// the target row is long enough.
func (m *Model) moveRows(delta int) {
	focus := m.session.Focus()
	model := m.session.Model()
	offset := m.session.Caret(focus).Offset

	if focus == hexview.Hex {
		m.moveTo(focus, offset+delta*model.HexRowWidth())
		return
	}

	row := model.Rows.RowOf(offset)
	target := max(0, min(row+delta, model.Rows.Rows()-1))
	if target == row {
		return
	}
	col := offset - model.Rows.Start(row)
	m.moveTo(focus, min(model.Rows.Start(target)+col, m.rowEnd(focus, target)))
}

func (m *Model) rowStart(v hexview.View, row int) int {
	model := m.session.Model()
	if v == hexview.Symbol {
		return model.Rows.Start(row)
	}
	return row * model.HexRowWidth()
}

// rowEnd is the last caret position on row: the row break for every row but
// the window's last, where it is the end of the stream.
func (m *Model) rowEnd(v hexview.View, row int) int {
	model := m.session.Model()
	next := m.rowStart(v, row+1) - 1
	return min(next, model.Limit(v))
}

func (m *Model) tryQuit() (tea.Model, tea.Cmd) {
	if m.dirty {
		m.view = ViewConfirmQuit
		return m, nil
	}
	return m, tea.Quit
}

func (m *Model) trySave() (tea.Model, tea.Cmd) {
	// Check if file changed on disk
	changed, err := m.session.Document().SourceChanged()
	if err == nil && changed {
		m.view = ViewFileChangedPrompt
		return m, nil
	}
	m.save()
	return m, nil
}

func (m *Model) save() {
	doc := m.session.Document()
	if err := doc.SaveTo(doc.Source()); err != nil {
		m.statusMsg = fmt.Sprintf("Error saving: %v", err)
		return
	}
	m.dirty = false
	m.statusMsg = "File saved"
	logging.Info("document saved", "doc", doc.ID(), "path", doc.Source(), "len", doc.Len())
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEscape || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) handleFileChangedPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.save()
		m.view = ViewMain
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}

func isHexChar(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexCharToNibble(s string) byte {
	c := s[0]
	if c >= '0' && c <= '9' {
		return c - '0'
	}
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 10
	}
	if c >= 'A' && c <= 'F' {
		return c - 'A' + 10
	}
	return 0
}
