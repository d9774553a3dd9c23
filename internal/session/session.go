// Package session keeps a bounded window over a document and the two views
// derived from it in step. All work happens synchronously on the caller's
// goroutine; events are serialised through a single queue.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"dualhex/internal/document"
	"dualhex/internal/hexview"
	"dualhex/internal/logging"
)

const (
	DefaultRows = 25

	// shiftOverlap rows stay visible across a boundary shift so the caret
	// keeps its context.
	shiftOverlap = 2
)

type Options struct {
	Rows        int
	BytesPerRow int
	// VisibleRows is how many rows the view shows at once. Zero means the
	// whole window.
	VisibleRows int
}

func (o Options) withDefaults() Options {
	if o.Rows < shiftOverlap+1 {
		o.Rows = DefaultRows
	}
	if o.BytesPerRow < 1 {
		o.BytesPerRow = hexview.DefaultBytesPerRow
	}
	if o.VisibleRows < 1 || o.VisibleRows > o.Rows {
		o.VisibleRows = o.Rows
	}
	return o
}

// Caret is a view's caret and the span marked around it.
type Caret struct {
	Offset int
	Mark   hexview.Span
}

type Session struct {
	doc  *document.Document
	opts Options

	win   document.Window
	model *hexview.Model
	gen   uint64

	carets [2]Caret
	scroll [2]int
	focus  hexview.View

	queue    []Event
	draining bool
	updating bool
	listener Listener
	stats    Stats

	log *slog.Logger
}

// Open copies path into a private document and loads the first window.
func Open(path string, docOpts document.Options, opts Options) (*Session, error) {
	doc, err := document.Open(path, docOpts)
	if err != nil {
		return nil, err
	}
	s, err := New(doc, opts)
	if err != nil {
		doc.Close()
		return nil, err
	}
	return s, nil
}

// New takes ownership of doc and loads the window at offset 0.
func New(doc *document.Document, opts Options) (*Session, error) {
	s := &Session{
		doc:  doc,
		opts: opts.withDefaults(),
		log:  logging.With("doc", doc.ID()),
	}
	if err := s.LoadWindow(0); err != nil {
		return nil, err
	}
	s.setCaret(hexview.Hex, 0, s.model.TokenSpan(hexview.Hex, 0))
	s.setCaret(hexview.Symbol, 0, s.model.HexToSymbol(0))
	return s, nil
}

// Close releases the document and its temp files.
func (s *Session) Close() error {
	return s.doc.Close()
}

func (s *Session) SetListener(l Listener) {
	s.listener = l
}

func (s *Session) Document() *document.Document { return s.doc }
func (s *Session) Model() *hexview.Model        { return s.model }
func (s *Session) Window() document.Window      { return s.win }
func (s *Session) Generation() uint64           { return s.gen }
func (s *Session) Options() Options             { return s.opts }
func (s *Session) Focus() hexview.View          { return s.focus }
func (s *Session) Stats() Stats                 { return s.stats }

func (s *Session) Caret(v hexview.View) Caret {
	return s.carets[v]
}

func (s *Session) Scroll(v hexview.View) int {
	return s.scroll[v]
}

// SetVisibleRows changes how many rows the views show and re-scrolls so the
// focused caret stays visible.
func (s *Session) SetVisibleRows(n int) {
	s.opts.VisibleRows = n
	s.opts = s.opts.withDefaults()
	s.place(s.focus, s.carets[s.focus].Offset)
}

// SetFocus moves focus to v without moving its caret. Unlike a caret move it
// never shifts the window.
func (s *Session) SetFocus(v hexview.View) {
	s.place(v, s.carets[v].Offset)
}

// Capacity is the number of bytes a full window holds.
func (s *Session) Capacity() int {
	return s.opts.Rows * s.opts.BytesPerRow
}

// FileRow is the document row holding the hex caret's byte.
func (s *Session) FileRow() int64 {
	i, _ := s.model.HexPosition(s.carets[hexview.Hex].Offset)
	return (s.win.Offset + int64(i)) / int64(s.opts.BytesPerRow)
}

// CaretFileOffset is the document offset of the byte under the hex caret.
func (s *Session) CaretFileOffset() int64 {
	i, _ := s.model.HexPosition(s.carets[hexview.Hex].Offset)
	return s.win.Offset + int64(i)
}

// LoadWindow reads the window at offset and rebuilds both views.
func (s *Session) LoadWindow(offset int64) error {
	if offset < 0 {
		offset = 0
	}
	w, err := s.doc.LoadWindow(offset, s.Capacity())
	if err != nil {
		return err
	}
	s.win = w
	s.model = hexview.Build(w, s.opts.BytesPerRow)
	s.gen++
	s.stats.Rebuilds++
	s.notify(WindowLoaded{Offset: w.Offset, Generation: s.gen})
	return nil
}

// ShiftWindow moves the window by deltaRows rows. The offset never goes
// below zero nor past the start of the document's last row.
func (s *Session) ShiftWindow(deltaRows int) error {
	bpr := int64(s.opts.BytesPerRow)
	offset := s.win.Offset + int64(deltaRows)*bpr

	var last int64
	if n := s.doc.Len(); n > 0 {
		last = (n - 1) / bpr * bpr
	}
	offset = max(0, min(offset, last))

	s.stats.Shifts++
	s.log.Debug("window shift", "rows", deltaRows, "from", s.win.Offset, "to", offset)
	return s.LoadWindow(offset)
}

// Dispatch queues ev and, unless a dispatch is already draining the queue,
// handles it and anything queued behind it. Events dispatched while the
// session is updating the views are suppressed. A closed session refuses
// every event with document.ErrClosed.
func (s *Session) Dispatch(ev Event) error {
	if s.doc.IsClosed() {
		return document.ErrClosed
	}
	if s.updating {
		s.suppress(ev, "during update")
		return nil
	}
	s.queue = append(s.queue, ev)
	if s.draining {
		return nil
	}

	s.draining = true
	defer func() { s.draining = false }()

	var errs []error
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		if err := s.handle(next); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) OnCaretMoved(v hexview.View, offset int) error {
	return s.Dispatch(CaretMoved{View: v, Offset: offset, Origin: User, Generation: s.gen})
}

func (s *Session) OnScroll(v hexview.View, row int) error {
	return s.Dispatch(Scrolled{View: v, Row: row, Origin: User, Generation: s.gen})
}

func (s *Session) OnNibbleKey(offset int, digit byte) error {
	return s.Dispatch(NibbleKey{Offset: offset, Digit: digit, Generation: s.gen})
}

func (s *Session) OnDeleteKey(v hexview.View, offset int) error {
	return s.Dispatch(DeleteKey{View: v, Offset: offset, Generation: s.gen})
}

func (s *Session) suppress(ev Event, why string) {
	s.stats.Suppressed++
	s.log.Debug("event suppressed", "event", fmt.Sprintf("%T", ev), "reason", why)
}

func (s *Session) handle(ev Event) error {
	if ev.origin() == Programmatic {
		s.suppress(ev, "programmatic echo")
		return nil
	}
	if g := ev.generation(); g != 0 && g != s.gen {
		s.suppress(ev, "stale window")
		return nil
	}
	s.stats.Handled++

	switch ev := ev.(type) {
	case CaretMoved:
		return s.moveCaret(ev.View, ev.Offset)
	case Scrolled:
		s.scrollTo(ev.Row)
		return nil
	case NibbleKey:
		return s.nibble(ev.Offset, ev.Digit)
	case DeleteKey:
		return s.deleteAt(ev.View, ev.Offset)
	}
	return fmt.Errorf("unhandled event %T", ev)
}

// notify tells the listener about a programmatic change. The updating flag
// is held for the duration so that a listener feeding the change back into
// Dispatch cannot re-trigger handling.
func (s *Session) notify(ev Event) {
	if s.listener == nil {
		return
	}
	prev := s.updating
	s.updating = true
	defer func() { s.updating = prev }()
	s.listener(ev)
}

func (s *Session) setCaret(v hexview.View, offset int, mark hexview.Span) {
	c := Caret{Offset: offset, Mark: mark}
	if s.carets[v] == c {
		return
	}
	s.carets[v] = c
	s.notify(CaretMoved{View: v, Offset: offset, Mark: mark, Origin: Programmatic, Generation: s.gen})
}

func (s *Session) setScroll(row int) {
	for _, v := range []hexview.View{hexview.Hex, hexview.Symbol} {
		if s.scroll[v] == row {
			continue
		}
		s.scroll[v] = row
		s.notify(Scrolled{View: v, Row: row, Origin: Programmatic, Generation: s.gen})
	}
}

func (s *Session) maxScroll() int {
	return max(0, s.model.Rows.Rows()-s.opts.VisibleRows)
}

// scrollTo puts both views on the same first visible row.
func (s *Session) scrollTo(row int) {
	s.setScroll(max(0, min(row, s.maxScroll())))
}

// rowOf is the window row of a caret offset in view v.
func (s *Session) rowOf(v hexview.View, offset int) int {
	if v == hexview.Symbol {
		return s.model.Rows.RowOf(offset)
	}
	return offset / s.model.HexRowWidth()
}

// place positions the caret in v, marks the matching token in the other view
// and scrolls both views so the caret row is visible.
func (s *Session) place(v hexview.View, offset int) {
	if err := s.model.Check(v, offset); err != nil {
		s.log.Debug("caret clamped", "err", err)
		offset = s.model.Clamp(v, offset)
	}
	s.focus = v
	s.setCaret(v, offset, s.model.TokenSpan(v, offset))

	mapped := s.model.Map(v, offset)
	s.setCaret(v.Other(), mapped.Offset, mapped)

	row := s.rowOf(v, offset)
	top := s.scroll[v]
	switch {
	case row < top:
		top = row
	case row >= top+s.opts.VisibleRows:
		top = row - s.opts.VisibleRows + 1
	}
	s.scrollTo(top)
}

// moveCaret places the caret and, for the hex view, shifts the window when
// the caret reaches its first or last row and more data lies beyond.
func (s *Session) moveCaret(v hexview.View, offset int) error {
	s.place(v, offset)
	if v != hexview.Hex {
		return nil
	}

	rowW := s.model.HexRowWidth()
	row := s.carets[hexview.Hex].Offset / rowW
	step := s.opts.Rows - shiftOverlap
	before := s.win.Offset

	switch {
	case row == s.opts.Rows-1 && s.win.End() < s.doc.Len():
		if err := s.ShiftWindow(step); err != nil {
			return err
		}
		// Last character of the row now holding the old last row.
		target := s.contentRow(before, row)
		s.place(hexview.Hex, (target+1)*rowW-1)
	case row == 0 && s.win.Offset > 0:
		if err := s.ShiftWindow(-step); err != nil {
			return err
		}
		s.place(hexview.Hex, s.contentRow(before, 0)*rowW)
	}
	return nil
}

// contentRow is the row of the current window that holds what was row `row`
// of the window that started at before.
func (s *Session) contentRow(before int64, row int) int {
	bpr := int64(s.opts.BytesPerRow)
	r := int((before + int64(row)*bpr - s.win.Offset) / bpr)
	return max(0, min(r, s.model.Rows.Rows()-1))
}
