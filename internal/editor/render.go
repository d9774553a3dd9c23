package editor

import (
	"fmt"
	"strings"

	"dualhex/internal/hexview"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell is one character of a rendered row together with its offset in the
// view's stream. Plain cells are separators and row ends.
type cell struct {
	text   string
	offset int
	class  hexview.StyleClass
	plain  bool
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Legend
	b.WriteString(m.renderLegend())
	b.WriteString("\n")

	switch m.view {
	case ViewHelp:
		b.WriteString(m.renderHelp())
	case ViewConfirmQuit:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("Unsaved changes. Quit anyway? (Y/N)"))
	case ViewFileChangedPrompt:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("File changed on disk. Overwrite? (Y/N)"))
	default:
		b.WriteString(m.renderMainView())
	}

	// Status message
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.statusMsg)
	}

	return b.String()
}

func (m *Model) renderLegend() string {
	hl := func(text string, highlightIdx int) string {
		var result strings.Builder
		for i, ch := range text {
			if i == highlightIdx {
				result.WriteString(m.styles.LegendHighlight.Render(string(ch)))
			} else {
				result.WriteString(m.styles.Status.Render(string(ch)))
			}
		}
		return result.String()
	}

	items := []string{hl("Quit", 0)}
	if m.view == ViewMain {
		items = append(items,
			m.styles.LegendHighlight.Render("?")+m.styles.Status.Render(" Help"),
			m.styles.LegendHighlight.Render("^S")+m.styles.Status.Render(" Save"),
			m.styles.LegendHighlight.Render("TAB")+m.styles.Status.Render(" Pane"),
			m.styles.LegendHighlight.Render("DEL")+m.styles.Status.Render(" Delete"),
		)
	} else {
		items = append(items, m.styles.LegendHighlight.Render("ESC")+m.styles.Status.Render(" Back"))
	}

	legend := strings.Join(items, m.styles.Status.Render(" | "))
	return m.styles.Status.Width(m.width).Render(legend)
}

func (m *Model) renderMainView() string {
	s := m.session
	model := s.Model()
	visible := s.Options().VisibleRows
	top := s.Scroll(hexview.Hex)
	rows := max(1, model.Rows.Rows())
	caretRow := s.Caret(hexview.Hex).Offset / model.HexRowWidth()

	symbolWidth := 0
	for r := 0; r < rows; r++ {
		symbolWidth = max(symbolWidth, cellsWidth(m.symbolCells(r)))
	}
	hexWidth := model.HexRowWidth()

	var offsets, hexLines, symbolLines []string
	for r := top; r < min(rows, top+visible); r++ {
		offset := fmt.Sprintf("%08x", s.Window().Offset+int64(r*model.BytesPerRow))
		if r == caretRow {
			offsets = append(offsets, m.styles.Offset.Bold(true).Render(offset))
		} else {
			offsets = append(offsets, m.styles.Offset.Render(offset))
		}
		hexLines = append(hexLines, m.renderCells(hexview.Hex, m.hexCells(r), hexWidth))
		symbolLines = append(symbolLines, m.renderCells(hexview.Symbol, m.symbolCells(r), symbolWidth))
	}
	for len(hexLines) < visible {
		offsets = append(offsets, strings.Repeat(" ", 8))
		hexLines = append(hexLines, strings.Repeat(" ", hexWidth))
		symbolLines = append(symbolLines, strings.Repeat(" ", symbolWidth))
	}

	offsetCol := lipgloss.NewStyle().PaddingTop(1).PaddingRight(1).Render(strings.Join(offsets, "\n"))
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		offsetCol,
		m.paneStyle(hexview.Hex).Render(strings.Join(hexLines, "\n")),
		m.paneStyle(hexview.Symbol).Render(strings.Join(symbolLines, "\n")),
	)
	return panes + "\n" + m.renderStatus()
}

func (m *Model) paneStyle(v hexview.View) lipgloss.Style {
	if m.session.Focus() == v {
		return m.styles.ActivePane
	}
	return m.styles.InactivePane
}

// hexCells lays out one hex row. The trailing cell is the row-break position,
// or the end of the stream on the window's last row.
func (m *Model) hexCells(row int) []cell {
	model := m.session.Model()
	tokens := model.RowTokens(hexview.Hex, row)
	base := row * model.HexRowWidth()

	var cells []cell
	for j, t := range tokens {
		at := base + j*hexview.HexTokenWidth
		for k, ch := range t.Text {
			cells = append(cells, cell{text: string(ch), offset: at + k, class: t.Class})
		}
		if j < len(tokens)-1 {
			cells = append(cells, cell{text: " ", offset: at + 2, plain: true})
		}
	}
	end := base + max(0, len(tokens)*hexview.HexTokenWidth-1)
	return append(cells, cell{text: " ", offset: end, plain: true})
}

func (m *Model) symbolCells(row int) []cell {
	model := m.session.Model()
	offset := model.Rows.Start(row)

	var cells []cell
	for _, t := range model.RowTokens(hexview.Symbol, row) {
		for _, ch := range t.Text {
			cells = append(cells, cell{text: string(ch), offset: offset, class: model.StyleOf(offset)})
			offset++
		}
	}
	return append(cells, cell{text: " ", offset: offset, plain: true})
}

func cellsWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += runewidth.StringWidth(c.text)
	}
	return w
}

func (m *Model) renderCells(v hexview.View, cells []cell, width int) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(m.cellStyle(v, c).Render(c.text))
	}
	if pad := width - cellsWidth(cells); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// inMark reports whether offset lies in the span marked in view v. The span
// is clipped to the end of the stream, where the final hex token has no
// separator.
func (m *Model) inMark(v hexview.View, offset int) bool {
	mark := m.session.Caret(v).Mark
	end := min(mark.Offset+mark.Width, m.session.Model().Limit(v))
	return offset >= mark.Offset && offset < end
}

// cellStyle picks the caret style in the focused view, the mark style for
// the span marked around either view's caret, and the byte class otherwise.
func (m *Model) cellStyle(v hexview.View, c cell) lipgloss.Style {
	switch {
	case v == m.session.Focus() && c.offset == m.session.Caret(v).Offset:
		return m.styles.Caret
	case m.inMark(v, c.offset):
		return m.styles.Mark
	case c.plain:
		return m.styles.Normal
	}
	switch c.class {
	case hexview.Escape:
		return m.styles.Escape
	case hexview.Placeholder:
		return m.styles.Placeholder
	}
	return m.styles.Literal
}

func (m *Model) renderStatus() string {
	s := m.session
	win := s.Window()
	status := fmt.Sprintf(" %s  row %d  offset %08x  window %08x-%08x  size %d",
		s.Focus(), s.FileRow(), s.CaretFileOffset(), win.Offset, win.End(), s.Document().Len())
	if m.dirty {
		status += "  [modified]"
	}
	return m.styles.Status.Width(m.width).Render(status)
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("\nHELP - dualhex\n")
	b.WriteString("==============\n\n")
	for _, binding := range m.keys.bindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "  %s %s\n", runewidth.FillRight(h.Key, 12), h.Desc)
	}
	fmt.Fprintf(&b, "  %s %s\n", runewidth.FillRight("0-9 A-F", 12), "type a nibble (hex pane)")
	b.WriteString("\nA digit on a high nibble inserts a byte; on a low nibble it overwrites.\n")
	b.WriteString("Press ESC or ? to close this help screen.\n")
	return b.String()
}

func (m *Model) renderConfirmDialog(message string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.config.Theme.ActiveBorder)).
		Padding(1, 2).
		Render(message)
	return box
}
