package hexview

import (
	"fmt"
	"sort"
)

// Span is a caret destination: where it lands and how many characters of
// the destination token should be marked.
type Span struct {
	Offset int
	Width  int
}

// MappingError reports a caret offset outside the stream of its view. The
// mapping functions clamp instead of failing; Check exists for callers that
// want to log the correction.
type MappingError struct {
	View   View
	Offset int
	Limit  int
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s offset %d outside [0, %d]", e.View, e.Offset, e.Limit)
}

// Limit is the largest valid caret offset in view v (one past the last
// character).
func (m *Model) Limit(v View) int {
	if v == Symbol {
		return m.SymbolLen()
	}
	return m.HexLen()
}

// Check returns a *MappingError when offset falls outside view v.
func (m *Model) Check(v View, offset int) error {
	if limit := m.Limit(v); offset < 0 || offset > limit {
		return &MappingError{View: v, Offset: offset, Limit: limit}
	}
	return nil
}

// Clamp pulls offset into [0, Limit(v)].
func (m *Model) Clamp(v View, offset int) int {
	return max(0, min(offset, m.Limit(v)))
}

// HexPosition splits a hex-view offset into the window byte index it edits
// and the column inside that byte's token: 0 high nibble, 1 low nibble,
// 2 separator. The index may equal Len() only for an empty window.
func (m *Model) HexPosition(h int) (index, column int) {
	h = m.Clamp(Hex, h)
	row, c := h/m.HexRowWidth(), h%m.HexRowWidth()
	return row*m.BytesPerRow + c/HexTokenWidth, c % HexTokenWidth
}

// hexByte is the byte whose hex token contains h, clamped to the window.
func (m *Model) hexByte(h int) int {
	i, _ := m.HexPosition(h)
	return max(0, min(i, m.Len()-1))
}

// symbolByte is the byte whose symbol token contains s. An offset on a row
// break belongs to the last byte of that row.
func (m *Model) symbolByte(s int) int {
	s = m.Clamp(Symbol, s)
	row := m.Rows.RowOf(s)
	lo := row * m.BytesPerRow
	hi := min(lo+m.BytesPerRow, m.Len())
	j := sort.Search(hi-lo, func(k int) bool { return m.symbolStart[lo+k] > s })
	return lo + max(0, j-1)
}

// ByteAt returns the window byte index addressed by a caret in view v.
func (m *Model) ByteAt(v View, offset int) int {
	if m.Len() == 0 {
		return 0
	}
	if v == Symbol {
		return m.symbolByte(offset)
	}
	return m.hexByte(offset)
}

// HexToSymbol maps a hex-view caret to the start of the matching symbol
// token. Width covers the whole token, so an escape such as \10 is marked in
// full.
func (m *Model) HexToSymbol(h int) Span {
	if m.Len() == 0 {
		return Span{}
	}
	i := m.hexByte(h)
	return Span{Offset: m.symbolStart[i], Width: m.Symbol[i].Width()}
}

// SymbolToHex maps a symbol-view caret to the start of the matching hex
// token. Width is always the digits plus separator; on the window's final
// token the mark runs one past the stream and renderers clip it.
func (m *Model) SymbolToHex(s int) Span {
	if m.Len() == 0 {
		return Span{}
	}
	return Span{Offset: m.HexOffsetOf(m.symbolByte(s)), Width: HexTokenWidth}
}

// Map translates a caret offset from view v into the other view.
func (m *Model) Map(v View, offset int) Span {
	if v == Symbol {
		return m.SymbolToHex(offset)
	}
	return m.HexToSymbol(offset)
}

// TokenSpan returns the span of the token containing offset in its own view.
func (m *Model) TokenSpan(v View, offset int) Span {
	if m.Len() == 0 {
		return Span{}
	}
	i := m.ByteAt(v, offset)
	if v == Symbol {
		return Span{Offset: m.symbolStart[i], Width: m.Symbol[i].Width()}
	}
	start := m.HexOffsetOf(i)
	return Span{Offset: start, Width: min(2, m.hexLen-start)}
}
