// Package hexview derives the two textual projections of a byte window: a
// hex dump and a symbol view where control bytes are escaped as \<decimal>.
// A Model is immutable once built; the editor renders it and reports caret
// positions back as character offsets into either stream.
package hexview

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"dualhex/internal/document"
)

// StyleClass decides how a byte is shown in the symbol view.
type StyleClass int

const (
	Literal StyleClass = iota
	Escape
	Placeholder
)

func (c StyleClass) String() string {
	switch c {
	case Escape:
		return "escape"
	case Placeholder:
		return "placeholder"
	default:
		return "literal"
	}
}

const (
	escapeBelow      = 32
	placeholderAbove = 126

	// PlaceholderGlyph stands in for bytes above the printable ASCII range.
	PlaceholderGlyph = "▫"

	// HexTokenWidth is two digits plus a separator.
	HexTokenWidth = 3

	DefaultBytesPerRow = 16
)

// ClassOf classifies a byte value.
func ClassOf(v byte) StyleClass {
	switch {
	case v < escapeBelow:
		return Escape
	case v > placeholderAbove:
		return Placeholder
	default:
		return Literal
	}
}

// View names one of the two projections.
type View int

const (
	Hex View = iota
	Symbol
)

func (v View) String() string {
	if v == Symbol {
		return "symbol"
	}
	return "hex"
}

// Other returns the opposite projection.
func (v View) Other() View {
	if v == Hex {
		return Symbol
	}
	return Hex
}

// Token is one byte's representation in one view. Sep is what follows it in
// the stream: a space or row break in the hex view, a row break or nothing in
// the symbol view, and nothing after the last byte of the window.
type Token struct {
	Text  string
	Sep   string
	Class StyleClass
	Value byte
}

// Width is the token's length in characters, separator excluded.
func (t Token) Width() int {
	return utf8.RuneCountInString(t.Text)
}

func symbolText(v byte) string {
	switch ClassOf(v) {
	case Escape:
		return "\\" + strconv.Itoa(int(v))
	case Placeholder:
		return PlaceholderGlyph
	default:
		return string(rune(v))
	}
}

const hexDigits = "0123456789abcdef"

func hexText(v byte) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0x0F]})
}

// RowIndex holds the symbol-view offset at which each row starts, plus the
// length of the symbol stream as a sentinel.
type RowIndex struct {
	starts []int
	end    int
}

// Rows is the number of rows in the window. An empty window reports zero
// rows but still has one start at offset 0.
func (r RowIndex) Rows() int {
	if r.end == 0 {
		return 0
	}
	return len(r.starts)
}

// Starts returns the row start offsets.
func (r RowIndex) Starts() []int {
	return append([]int(nil), r.starts...)
}

// Bounds returns the row starts followed by the sentinel, so row r spans
// [Bounds()[r], Bounds()[r+1]).
func (r RowIndex) Bounds() []int {
	return append(r.Starts(), r.end)
}

func (r RowIndex) Start(row int) int {
	if row < 0 {
		return 0
	}
	if row >= len(r.starts) {
		return r.end
	}
	return r.starts[row]
}

// RowOf returns the greatest row whose start is at or before offset.
func (r RowIndex) RowOf(offset int) int {
	i := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Model is the view-facing output for one window.
type Model struct {
	Offset      int64
	BytesPerRow int
	Hex         []Token
	Symbol      []Token
	Rows        RowIndex

	symbolStart []int
	hexLen      int
}

// Build converts a window into both token streams and the row index. It is
// recomputed from scratch for every window since escape widths depend on the
// data.
func Build(w document.Window, bytesPerRow int) *Model {
	if bytesPerRow < 1 {
		bytesPerRow = DefaultBytesPerRow
	}
	n := w.Len()
	m := &Model{
		Offset:      w.Offset,
		BytesPerRow: bytesPerRow,
		Hex:         make([]Token, n),
		Symbol:      make([]Token, n),
		symbolStart: make([]int, n),
	}

	starts := []int{0}
	pos := 0
	for i, v := range w.Bytes {
		if i > 0 && i%bytesPerRow == 0 {
			starts = append(starts, pos)
		}

		last := i == n-1
		rowEnd := (i+1)%bytesPerRow == 0

		class := ClassOf(v)
		ht := Token{Text: hexText(v), Class: class, Value: v}
		st := Token{Text: symbolText(v), Class: class, Value: v}
		switch {
		case last:
		case rowEnd:
			ht.Sep = "\n"
			st.Sep = "\n"
		default:
			ht.Sep = " "
		}

		m.Hex[i] = ht
		m.Symbol[i] = st
		m.symbolStart[i] = pos
		pos += st.Width() + len(st.Sep)
	}

	m.Rows = RowIndex{starts: starts, end: pos}
	if n > 0 {
		m.hexLen = HexTokenWidth*n - 1
	}
	return m
}

// Len is the number of bytes in the window.
func (m *Model) Len() int {
	return len(m.Hex)
}

// HexRowWidth is the number of hex-view characters per row, row break included.
func (m *Model) HexRowWidth() int {
	return m.BytesPerRow * HexTokenWidth
}

// HexLen is the length of the hex stream in characters.
func (m *Model) HexLen() int {
	return m.hexLen
}

// SymbolLen is the length of the symbol stream in characters.
func (m *Model) SymbolLen() int {
	return m.Rows.end
}

func (m *Model) HexText() string {
	return streamText(m.Hex)
}

func (m *Model) SymbolText() string {
	return streamText(m.Symbol)
}

func streamText(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
		b.WriteString(t.Sep)
	}
	return b.String()
}

// RowTokens returns the tokens of one row of the given view.
func (m *Model) RowTokens(v View, row int) []Token {
	lo := row * m.BytesPerRow
	if row < 0 || lo >= m.Len() {
		return nil
	}
	hi := min(lo+m.BytesPerRow, m.Len())
	if v == Symbol {
		return m.Symbol[lo:hi]
	}
	return m.Hex[lo:hi]
}

// HexOffsetOf returns the hex-view offset at which byte i's token starts.
func (m *Model) HexOffsetOf(i int) int {
	return (i/m.BytesPerRow)*m.HexRowWidth() + (i%m.BytesPerRow)*HexTokenWidth
}

// SymbolOffsetOf returns the symbol-view offset at which byte i's token starts.
func (m *Model) SymbolOffsetOf(i int) int {
	if i <= 0 || len(m.symbolStart) == 0 {
		return 0
	}
	if i >= len(m.symbolStart) {
		return m.Rows.end
	}
	return m.symbolStart[i]
}

// StyleOf classifies the symbol-view character at offset. Row breaks and
// offsets outside the stream report Literal.
func (m *Model) StyleOf(offset int) StyleClass {
	if m.Len() == 0 {
		return Literal
	}
	i := m.symbolByte(offset)
	if offset < m.symbolStart[i] || offset >= m.symbolStart[i]+m.Symbol[i].Width() {
		return Literal
	}
	return m.Symbol[i].Class
}

// DecodeHex parses a hex stream back into bytes.
func DecodeHex(stream string) ([]byte, error) {
	fields := strings.Fields(stream)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) != 2 {
			return nil, fmt.Errorf("hex token %q: want two digits", f)
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("hex token %q: %w", f, err)
		}
		out = append(out, b[0])
	}
	return out, nil
}
