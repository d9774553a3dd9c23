package hexview

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"dualhex/internal/document"
)

func build(data []byte, bytesPerRow int) *Model {
	return Build(document.Window{Bytes: data}, bytesPerRow)
}

func TestClassOf(t *testing.T) {
	for v := 0; v < 256; v++ {
		got := ClassOf(byte(v))
		var want StyleClass
		switch {
		case v < 32:
			want = Escape
		case v > 126:
			want = Placeholder
		default:
			want = Literal
		}
		if got != want {
			t.Errorf("ClassOf(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestBuildMixedRow(t *testing.T) {
	m := build([]byte{0x41, 0x0A, 0xFF}, 16)

	if got := m.HexText(); got != "41 0a ff" {
		t.Errorf("hex stream = %q", got)
	}
	wantText := []string{"A", `\10`, PlaceholderGlyph}
	wantClass := []StyleClass{Literal, Escape, Placeholder}
	for i, tok := range m.Symbol {
		if tok.Text != wantText[i] {
			t.Errorf("symbol %d = %q, want %q", i, tok.Text, wantText[i])
		}
		if tok.Class != wantClass[i] {
			t.Errorf("symbol %d class = %v, want %v", i, tok.Class, wantClass[i])
		}
	}
	if got := m.Rows.Starts(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("row starts = %v, want [0]", got)
	}
	if got := m.Rows.Bounds(); !reflect.DeepEqual(got, []int{0, 5}) {
		t.Errorf("row bounds = %v, want [0 5]", got)
	}
	if m.SymbolLen() != 5 || m.HexLen() != 8 {
		t.Errorf("lengths = %d/%d", m.SymbolLen(), m.HexLen())
	}
}

func TestEscapeWidths(t *testing.T) {
	tests := []struct {
		v    byte
		text string
	}{
		{0, `\0`},
		{9, `\9`},
		{10, `\10`},
		{31, `\31`},
		{32, " "},
		{126, "~"},
		{127, PlaceholderGlyph},
		{255, PlaceholderGlyph},
	}
	for _, tt := range tests {
		m := build([]byte{tt.v}, 16)
		if m.Symbol[0].Text != tt.text {
			t.Errorf("symbol(%d) = %q, want %q", tt.v, m.Symbol[0].Text, tt.text)
		}
		if m.Symbol[0].Width() != len([]rune(tt.text)) {
			t.Errorf("width(%d) = %d", tt.v, m.Symbol[0].Width())
		}
	}
}

func TestRowBreaks(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x00}, 16), 'B')
	m := build(data, 16)

	hexRows := strings.Split(m.HexText(), "\n")
	if len(hexRows) != 2 {
		t.Fatalf("expected 2 hex rows, got %d", len(hexRows))
	}
	if len(hexRows[0]) != 47 || strings.HasSuffix(hexRows[0], " ") {
		t.Errorf("row 0 should be 16 tokens without trailing space: %q", hexRows[0])
	}
	if hexRows[1] != "42" {
		t.Errorf("final row = %q", hexRows[1])
	}
	if got := m.Rows.Starts(); !reflect.DeepEqual(got, []int{0, 33}) {
		t.Errorf("row starts = %v, want [0 33]", got)
	}
	if m.Rows.Rows() != 2 {
		t.Errorf("rows = %d", m.Rows.Rows())
	}
	symRows := strings.Split(m.SymbolText(), "\n")
	if symRows[1] != "B" {
		t.Errorf("symbol row 1 = %q", symRows[1])
	}
}

func TestWindowEndingOnRowBoundary(t *testing.T) {
	m := build(bytes.Repeat([]byte{'a'}, 8), 4)
	if got := m.HexText(); got != "61 61 61 61\n61 61 61 61" {
		t.Errorf("hex stream = %q", got)
	}
	if got := m.SymbolText(); got != "aaaa\naaaa" {
		t.Errorf("symbol stream = %q", got)
	}
}

func TestEmptyWindow(t *testing.T) {
	m := build(nil, 16)
	if m.HexText() != "" || m.SymbolText() != "" {
		t.Error("expected empty streams")
	}
	if m.Rows.Rows() != 0 {
		t.Errorf("expected zero rows, got %d", m.Rows.Rows())
	}
	if got := m.HexToSymbol(5); got != (Span{}) {
		t.Errorf("HexToSymbol on empty = %+v", got)
	}
	if got := m.SymbolToHex(5); got != (Span{}) {
		t.Errorf("SymbolToHex on empty = %+v", got)
	}
	if i, col := m.HexPosition(0); i != 0 || col != 0 {
		t.Errorf("HexPosition on empty = %d,%d", i, col)
	}
}

func TestStyleOf(t *testing.T) {
	m := build([]byte{0x41, 0x0A, 0xFF}, 16)
	want := []StyleClass{Literal, Escape, Escape, Escape, Placeholder}
	for off, w := range want {
		if got := m.StyleOf(off); got != w {
			t.Errorf("StyleOf(%d) = %v, want %v", off, got, w)
		}
	}
}

func TestDecodeHexRoundTrip(t *testing.T) {
	f := func(data []byte, width uint8) bool {
		m := build(data, int(width%32)+1)
		got, err := DecodeHex(m.HexText())
		return err == nil && bytes.Equal(got, data)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestDecodeHexRejectsBadTokens(t *testing.T) {
	for _, s := range []string{"4", "zz", "411"} {
		if _, err := DecodeHex(s); err == nil {
			t.Errorf("DecodeHex(%q) succeeded", s)
		}
	}
}

func TestBuildKeepsOffset(t *testing.T) {
	m := Build(document.Window{Offset: 224, Bytes: []byte{1, 2}}, 16)
	if m.Offset != 224 {
		t.Errorf("offset = %d", m.Offset)
	}
	if m.Len() != 2 {
		t.Errorf("len = %d", m.Len())
	}
}
