package hexview

import (
	"bytes"
	"errors"
	"testing"
	"testing/quick"
)

func TestHexToSymbol(t *testing.T) {
	m := build([]byte{0x41, 0x0A, 0xFF}, 16)
	tests := []struct {
		hex  int
		want Span
	}{
		{0, Span{0, 1}},
		{1, Span{0, 1}},
		{2, Span{0, 1}},
		{3, Span{1, 3}},
		{4, Span{1, 3}},
		{5, Span{1, 3}},
		{6, Span{4, 1}},
		{8, Span{4, 1}},
		{99, Span{4, 1}},
		{-3, Span{0, 1}},
	}
	for _, tt := range tests {
		if got := m.HexToSymbol(tt.hex); got != tt.want {
			t.Errorf("HexToSymbol(%d) = %+v, want %+v", tt.hex, got, tt.want)
		}
	}
}

func TestSymbolToHex(t *testing.T) {
	m := build([]byte{0x41, 0x0A, 0xFF}, 16)
	tests := []struct {
		sym  int
		want Span
	}{
		{0, Span{0, 3}},
		{1, Span{3, 3}},
		{2, Span{3, 3}},
		{3, Span{3, 3}},
		{4, Span{6, 3}},
		{5, Span{6, 3}},
	}
	for _, tt := range tests {
		if got := m.SymbolToHex(tt.sym); got != tt.want {
			t.Errorf("SymbolToHex(%d) = %+v, want %+v", tt.sym, got, tt.want)
		}
	}
}

func TestMappingAcrossRows(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x00}, 16), 'B')
	m := build(data, 16)

	if got := m.HexToSymbol(48); got != (Span{33, 1}) {
		t.Errorf("HexToSymbol(48) = %+v", got)
	}
	if got := m.HexToSymbol(47); got != (Span{30, 2}) {
		t.Errorf("HexToSymbol on row break = %+v", got)
	}
	if got := m.SymbolToHex(32); got != (Span{45, 3}) {
		t.Errorf("SymbolToHex on row break = %+v", got)
	}
	if got := m.SymbolToHex(33); got != (Span{48, 3}) {
		t.Errorf("SymbolToHex(33) = %+v", got)
	}
}

func TestHexPosition(t *testing.T) {
	m := build(bytes.Repeat([]byte{0x11}, 20), 16)
	tests := []struct {
		hex, index, column int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 0, 2},
		{46, 15, 1},
		{47, 15, 2},
		{48, 16, 0},
		{m.HexLen(), 19, 2},
	}
	for _, tt := range tests {
		i, col := m.HexPosition(tt.hex)
		if i != tt.index || col != tt.column {
			t.Errorf("HexPosition(%d) = %d,%d want %d,%d", tt.hex, i, col, tt.index, tt.column)
		}
	}
}

func TestCaretRoundTrip(t *testing.T) {
	f := func(data []byte, width uint8, h uint16) bool {
		if len(data) == 0 {
			return true
		}
		m := build(data, int(width%24)+1)
		off := int(h) % (m.HexLen() + 1)
		i, _ := m.HexPosition(off)
		i = min(i, m.Len()-1)

		back := m.SymbolToHex(m.HexToSymbol(off).Offset)
		return back.Offset == m.HexOffsetOf(i)
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestSymbolRoundTripLandsOnTokenStart(t *testing.T) {
	f := func(data []byte, s uint16) bool {
		if len(data) == 0 {
			return true
		}
		m := build(data, 16)
		off := int(s) % (m.SymbolLen() + 1)
		want := m.TokenSpan(Symbol, off).Offset
		return m.HexToSymbol(m.SymbolToHex(off).Offset).Offset == want
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestMappingIsIdempotent(t *testing.T) {
	m := build([]byte("ab\x01\x1f\xffcd\x00"), 4)
	for h := 0; h <= m.HexLen(); h++ {
		if m.HexToSymbol(h) != m.HexToSymbol(h) {
			t.Fatalf("HexToSymbol(%d) not stable", h)
		}
	}
	for s := 0; s <= m.SymbolLen(); s++ {
		if m.SymbolToHex(s) != m.SymbolToHex(s) {
			t.Fatalf("SymbolToHex(%d) not stable", s)
		}
	}
}

func TestCheck(t *testing.T) {
	m := build([]byte{0x41, 0x0A}, 16)
	if err := m.Check(Hex, m.HexLen()); err != nil {
		t.Errorf("end of stream should be valid: %v", err)
	}
	err := m.Check(Symbol, 42)
	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatalf("expected MappingError, got %v", err)
	}
	if me.View != Symbol || me.Offset != 42 || me.Limit != 4 {
		t.Errorf("unexpected error %+v", me)
	}
	if got := m.Clamp(Symbol, 42); got != 4 {
		t.Errorf("Clamp = %d", got)
	}
	if got := m.Clamp(Hex, -1); got != 0 {
		t.Errorf("Clamp = %d", got)
	}
}
