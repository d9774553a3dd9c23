package session

import (
	"fmt"

	"dualhex/internal/hexview"
)

// nibble applies one typed hex digit. A digit in the high-nibble column
// inserts a new byte (digit << 4) before the byte under the caret and moves
// the caret to its low nibble. A digit in the low-nibble column overwrites
// the low nibble of the byte under the caret and moves on to the next byte.
// A digit typed on the separator inserts before the following byte.
func (s *Session) nibble(offset int, digit byte) error {
	if digit > 0x0F {
		return fmt.Errorf("nibble %#x out of range", digit)
	}

	i, col := s.model.HexPosition(offset)
	at := s.win.Offset + int64(i)

	var err error
	var target, targetCol int
	switch col {
	case 0:
		err = s.doc.InsertByte(at, digit<<4)
		target, targetCol = i, 1
	case 1:
		err = s.doc.SetLowNibble(at, digit)
		target, targetCol = i+1, 0
	default:
		err = s.doc.InsertByte(at+1, digit<<4)
		target, targetCol = i+1, 1
	}
	if err != nil {
		s.log.Warn("edit failed", "offset", at, "err", err)
		return err
	}

	if err := s.LoadWindow(s.win.Offset); err != nil {
		return err
	}
	return s.caretAt(s.win.Offset+int64(target), targetCol)
}

// caretAt moves the hex caret to column col of the byte at document offset
// at. When the move shifts the window the caret follows that byte instead of
// landing on the boundary row, so a nibble pair always finishes on the byte
// it started.
func (s *Session) caretAt(at int64, col int) error {
	before := s.win.Offset
	if err := s.moveCaret(hexview.Hex, s.hexOffsetAt(at)+col); err != nil {
		return err
	}
	if s.win.Offset != before && (s.win.Contains(at) || at == s.win.End()) {
		s.place(hexview.Hex, s.hexOffsetAt(at)+col)
	}
	return nil
}

func (s *Session) hexOffsetAt(at int64) int {
	return s.model.HexOffsetOf(int(at - s.win.Offset))
}

// deleteAt removes the byte addressed by a caret in either view. The caret
// stays on the same document offset, which now holds the following byte.
func (s *Session) deleteAt(v hexview.View, offset int) error {
	if s.model.Len() == 0 {
		return nil
	}
	at := s.win.Offset + int64(s.model.ByteAt(v, offset))
	if err := s.doc.DeleteByte(at); err != nil {
		s.log.Warn("delete failed", "offset", at, "err", err)
		return err
	}

	if err := s.LoadWindow(s.win.Offset); err != nil {
		return err
	}
	if s.model.Len() == 0 && s.win.Offset > 0 {
		if err := s.ShiftWindow(-(s.opts.Rows - shiftOverlap)); err != nil {
			return err
		}
	}
	at = max(0, min(at, s.doc.Len()-1))

	if v == hexview.Symbol {
		return s.moveCaret(v, s.model.SymbolOffsetOf(int(at-s.win.Offset)))
	}
	return s.caretAt(at, 0)
}
