package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// InsertByte inserts v before the byte at offset. offset may equal Len(),
// which appends.
func (d *Document) InsertByte(offset int64, v byte) error {
	if offset < 0 || offset > d.size {
		return &EditError{Op: "insert", Offset: offset, Err: d.rangeError(offset)}
	}
	return d.splice("insert", offset, 0, []byte{v})
}

// OverwriteByte replaces the byte at offset with v.
func (d *Document) OverwriteByte(offset int64, v byte) error {
	if offset < 0 || offset >= d.size {
		return &EditError{Op: "overwrite", Offset: offset, Err: d.rangeError(offset)}
	}
	return d.splice("overwrite", offset, 1, []byte{v})
}

// SetLowNibble keeps the high nibble of the byte at offset and replaces the
// low one with nibble.
func (d *Document) SetLowNibble(offset int64, nibble byte) error {
	old, err := d.ByteAt(offset)
	if err != nil {
		return &EditError{Op: "overwrite", Offset: offset, Err: err}
	}
	return d.OverwriteByte(offset, old&0xF0|nibble&0x0F)
}

// DeleteByte removes exactly one byte at offset.
func (d *Document) DeleteByte(offset int64) error {
	if offset < 0 || offset >= d.size {
		return &EditError{Op: "delete", Offset: offset, Err: d.rangeError(offset)}
	}
	return d.splice("delete", offset, 1, nil)
}

func (d *Document) rangeError(offset int64) error {
	return fmt.Errorf("%w: %d not in document of %d bytes", ErrOffsetOutOfRange, offset, d.size)
}

// splice writes old[:offset] ++ patch ++ old[offset+skip:] to a new temp file
// and only then points the document at it. Any failure before the swap
// leaves the document on its previous file.
func (d *Document) splice(op string, offset, skip int64, patch []byte) error {
	if d.closed {
		return &EditError{Op: op, Offset: offset, Err: ErrClosed}
	}

	src, err := os.Open(d.path)
	if err != nil {
		return &EditError{Op: op, Offset: offset, Err: ioFailure(err)}
	}
	defer src.Close()

	dst, err := d.temps.create()
	if err != nil {
		return &EditError{Op: op, Offset: offset, Err: ioFailure(err)}
	}

	if err := writeSplice(dst, src, d.size, offset, skip, patch); err != nil {
		d.temps.discard(dst)
		return &EditError{Op: op, Offset: offset, Err: ioFailure(err)}
	}
	if err := dst.Close(); err != nil {
		d.temps.release(dst.Name())
		return &EditError{Op: op, Offset: offset, Err: ioFailure(err)}
	}

	old := d.path
	d.path = dst.Name()
	d.size = d.size - skip + int64(len(patch))

	if err := d.temps.release(old); err != nil {
		// The edit is already in effect; the stale copy is only a leak.
		d.log.Warn("superseded temp not removed", "temp", old, "err", err)
	}
	d.log.Debug("splice applied", "op", op, "offset", offset, "len", d.size)
	return nil
}

func writeSplice(dst *os.File, src io.ReaderAt, size, offset, skip int64, patch []byte) error {
	w := bufio.NewWriter(dst)
	if _, err := io.Copy(w, io.NewSectionReader(src, 0, offset)); err != nil {
		return err
	}
	if _, err := w.Write(patch); err != nil {
		return err
	}
	tail := offset + skip
	if _, err := io.Copy(w, io.NewSectionReader(src, tail, size-tail)); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return dst.Sync()
}
