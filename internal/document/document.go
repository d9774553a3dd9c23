// Package document holds the editable byte sequence behind the editor. The
// opened file is copied into a private temp file once; every read and edit
// targets that copy and every edit replaces it with a freshly written one.
package document

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"dualhex/internal/logging"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

type Options struct {
	// TempDir is where backing copies are written. Empty means os.TempDir().
	TempDir string
}

type Document struct {
	id          string
	source      string
	path        string
	size        int64
	fingerprint []byte
	temps       *tempStore
	log         *slog.Logger
	closed      bool
}

// Open copies path into a private temp file and returns a document backed by
// that copy. The original file is never written by the document itself.
func Open(path string, opts Options) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if info.IsDir() {
		return nil, &FileError{Kind: NotReadable, Path: path, Err: errors.New("is a directory")}
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer src.Close()

	id := uuid.NewString()
	temps := newTempStore(opts.TempDir, "dualhex-"+id[:8])
	dst, err := temps.create()
	if err != nil {
		return nil, &FileError{Kind: IoFailure, Path: path, Err: err}
	}

	h := blake3.New()
	w := bufio.NewWriter(dst)
	n, err := io.Copy(io.MultiWriter(w, h), src)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = dst.Close()
	}
	if err != nil {
		temps.discard(dst)
		return nil, &FileError{Kind: IoFailure, Path: path, Err: err}
	}

	d := &Document{
		id:          id,
		source:      path,
		path:        dst.Name(),
		size:        n,
		fingerprint: h.Sum(nil),
		temps:       temps,
		log:         logging.With("doc", id),
	}
	d.log.Info("document opened", "source", path, "temp", d.path, "len", n)
	return d, nil
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &FileError{Kind: NotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &FileError{Kind: NotReadable, Path: path, Err: err}
	default:
		return &FileError{Kind: IoFailure, Path: path, Err: err}
	}
}

func (d *Document) ID() string {
	return d.id
}

// Source is the path the document was opened from.
func (d *Document) Source() string {
	return d.source
}

// Path is the current backing temp file. It changes after every edit.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) Len() int64 {
	return d.size
}

func (d *Document) IsClosed() bool {
	return d.closed
}

// LoadWindow reads up to capacity bytes starting at offset. A negative offset
// is clamped to zero. Reading at or past the end yields an empty window, not
// an error.
func (d *Document) LoadWindow(offset int64, capacity int) (Window, error) {
	if d.closed {
		return Window{}, ErrClosed
	}
	if offset < 0 {
		offset = 0
	}
	if capacity < 0 {
		capacity = 0
	}
	w := Window{Offset: offset}
	if offset >= d.size || capacity == 0 {
		w.Bytes = []byte{}
		return w, nil
	}

	n := int64(capacity)
	if rest := d.size - offset; rest < n {
		n = rest
	}

	f, err := os.Open(d.path)
	if err != nil {
		return Window{}, &FileError{Kind: IoFailure, Path: d.path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return Window{}, &FileError{Kind: IoFailure, Path: d.path, Err: err}
	}
	w.Bytes = buf[:read]
	return w, nil
}

// ByteAt returns the byte at offset.
func (d *Document) ByteAt(offset int64) (byte, error) {
	if offset < 0 || offset >= d.size {
		return 0, ErrOffsetOutOfRange
	}
	w, err := d.LoadWindow(offset, 1)
	if err != nil {
		return 0, err
	}
	if w.Len() != 1 {
		return 0, ErrOffsetOutOfRange
	}
	return w.Bytes[0], nil
}

// SourceChanged reports whether the original file differs from what was
// copied at open time or at the last SaveTo of the source path.
func (d *Document) SourceChanged() (bool, error) {
	sum, err := fingerprintFile(d.source)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(sum, d.fingerprint), nil
}

// SaveTo writes the current contents to path through a sibling temp file and
// a rename, so a failed save never truncates path.
func (d *Document) SaveTo(path string) error {
	if d.closed {
		return ErrClosed
	}
	src, err := os.Open(d.path)
	if err != nil {
		return &FileError{Kind: IoFailure, Path: d.path, Err: err}
	}
	defer src.Close()

	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return &FileError{Kind: IoFailure, Path: path, Err: err}
	}
	h := blake3.New()
	w := bufio.NewWriter(out)
	_, err = io.Copy(io.MultiWriter(w, h), src)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(out.Name(), path)
	}
	if err != nil {
		os.Remove(out.Name())
		return &FileError{Kind: IoFailure, Path: path, Err: err}
	}

	if path == d.source {
		d.fingerprint = h.Sum(nil)
	}
	d.log.Info("document saved", "path", path, "len", d.size)
	return nil
}

// Close removes every temp file the document still owns. It is safe to call
// more than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := d.temps.close()
	if err != nil {
		d.log.Warn("temp cleanup failed", "err", err)
	} else {
		d.log.Info("document closed")
	}
	return err
}

func fingerprintFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, &FileError{Kind: IoFailure, Path: path, Err: err}
	}
	return h.Sum(nil), nil
}
