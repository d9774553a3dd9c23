package document

// Window is a bounded slice of document bytes starting at Offset. Windows are
// rebuilt from the backing file, never patched in place.
type Window struct {
	Offset int64
	Bytes  []byte
}

func (w Window) Len() int {
	return len(w.Bytes)
}

// End is the document offset just past the last loaded byte.
func (w Window) End() int64 {
	return w.Offset + int64(len(w.Bytes))
}

// Contains reports whether offset falls inside the loaded bytes.
func (w Window) Contains(offset int64) bool {
	return offset >= w.Offset && offset < w.End()
}
