package pod

// Iterator walks a contiguous sequence of header-prefixed values — a
// Struct's body, or any other region the caller knows holds one value
// after another. It never mutates the underlying buffer and holds no
// allocation beyond itself.
type Iterator struct {
	buf    []byte
	offset uint32
}

// NewIterator returns an Iterator over buf, starting at offset 0.
func NewIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf}
}

// Offset returns the byte offset the next call to Next will read from.
func (it *Iterator) Offset() uint32 {
	return it.offset
}

// Contains reports whether the iterator's current position still
// addresses a fully-contained value.
func (it *Iterator) Contains() bool {
	return Contains(it.buf, it.offset)
}

// Next decodes the value at the iterator's current position and advances
// past it. It returns ErrNotInside once the iterator has stepped beyond
// the last fully-contained value (including when the remaining bytes are
// only trailing alignment padding).
func (it *Iterator) Next() (Pod, error) {
	if it.offset >= uint32(len(it.buf)) {
		return Pod{}, ErrNotInside
	}
	v, step, err := ReadAt(it.buf, it.offset)
	if err != nil {
		return Pod{}, ErrNotInside
	}
	it.offset += step
	return v, nil
}

// ForEach decodes every value in sequence, calling fn with each one. It
// stops and returns fn's error if fn returns a non-nil error. Otherwise it
// returns nil once Next reports ErrNotInside — at the end of the region,
// and equally at a value that is not fully contained, since Next reports
// a decode failure as ErrNotInside too.
func (it *Iterator) ForEach(fn func(Pod) error) error {
	for {
		v, err := it.Next()
		if err == ErrNotInside {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}
