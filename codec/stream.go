package codec

import (
	"io"
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// readInto drains r into dst. It returns ErrShortBuffer if r still has data
// once dst is full, so stream decoders can drive the growth loop.
func readInto(dst []byte, r io.Reader) (int, error) {
	n := 0
	empty := 0
	for n < len(dst) {
		m, err := r.Read(dst[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if m == 0 {
			if empty++; empty >= maxEmptyReads {
				return n, io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	// dst is full; the stream must be exhausted for the result to be complete.
	var extra [1]byte
	for range maxEmptyReads {
		m, err := r.Read(extra[:])
		if m > 0 {
			return n, ErrShortBuffer
		}
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
	return n, io.ErrNoProgress
}
