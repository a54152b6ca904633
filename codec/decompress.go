package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
	"github.com/meigma/filepack/internal/sizing"
)

const (
	// DefaultMaxSize is the default upper bound on decompressed output (256MB).
	DefaultMaxSize = 256 << 20

	// DefaultMaxAttempts is the default number of growth-loop attempts.
	DefaultMaxAttempts = 16

	// growthFactor multiplies the buffer after each short attempt.
	growthFactor = 4

	// minInitialSize is the smallest buffer the growth loop starts from.
	minInitialSize = 256
)

type decompressConfig struct {
	sizeHint    int
	maxSize     int
	maxAttempts int
}

// DecompressOption configures a single Decompress call.
type DecompressOption func(*decompressConfig)

// WithSizeHint sets the initial buffer size for codecs whose streams do not
// record the decompressed length. Non-positive values are ignored.
func WithSizeHint(n int) DecompressOption {
	return func(c *decompressConfig) {
		c.sizeHint = n
	}
}

// WithMaxSize limits the decompressed output. Non-positive values select
// DefaultMaxSize.
func WithMaxSize(n int) DecompressOption {
	return func(c *decompressConfig) {
		c.maxSize = n
	}
}

// WithMaxAttempts limits the number of growth-loop attempts. Non-positive
// values select DefaultMaxAttempts.
func WithMaxAttempts(n int) DecompressOption {
	return func(c *decompressConfig) {
		c.maxAttempts = n
	}
}

func newDecompressConfig(opts []DecompressOption) decompressConfig {
	var cfg decompressConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxSize <= 0 {
		cfg.maxSize = DefaultMaxSize
	}
	if cfg.maxAttempts <= 0 {
		cfg.maxAttempts = DefaultMaxAttempts
	}
	return cfg
}

// Decompress decodes src with method m. With Auto the method is resolved by
// Detect.
func (r *Registry) Decompress(src []byte, m Method, opts ...DecompressOption) ([]byte, error) {
	if m == Auto {
		m = r.Detect(src)
	}
	c, err := r.resolve(m)
	if err != nil {
		return nil, err
	}
	cfg := newDecompressConfig(opts)

	if s, ok := c.(Sized); ok {
		n, known, err := s.DecompressedLen(src)
		if err != nil {
			return nil, packtype.Mark(errors.Wrapf(err, "%s: read length", m), ErrDecompression)
		}
		if known {
			return decodeExact(c, src, n, cfg)
		}
	}
	return decodeGrowing(c, src, cfg)
}

// decodeExact decodes a stream whose length is recorded, allocating once.
func decodeExact(c Codec, src []byte, n int, cfg decompressConfig) ([]byte, error) {
	m := c.Method()
	if n < 0 || n > cfg.maxSize {
		return nil, errors.Wrapf(ErrDecompression, "%s: declared size %d exceeds limit %d", m, n, cfg.maxSize)
	}
	dst := make([]byte, n)
	written, err := c.DecompressInto(dst, src)
	if err != nil {
		return nil, packtype.Mark(errors.Wrapf(err, "%s: decode", m), ErrDecompression)
	}
	if written != n {
		return nil, errors.Wrapf(ErrDecompression, "%s: decoded %d bytes, header declared %d", m, written, n)
	}
	return dst, nil
}

// decodeGrowing decodes a stream of unknown length, enlarging the output
// buffer each time the codec runs out of space.
func decodeGrowing(c Codec, src []byte, cfg decompressConfig) ([]byte, error) {
	m := c.Method()
	size := cfg.sizeHint
	if size <= 0 {
		if h, ok := c.(SizeHinter); ok {
			size = h.SizeHint(src)
		}
	}
	if size <= 0 {
		size = sizing.MulInt(len(src), growthFactor)
	}
	size = max(size, minInitialSize)

	for attempt := 1; ; attempt++ {
		size = min(size, cfg.maxSize)
		dst := make([]byte, size)
		n, err := c.DecompressInto(dst, src)
		if err == nil {
			return dst[:n], nil
		}
		if !errors.Is(err, ErrShortBuffer) {
			return nil, packtype.Mark(errors.Wrapf(err, "%s: decode", m), ErrDecompression)
		}
		if size >= cfg.maxSize {
			return nil, errors.Wrapf(ErrDecompression, "%s: output exceeds limit %d", m, cfg.maxSize)
		}
		if attempt >= cfg.maxAttempts {
			return nil, errors.Wrapf(ErrDecompression, "%s: output exceeds %d bytes after %d attempts", m, size, attempt)
		}
		size = sizing.MulInt(size, growthFactor)
	}
}
