package codec

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
)

// Registry maps methods to codec implementations.
//
// A Registry is immutable after NewRegistry returns.
type Registry struct {
	codecs map[Method]Codec
	order  []Method
	def    Method
}

// NewRegistry builds a registry from codecs. Registration order is the
// priority used by Auto detection. def names the codec used when no magic
// matches and when compressing with Auto; it must be among codecs.
func NewRegistry(def Method, codecs ...Codec) (*Registry, error) {
	r := &Registry{
		codecs: make(map[Method]Codec, len(codecs)),
		order:  make([]Method, 0, len(codecs)),
		def:    def,
	}
	for _, c := range codecs {
		if c == nil {
			return nil, errors.New("codec: nil codec")
		}
		m := c.Method()
		if m == Auto || m == "" {
			return nil, errors.Newf("codec: reserved method %q", m)
		}
		if _, ok := r.codecs[m]; ok {
			return nil, errors.Newf("codec: method %q registered twice", m)
		}
		r.codecs[m] = c
		r.order = append(r.order, m)
	}
	if _, ok := r.codecs[def]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "default method %q", def)
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(def Method, codecs ...Codec) *Registry {
	r, err := NewRegistry(def, codecs...)
	if err != nil {
		panic(err)
	}
	return r
}

var std = MustNewRegistry(Brotli,
	newZstdCodec(),
	xzCodec{},
	snappyCodec{},
	lz4Codec{},
	zlibCodec{},
	gzipCodec{},
	lz4BlockCodec{},
	minlzCodec{},
	deflateCodec{},
	brotliCodec{},
)

// Default returns the process-wide registry holding every built-in codec.
func Default() *Registry {
	return std
}

// DefaultMethod returns the method used when nothing else is specified.
func (r *Registry) DefaultMethod() Method {
	return r.def
}

// Lookup returns the codec registered for m.
func (r *Registry) Lookup(m Method) (Codec, bool) {
	c, ok := r.codecs[m]
	return c, ok
}

// Methods returns the registered methods in detection priority order.
func (r *Registry) Methods() []Method {
	return slices.Clone(r.order)
}

// Detect resolves the method of src from magic bytes, falling back to the
// default method when no registered codec recognizes it.
func (r *Registry) Detect(src []byte) Method {
	for _, m := range r.order {
		if d, ok := r.codecs[m].(Detector); ok && d.Detect(src) {
			return m
		}
	}
	return r.def
}

func (r *Registry) resolve(m Method) (Codec, error) {
	if m == Auto {
		m = r.def
	}
	c, ok := r.codecs[m]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "%q", m)
	}
	return c, nil
}

// Compress compresses src with method m at the given level.
func (r *Registry) Compress(src []byte, m Method, level int) ([]byte, error) {
	c, err := r.resolve(m)
	if err != nil {
		return nil, err
	}
	out, err := c.Compress(src, level)
	if err != nil {
		return nil, packtype.Mark(errors.Wrapf(err, "%s: compress", c.Method()), ErrCompression)
	}
	return out, nil
}

// Compress compresses src with the default registry.
func Compress(src []byte, m Method, level int) ([]byte, error) {
	return std.Compress(src, m, level)
}

// Decompress decompresses src with the default registry.
func Decompress(src []byte, m Method, opts ...DecompressOption) ([]byte, error) {
	return std.Decompress(src, m, opts...)
}
