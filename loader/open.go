package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/kdtree/internal/mmap"
)

// Compression identifies the encoding of a point file.
type Compression int

const (
	// CompressionNone reads the file as plain text through a memory mapping.
	CompressionNone Compression = iota
	// CompressionGzip decodes gzip streams.
	CompressionGzip
	// CompressionZSTD decodes zstd streams.
	CompressionZSTD
	// CompressionLZ4 decodes lz4 frames.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// DetectCompression derives the encoding from the file extension.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Open returns a reader over the decoded contents of path.
func Open(path string) (io.ReadCloser, error) {
	c := DetectCompression(path)
	if c == CompressionNone {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		_ = m.Advise(mmap.AccessSequential)
		return &readCloser{Reader: m.Reader(), closers: []func() error{m.Close}}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: dec, closers: []func() error{closeDecoder(dec), f.Close}}, nil
	default:
		return &readCloser{Reader: lz4.NewReader(f), closers: []func() error{f.Close}}, nil
	}
}

func closeDecoder(dec *zstd.Decoder) func() error {
	return func() error {
		dec.Close()
		return nil
	}
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
