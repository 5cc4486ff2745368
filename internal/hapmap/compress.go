package hapmap

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/xi2/xz"
)

// Compression identifies the container of a HapMap file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBZip2
	CompressionXZ
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBZip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	}
	return "none"
}

var magicNumbers = []struct {
	c   Compression
	sig []byte
}{
	{CompressionGzip, []byte{0x1f, 0x8b}},
	{CompressionBZip2, []byte{0x42, 0x5a, 0x68}},
	{CompressionXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
}

// DetectCompression peeks at the leading bytes of br without consuming them.
func DetectCompression(br *bufio.Reader) Compression {
	head, _ := br.Peek(6)
	for _, m := range magicNumbers {
		if bytes.HasPrefix(head, m.sig) {
			return m.c
		}
	}
	return CompressionNone
}

// decompress wraps br according to its detected compression. The returned
// close func releases the decompressor.
func decompress(br *bufio.Reader) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	switch c := DetectCompression(br); c {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("create %s reader: %w", c, err)
		}
		return gz, gz.Close, nil
	case CompressionBZip2:
		return bzip2.NewReader(br), noop, nil
	case CompressionXZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("create %s reader: %w", c, err)
		}
		return xr, noop, nil
	}
	return br, noop, nil
}
