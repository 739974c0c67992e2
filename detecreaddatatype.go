package assaystat

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression is the container format of a plate-reader text export.
type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

var magicNumbers = []struct {
	c   Compression
	sig []byte
}{
	{CompressionGzip, []byte{0x1f, 0x8b, 0x08}},
	{CompressionZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{CompressionXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{CompressionZ, []byte{0x1f, 0x9d}},
	{CompressionBZip2, []byte{0x42, 0x5a, 0x68}},
}

// DetectCompression peeks at the first bytes of r without consuming them.
func DetectCompression(r *bufio.Reader) (Compression, error) {
	head, err := r.Peek(6)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return CompressionInvalid, err
	}

	for _, m := range magicNumbers {
		if bytes.HasPrefix(head, m.sig) {
			return m.c, nil
		}
	}

	return CompressionNone, nil
}

// MaybeDecompressReader wraps r in a decompressor if its leading bytes match a
// known compression format. Uncompressed input is passed through.
func MaybeDecompressReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	c, err := DetectCompression(br)
	if err != nil {
		return nil, err
	}

	switch c {
	case CompressionGzip:
		return gzip.NewReader(br)
	case CompressionZip:
		// Only the first file in the archive is read
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return zr, nil
	case CompressionBZip2:
		return bzip2.NewReader(br), nil
	case CompressionXZ:
		return xz.NewReader(br, 0)
	case CompressionZ:
		return zlib.NewReader(br)
	}

	return br, nil
}
