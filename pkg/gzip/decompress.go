package lgzip

import (
	"compress/gzip"
	"io"
)

// NewDecompressReader reads the gzip stream r. Closing it also closes r when it is an io.Closer.
func NewDecompressReader(r io.Reader) (io.ReadCloser, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &decompressReader{Reader: gzipReader, source: r}, nil
}

// Decompress reads and gunzips all of r.
func Decompress(r io.Reader) ([]byte, error) {
	reader, err := NewDecompressReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

type decompressReader struct {
	*gzip.Reader
	source io.Reader
}

func (r *decompressReader) Close() error {
	err := r.Reader.Close()
	if closer, ok := r.source.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
