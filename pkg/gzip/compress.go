package lgzip

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"
)

// Compress gzips data in memory.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewCompressReader streams the gzip encoding of r. Closing the returned reader also closes r
// when it is an io.Closer, so it can stand in for a request body.
func NewCompressReader(r io.Reader) io.ReadCloser {
	return NewCompressReaderLevel(r, gzip.DefaultCompression)
}

func NewCompressReaderLevel(r io.Reader, level int) io.ReadCloser {
	pr, pw := io.Pipe()

	newReader := &compressReader{
		pr:     pr,
		source: r,
	}
	newReader.wg.Add(1)

	go func() {
		defer newReader.wg.Done()

		gzipWriter, err := gzip.NewWriterLevel(pw, level)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(gzipWriter, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(gzipWriter.Close())
	}()

	return newReader
}

type compressReader struct {
	pr     *io.PipeReader
	source io.Reader
	wg     sync.WaitGroup
}

func (r *compressReader) Read(p []byte) (n int, err error) {
	return r.pr.Read(p)
}

// Close stops the compression goroutine and waits for it before closing the source.
func (r *compressReader) Close() error {
	err := r.pr.Close()
	r.wg.Wait()
	if closer, ok := r.source.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
