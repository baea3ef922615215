package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

// recordingReader remembers the size of every Read request.
type recordingReader struct {
	r     io.Reader
	sizes []int
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	rr.sizes = append(rr.sizes, len(p))
	return rr.r.Read(p)
}

func TestChunksBoundedReads(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 1000) // 8000 bytes
	rr := &recordingReader{r: bytes.NewReader(data)}
	buf := make([]byte, 1024)

	var got []byte
	for chunk, err := range Chunks(context.Background(), rr, 3000, buf) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunk) > len(buf) {
			t.Fatalf("chunk of %d bytes exceeds buffer", len(chunk))
		}
		got = append(got, chunk...)
	}

	if !bytes.Equal(got, data[:3000]) {
		t.Fatalf("got %d bytes, want first 3000", len(got))
	}
	for i, n := range rr.sizes {
		if n > 1024 {
			t.Errorf("read %d asked for %d bytes", i, n)
		}
	}
	if last := rr.sizes[len(rr.sizes)-1]; last != 3000-2*1024 {
		t.Errorf("last read asked for %d bytes, want %d", last, 3000-2*1024)
	}
}

func TestChunksEarlyEOF(t *testing.T) {
	var got int
	for chunk, err := range Chunks(context.Background(), bytes.NewReader(make([]byte, 100)), 500, make([]byte, 64)) {
		if err != nil {
			t.Fatalf("EOF before n must end silently, got %v", err)
		}
		got += len(chunk)
	}
	if got != 100 {
		t.Errorf("got %d bytes, want 100", got)
	}
}

func TestChunksReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(bytes.NewReader(make([]byte, 10)), iotestErrReader{boom})

	var errs []error
	for _, err := range Chunks(context.Background(), r, 100, make([]byte, 64)) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("errs = %v, want exactly [%v]", errs, boom)
	}
}

type iotestErrReader struct{ err error }

func (r iotestErrReader) Read([]byte) (int, error) { return 0, r.err }

func TestChunksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for chunk, err := range Chunks(ctx, bytes.NewReader(make([]byte, 100)), 100, make([]byte, 64)) {
		if chunk != nil || !errors.Is(err, context.Canceled) {
			t.Fatalf("got (%d bytes, %v), want context.Canceled first", len(chunk), err)
		}
	}
}

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errors.New("broken pipe")
	}
	w.n += len(p)
	return len(p), nil
}

func TestCopyRangeWriteFailure(t *testing.T) {
	s := newStreamer(100)
	w := &failingWriter{after: 250}

	written, err := s.copyRange(context.Background(), w, bytes.NewReader(make([]byte, 1000)), 1000)
	if !IsStreamWrite(err) {
		t.Fatalf("err = %v, want StreamWriteError", err)
	}
	if written != 300 {
		t.Errorf("written = %d, want 300", written)
	}
}

func TestCopyRangeCancelled(t *testing.T) {
	s := newStreamer(100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	written, err := s.copyRange(ctx, &out, bytes.NewReader(make([]byte, 1000)), 1000)
	if !IsStreamWrite(err) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want StreamWriteError wrapping context.Canceled", err)
	}
	if written != 0 || out.Len() != 0 {
		t.Errorf("wrote %d bytes after cancel", out.Len())
	}
}

func TestCopyRangeExact(t *testing.T) {
	s := newStreamer(0)
	if s.chunkSize != DefaultChunkSize {
		t.Fatalf("chunkSize = %d, want default %d", s.chunkSize, DefaultChunkSize)
	}

	data := bytes.Repeat([]byte{7}, 20000)
	var out bytes.Buffer
	written, err := s.copyRange(context.Background(), &out, bytes.NewReader(data), 12345)
	if err != nil {
		t.Fatalf("copyRange: %v", err)
	}
	if written != 12345 || out.Len() != 12345 {
		t.Errorf("written = %d, out = %d, want 12345", written, out.Len())
	}
}
