package web

import (
	"context"
	"io"
	"iter"
	"sync"
)

const DefaultChunkSize = 8 << 10

// Chunks yields successive reads of at most len(buf) bytes from r until n
// bytes have been produced or r reaches EOF. The yielded slice aliases buf
// and is only valid until the next iteration.
//
// Reaching EOF before n bytes ends the sequence without an error. A read
// error or a done ctx is yielded once as the final element.
func Chunks(ctx context.Context, r io.Reader, n int64, buf []byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		remaining := n
		for remaining > 0 {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			want := int64(len(buf))
			if remaining < want {
				want = remaining
			}
			nr, err := r.Read(buf[:want])
			if nr > 0 {
				remaining -= int64(nr)
				if !yield(buf[:nr], nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// streamer copies byte ranges to clients through pooled chunk buffers.
type streamer struct {
	chunkSize int
	bufs      sync.Pool
}

func newStreamer(chunkSize int) *streamer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	s := &streamer{chunkSize: chunkSize}
	s.bufs.New = func() any {
		b := make([]byte, chunkSize)
		return &b
	}
	return s
}

// copyRange writes up to n bytes from r to w, one chunk at a time. A failed
// write or a cancelled ctx ends the copy with *StreamWriteError. Read errors
// are returned as is.
func (s *streamer) copyRange(ctx context.Context, w io.Writer, r io.Reader, n int64) (int64, error) {
	bp := s.bufs.Get().(*[]byte)
	defer s.bufs.Put(bp)

	var written int64
	for chunk, err := range Chunks(ctx, r, n, *bp) {
		if err != nil {
			if ctx.Err() != nil {
				return written, &StreamWriteError{Written: written, Err: err}
			}
			return written, err
		}

		nw, werr := w.Write(chunk)
		written += int64(nw)
		if werr == nil && nw < len(chunk) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			return written, &StreamWriteError{Written: written, Err: werr}
		}
	}
	return written, nil
}
