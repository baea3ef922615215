package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

// memStore is an in-memory FileStore that tracks open readers.
type memStore struct {
	files   map[string][]byte
	openErr error

	opens  atomic.Int32
	closes atomic.Int32
}

func newMemStore(files map[string][]byte) *memStore {
	return &memStore{files: files}
}

func (m *memStore) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := m.files[name]
	return ok, nil
}

func (m *memStore) Length(ctx context.Context, name string) (int64, error) {
	data, ok := m.files[name]
	if !ok {
		return 0, &NotFoundError{Name: name}
	}
	return int64(len(data)), nil
}

func (m *memStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	m.opens.Add(1)
	if m.openErr != nil {
		return nil, m.openErr
	}
	data, ok := m.files[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	r := bytes.NewReader(data)
	r.Seek(start, io.SeekStart)
	if length > 0 {
		return &trackedReader{Reader: io.LimitReader(r, length), closes: &m.closes}, nil
	}
	return &trackedReader{Reader: r, closes: &m.closes}, nil
}

func (m *memStore) open() int32 {
	return m.opens.Load() - m.closes.Load()
}

type trackedReader struct {
	io.Reader
	closes *atomic.Int32
}

func (t *trackedReader) Close() error {
	t.closes.Add(1)
	return nil
}

func testVideo(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func serve(h http.Handler, method, rangeHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/video", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVideoFullFile(t *testing.T) {
	data := testVideo(50_000)
	store := newMemStore(map[string][]byte{"video.mp4": data})
	h := NewVideoHandler(store, "video.mp4", 8<<10)

	rec := serve(h, http.MethodGet, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "50000" {
		t.Errorf("Content-Length = %q", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q", got)
	}
	if rec.Header().Get("Content-Range") != "" {
		t.Errorf("unexpected Content-Range on 200")
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Errorf("body differs from file (%d bytes)", rec.Body.Len())
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open", n)
	}
}

func TestVideoPartial(t *testing.T) {
	data := testVideo(100_000)
	store := newMemStore(map[string][]byte{"video.mp4": data})
	h := NewVideoHandler(store, "video.mp4", 8<<10)

	tests := []struct {
		header     string
		start, end int
	}{
		{"bytes=0-0", 0, 0},
		{"bytes=1000-1999", 1000, 1999},
		{"bytes=99000-", 99000, 99999},
		{"bytes=90000-200000", 90000, 99999},
	}
	for _, tt := range tests {
		rec := serve(h, http.MethodGet, tt.header)
		if rec.Code != http.StatusPartialContent {
			t.Errorf("%s: status = %d, want 206", tt.header, rec.Code)
			continue
		}
		wantCR := fmt.Sprintf("bytes %d-%d/100000", tt.start, tt.end)
		if got := rec.Header().Get("Content-Range"); got != wantCR {
			t.Errorf("%s: Content-Range = %q, want %q", tt.header, got, wantCR)
		}
		if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(tt.end-tt.start+1) {
			t.Errorf("%s: Content-Length = %q", tt.header, got)
		}
		if !bytes.Equal(rec.Body.Bytes(), data[tt.start:tt.end+1]) {
			t.Errorf("%s: body differs from file slice", tt.header)
		}
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open", n)
	}
}

func TestVideoNotFound(t *testing.T) {
	store := newMemStore(map[string][]byte{})
	h := NewVideoHandler(store, "video.mp4", 0)

	rec := serve(h, http.MethodGet, "bytes=0-10")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("404 body = %q, want empty", rec.Body.String())
	}
	if n := store.opens.Load(); n != 0 {
		t.Errorf("store opened %d times for a missing file", n)
	}
}

func TestVideoUnsatisfiable(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": testVideo(1000)})
	h := NewVideoHandler(store, "video.mp4", 0)

	for _, header := range []string{"bytes=1000-", "bytes=5000-6000", "bytes=500-100", "bytes=99999999999999999999-"} {
		rec := serve(h, http.MethodGet, header)
		if rec.Code != http.StatusRequestedRangeNotSatisfiable {
			t.Errorf("%s: status = %d, want 416", header, rec.Code)
		}
		if got := rec.Header().Get("Content-Range"); got != "bytes */1000" {
			t.Errorf("%s: Content-Range = %q", header, got)
		}
	}
	if n := store.opens.Load(); n != 0 {
		t.Errorf("store opened %d times for unsatisfiable ranges", n)
	}
}

func TestVideoMalformedServesWholeFile(t *testing.T) {
	data := testVideo(3000)
	store := newMemStore(map[string][]byte{"video.mp4": data})
	h := NewVideoHandler(store, "video.mp4", 0)

	for _, header := range []string{"bytes=abc-", "bytes=-500", "pages=1-2"} {
		rec := serve(h, http.MethodGet, header)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", header, rec.Code)
		}
		if !bytes.Equal(rec.Body.Bytes(), data) {
			t.Errorf("%s: body is not the whole file", header)
		}
	}
}

func TestVideoHeadAndMethods(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": testVideo(4096)})
	h := NewVideoHandler(store, "video.mp4", 0)

	rec := serve(h, http.MethodHead, "bytes=0-99")
	if rec.Code != http.StatusPartialContent {
		t.Errorf("HEAD status = %d, want 206", rec.Code)
	}
	if got := rec.Header().Get("Content-Length"); got != "100" {
		t.Errorf("HEAD Content-Length = %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD wrote %d body bytes", rec.Body.Len())
	}
	if n := store.opens.Load(); n != 0 {
		t.Errorf("HEAD opened the file")
	}

	rec = serve(h, http.MethodPost, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "GET, HEAD" {
		t.Errorf("Allow = %q", got)
	}
}

func TestVideoEmptyFile(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": {}})
	h := NewVideoHandler(store, "video.mp4", 0)

	rec := serve(h, http.MethodGet, "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("got %d with %d bytes, want empty 200", rec.Code, rec.Body.Len())
	}
	if rec := serve(h, http.MethodGet, "bytes=0-"); rec.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("range on empty file: status = %d, want 416", rec.Code)
	}
}

func TestVideoOpenFailure(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": testVideo(10)})
	store.openErr = errors.New("node unreachable")
	h := NewVideoHandler(store, "video.mp4", 0)

	rec := serve(h, http.MethodGet, "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got == "video/mp4" {
		t.Errorf("error response kept video Content-Type")
	}

	store.openErr = &NotFoundError{Name: "video.mp4"}
	if rec := serve(h, http.MethodGet, ""); rec.Code != http.StatusNotFound {
		t.Errorf("vanished file: status = %d, want 404", rec.Code)
	}
}

// stallingWriter accepts a fixed number of writes, then fails.
type stallingWriter struct {
	header http.Header
	writes int
	limit  int
	code   int
}

func (w *stallingWriter) Header() http.Header { return w.header }
func (w *stallingWriter) WriteHeader(code int) { w.code = code }
func (w *stallingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.limit {
		return 0, errors.New("connection reset by peer")
	}
	w.writes++
	return len(p), nil
}

func TestVideoClientDisconnect(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": testVideo(1 << 20)})
	h := NewVideoHandler(store, "video.mp4", 1024)

	w := &stallingWriter{header: http.Header{}, limit: 3}
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/video", nil))

	if w.writes != 3 {
		t.Errorf("writes = %d, want streaming to stop after the failed write", w.writes)
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open after disconnect", n)
	}
}

func TestVideoCancelledRequest(t *testing.T) {
	store := newMemStore(map[string][]byte{"video.mp4": testVideo(1 << 20)})
	h := NewVideoHandler(store, "video.mp4", 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video", nil).WithContext(ctx))

	if rec.Body.Len() != 0 {
		t.Errorf("wrote %d bytes for a cancelled request", rec.Body.Len())
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open", n)
	}
}

func TestVideoConcurrentRanges(t *testing.T) {
	data := testVideo(200_000)
	store := newMemStore(map[string][]byte{"video.mp4": data})
	h := NewVideoHandler(store, "video.mp4", 4096)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := i * 9000
			end := start + 8999
			rec := serve(h, http.MethodGet, fmt.Sprintf("bytes=%d-%d", start, end))
			if rec.Code != http.StatusPartialContent {
				errs <- fmt.Errorf("range %d: status %d", i, rec.Code)
				return
			}
			if !bytes.Equal(rec.Body.Bytes(), data[start:end+1]) {
				errs <- fmt.Errorf("range %d: body mismatch", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open", n)
	}
}

func TestVideoThousandByteFile(t *testing.T) {
	data := testVideo(1000)
	h := NewVideoHandler(newMemStore(map[string][]byte{"video.mp4": data}), "video.mp4", 0)

	rec := serve(h, http.MethodGet, "bytes=0-")
	if rec.Code != http.StatusPartialContent || rec.Header().Get("Content-Range") != "bytes 0-999/1000" || rec.Body.Len() != 1000 {
		t.Errorf("bytes=0-: %d %q %d bytes", rec.Code, rec.Header().Get("Content-Range"), rec.Body.Len())
	}

	rec = serve(h, http.MethodGet, "bytes=500-")
	if rec.Code != http.StatusPartialContent || rec.Header().Get("Content-Range") != "bytes 500-999/1000" || !bytes.Equal(rec.Body.Bytes(), data[500:]) {
		t.Errorf("bytes=500-: %d %q %d bytes", rec.Code, rec.Header().Get("Content-Range"), rec.Body.Len())
	}

	rec = serve(h, http.MethodGet, "bytes=2000-")
	if rec.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("bytes=2000-: status = %d, want 416", rec.Code)
	}

	// an end too large for int64 is clamped like any other end past the file
	rec = serve(h, http.MethodGet, "bytes=0-99999999999999999999")
	if rec.Code != http.StatusPartialContent || rec.Header().Get("Content-Range") != "bytes 0-999/1000" || !bytes.Equal(rec.Body.Bytes(), data) {
		t.Errorf("huge end: %d %q %d bytes", rec.Code, rec.Header().Get("Content-Range"), rec.Body.Len())
	}
}

// readSizeStore hands out readers that record every Read size.
type readSizeStore struct {
	*memStore
	reader        *recordingReader
	start, length int64
}

func (s *readSizeStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	s.start, s.length = start, length
	rc, err := s.memStore.OpenRangeReader(ctx, name, start, length)
	if err != nil {
		return nil, err
	}
	s.reader = &recordingReader{r: rc}
	return struct {
		io.Reader
		io.Closer
	}{s.reader, rc}, nil
}

func TestVideoStreamsInChunks(t *testing.T) {
	const chunk = 8 << 10
	store := &readSizeStore{memStore: newMemStore(map[string][]byte{"video.mp4": testVideo(1 << 20)})}
	h := NewVideoHandler(store, "video.mp4", chunk)

	rec := serve(h, http.MethodGet, "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 1<<20 {
		t.Fatalf("got %d with %d bytes", rec.Code, rec.Body.Len())
	}
	if n := len(store.reader.sizes); n < (1<<20)/chunk {
		t.Errorf("file read in %d reads, want at least %d", n, (1<<20)/chunk)
	}
	for _, n := range store.reader.sizes {
		if n > chunk {
			t.Fatalf("read of %d bytes exceeds the %d byte chunk", n, chunk)
		}
	}
	if n := store.open(); n != 0 {
		t.Errorf("%d readers left open", n)
	}
}

func TestVideoOpensOnlyTheRange(t *testing.T) {
	data := testVideo(1 << 20)
	store := &readSizeStore{memStore: newMemStore(map[string][]byte{"video.mp4": data})}
	h := NewVideoHandler(store, "video.mp4", 8<<10)

	rec := serve(h, http.MethodGet, "bytes=4096-8191")
	if rec.Code != http.StatusPartialContent || !bytes.Equal(rec.Body.Bytes(), data[4096:8192]) {
		t.Fatalf("got %d with %d bytes", rec.Code, rec.Body.Len())
	}
	if store.start != 4096 || store.length != 4096 {
		t.Errorf("opened at %d for %d bytes, want 4096 for 4096", store.start, store.length)
	}

	serve(h, http.MethodGet, "")
	if store.start != 0 || store.length != 1<<20 {
		t.Errorf("full file opened at %d for %d bytes", store.start, store.length)
	}
}
