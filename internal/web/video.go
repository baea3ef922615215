package web

import (
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

const videoContentType = "video/mp4"

// VideoHandler serves one media file with byte-range support.
//
// Each request resolves its own interval and opens its own reader; the
// handler itself holds only read-only configuration and a buffer pool.
type VideoHandler struct {
	store  FileStore
	name   string
	stream *streamer
}

// NewVideoHandler serves the file name from store. A chunkSize of zero or
// less means DefaultChunkSize.
func NewVideoHandler(store FileStore, name string, chunkSize int) *VideoHandler {
	return &VideoHandler{
		store:  store,
		name:   name,
		stream: newStreamer(chunkSize),
	}
}

func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Accept-Ranges", "bytes")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := loggerFrom(ctx).WithField("media", h.name)

	exists, err := h.store.Exists(ctx, h.name)
	if err != nil {
		logger.Errorf("failed to look up media: %v", err)
		http.Error(w, "failed to look up media", http.StatusInternalServerError)
		return
	}
	if !exists {
		logger.Warn("media not found")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	size, err := h.store.Length(ctx, h.name)
	if err != nil {
		h.failLookup(w, logger, err)
		return
	}

	status := http.StatusOK
	rng := fullRange(size)
	if header := r.Header.Get("Range"); header != "" {
		parsed, err := ParseRange(header, size)
		switch {
		case err == nil:
			status = http.StatusPartialContent
			rng = parsed
		case IsUnsatisfiableRange(err):
			logger.Infof("%v", err)
			w.Header().Set("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
			http.Error(w, "range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
			return
		default:
			// Malformed ranges are ignored and the whole file is served.
			logger.Warnf("ignoring %v", err)
		}
	}

	header := w.Header()
	header.Set("Content-Type", videoContentType)
	header.Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
	if status == http.StatusPartialContent {
		header.Set("Content-Range", rng.ContentRange(size))
	}

	if r.Method == http.MethodHead || rng.Length() == 0 {
		w.WriteHeader(status)
		return
	}

	rc, err := h.store.OpenRangeReader(ctx, h.name, rng.Start, rng.Length())
	if err != nil {
		for _, k := range []string{"Content-Type", "Content-Length", "Content-Range"} {
			header.Del(k)
		}
		h.failLookup(w, logger, err)
		return
	}
	defer rc.Close()

	w.WriteHeader(status)
	written, err := h.stream.copyRange(ctx, w, rc, rng.Length())
	switch {
	case err == nil && written < rng.Length():
		logger.Warnf("media ended early: sent %d of %d bytes", written, rng.Length())
	case IsStreamWrite(err):
		logger.Infof("client went away: %v", err)
	case err != nil:
		logger.Errorf("failed to stream media after %d bytes: %v", written, err)
	default:
		logger.WithFields(log.Fields{
			"status": status,
			"start":  rng.Start,
			"end":    rng.End,
		}).Debug("streamed media")
	}
}

func (h *VideoHandler) failLookup(w http.ResponseWriter, logger *log.Entry, err error) {
	if IsNotFound(err) {
		logger.Warnf("%v", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	logger.Errorf("failed to access media: %v", err)
	http.Error(w, "failed to access media", http.StatusInternalServerError)
}
