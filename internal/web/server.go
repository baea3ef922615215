// Player web server

package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:embed static
var staticFS embed.FS

// ServerOptions configures the routes built by NewServer.
type ServerOptions struct {
	Video     string // name of the media file in the store
	ChunkSize int    // streaming chunk size, DefaultChunkSize when zero
}

type server struct {
	store     FileStore
	metadata  MediaMetadataService // optional
	subtitles *SubtitleService     // optional
	videoName string

	video *VideoHandler
	mux   *http.ServeMux
	http  *http.Server
}

// NewServer builds the player server. metadata and subtitles may be nil.
func NewServer(
	store FileStore,
	metadata MediaMetadataService,
	subtitles *SubtitleService,
	opts ServerOptions,
) *server {
	s := &server{
		store:     store,
		metadata:  metadata,
		subtitles: subtitles,
		videoName: opts.Video,
		video:     NewVideoHandler(store, opts.Video, opts.ChunkSize),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.Handle("GET /static/", http.FileServerFS(staticFS))
	s.mux.Handle("/video", s.video)
	s.mux.HandleFunc("GET /subtitles", s.handleSubtitles)
	s.mux.HandleFunc("GET /api/media", s.handleMedia)

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *server) Handler() http.Handler {
	return withRequestLogging(s.mux)
}

// Start serves on lis until Shutdown is called.
func (s *server) Start(lis net.Listener) error {
	err := s.http.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight streams
// until ctx is done.
func (s *server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// RegisterMedia records the served media in the metadata service. It is a
// no-op without one.
func (s *server) RegisterMedia(ctx context.Context) error {
	if s.metadata == nil {
		return nil
	}
	meta, err := s.describe(ctx)
	if err != nil {
		return err
	}
	meta.RegisteredAt = time.Now().UTC()
	if err := s.metadata.Upsert(*meta); err != nil {
		return err
	}
	log.WithFields(log.Fields{"media": meta.Name, "length": meta.Length}).Info("registered media")
	return nil
}

// describe stats the media through the store.
func (s *server) describe(ctx context.Context) (*MediaMetadata, error) {
	exists, err := s.store.Exists(ctx, s.videoName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Name: s.videoName}
	}
	size, err := s.store.Length(ctx, s.videoName)
	if err != nil {
		return nil, err
	}
	return &MediaMetadata{
		Name:        s.videoName,
		Length:      size,
		ContentType: videoContentType,
	}, nil
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	page := indexPage{Title: s.videoName, Subtitles: s.subtitles != nil}
	if err := indexTemplate.Execute(&buf, page); err != nil {
		loggerFrom(r.Context()).Errorf("failed to render template %v: %v", indexTemplate.Name(), err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	if s.subtitles == nil {
		http.NotFound(w, r)
		return
	}

	logger := loggerFrom(r.Context()).WithField("subtitles", s.subtitles.Name())
	vtt, err := s.subtitles.VTT(r.Context())
	if err != nil {
		if IsNotFound(err) {
			logger.Warnf("%v", err)
			http.NotFound(w, r)
			return
		}
		logger.Errorf("failed to load subtitles: %v", err)
		http.Error(w, "failed to load subtitles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.Write(vtt)
}

// handleMedia returns the registered descriptor, or a live one when nothing
// is registered.
func (s *server) handleMedia(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context())

	live, err := s.describe(r.Context())
	if err != nil {
		if IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		logger.Errorf("failed to describe media: %v", err)
		http.Error(w, "failed to describe media", http.StatusInternalServerError)
		return
	}

	meta := live
	if s.metadata != nil {
		stored, err := s.metadata.Read(s.videoName)
		switch {
		case err != nil:
			logger.Warnf("failed to read media metadata, using live values: %v", err)
		case stored != nil:
			meta = stored
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(meta); err != nil {
		logger.Infof("failed to write media descriptor: %v", err)
	}
}
