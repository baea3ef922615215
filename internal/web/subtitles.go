package web

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	maxSubtitleBytes = 16 << 20
	subtitleCacheTTL = 10 * time.Minute
)

var srtTimestamp = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),(\d{3})`)

// SRTToVTT converts SubRip text to WebVTT: a WEBVTT header followed by the
// input lines with the millisecond comma of every timestamp turned into a dot.
func SRTToVTT(srt string) string {
	srt = strings.ReplaceAll(srt, "\r\n", "\n")
	srt = strings.ReplaceAll(srt, "\r", "\n")

	var b strings.Builder
	b.Grow(len(srt) + 16)
	b.WriteString("WEBVTT\n\n")
	for _, line := range strings.Split(srt, "\n") {
		b.WriteString(srtTimestamp.ReplaceAllString(line, "$1.$2"))
		b.WriteByte('\n')
	}
	return b.String()
}

// SubtitleService reads an SRT file from a store and serves it as WebVTT.
type SubtitleService struct {
	store   FileStore
	name    string
	charset encoding.Encoding
	cache   *LRUCache
}

// NewSubtitleService decodes the SRT file name with the given IANA charset
// (for example "windows-1252" or "utf-8").
func NewSubtitleService(store FileStore, name, charset string) (*SubtitleService, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown subtitles charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported subtitles charset %q", charset)
	}

	return &SubtitleService{
		store:   store,
		name:    name,
		charset: enc,
		cache:   NewLRUCache(8),
	}, nil
}

func (s *SubtitleService) Name() string { return s.name }

// VTT returns the converted subtitles as UTF-8. A missing file is *NotFoundError.
func (s *SubtitleService) VTT(ctx context.Context) ([]byte, error) {
	exists, err := s.store.Exists(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Name: s.name}
	}
	size, err := s.store.Length(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if size > maxSubtitleBytes {
		return nil, fmt.Errorf("subtitles %v too large: %d bytes", s.name, size)
	}

	key := s.name + ":" + strconv.FormatInt(size, 10)
	if vtt, ok := s.cache.Get(key); ok {
		return vtt, nil
	}

	rc, err := s.store.OpenRangeReader(ctx, s.name, 0, size)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(s.charset.NewDecoder().Reader(rc), maxSubtitleBytes*4))
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitles %v: %w", s.name, err)
	}

	vtt := []byte(SRTToVTT(string(raw)))
	_ = s.cache.AddWithExpire(key, vtt, subtitleCacheTTL)
	return vtt, nil
}
