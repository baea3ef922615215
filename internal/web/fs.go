// Local filesystem media store

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// FSFileStore implements FileStore using the local filesystem.
type FSFileStore struct {
	baseDir string
}

var _ FileStore = (*FSFileStore)(nil)

func NewFSFileStore(baseDir string) (*FSFileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating directory %v: %w", baseDir, err)
	}
	log.Debugf("serving media from %v", baseDir)

	return &FSFileStore{
		baseDir: baseDir,
	}, nil
}

// path keeps name inside baseDir.
func (s *FSFileStore) path(name string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(filepath.Clean("/"+filepath.ToSlash(name))))
}

func (s *FSFileStore) stat(name string) (fs.FileInfo, error) {
	info, err := os.Stat(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("error doing Stat on %v: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &NotFoundError{Name: name}
	}
	return info, nil
}

func (s *FSFileStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.stat(name)
	if IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *FSFileStore) Length(ctx context.Context, name string) (int64, error) {
	info, err := s.stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *FSFileStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	fp, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to open %v: %w", name, err)
	}

	if _, err := fp.Seek(start, io.SeekStart); err != nil {
		fp.Close()
		return nil, fmt.Errorf("failed to seek %v to %d: %w", name, start, err)
	}
	if length > 0 {
		return struct {
			io.Reader
			io.Closer
		}{io.LimitReader(fp, length), fp}, nil
	}
	return fp, nil
}
