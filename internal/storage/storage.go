// Storage node: serves media files from a local directory over gRPC

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	pb "videoserver/internal/proto"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultChunkSize = 64 << 10

type StorageServer struct {
	pb.UnimplementedStorageServiceServer
	BaseDir   string
	ChunkSize int
}

func NewStorageServer(baseDir string, chunkSize int) (*StorageServer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &StorageServer{
		BaseDir:   baseDir,
		ChunkSize: chunkSize,
	}, nil
}

// resolve maps a media name to a path under BaseDir. Names that would
// escape the directory are rejected.
func (s *StorageServer) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", status.Error(codes.InvalidArgument, "name must not be empty")
	}
	clean := filepath.Clean("/" + filepath.ToSlash(name))
	if clean == "/" {
		return "", status.Errorf(codes.InvalidArgument, "invalid name %q", name)
	}
	return filepath.Join(s.BaseDir, filepath.FromSlash(clean)), nil
}

func (s *StorageServer) Stat(ctx context.Context, req *pb.StatRequest) (*pb.StatResponse, error) {
	filePath, err := s.resolve(req.Name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &pb.StatResponse{Exists: false}, nil
		}
		return nil, status.Errorf(codes.Internal, "error doing Stat on file %v: %v", req.Name, err)
	}
	if !info.Mode().IsRegular() {
		return &pb.StatResponse{Exists: false}, nil
	}

	return &pb.StatResponse{
		Exists: true,
		Size:   info.Size(),
	}, nil
}

// ReadRange streams req.Length bytes of the file starting at req.Offset, or
// everything up to the end when Length is zero, in chunks of at most
// ChunkSize bytes. The stream ends early when the client cancels.
func (s *StorageServer) ReadRange(req *pb.ReadRangeRequest, stream pb.StorageService_ReadRangeServer) error {
	filePath, err := s.resolve(req.Name)
	if err != nil {
		return err
	}
	if req.Offset < 0 {
		return status.Errorf(codes.InvalidArgument, "negative offset %d", req.Offset)
	}
	if req.Length < 0 {
		return status.Errorf(codes.InvalidArgument, "negative length %d", req.Length)
	}

	fp, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return status.Errorf(codes.NotFound, "file %v not found", req.Name)
		}
		return status.Errorf(codes.Internal, "failed to open file %v: %v", req.Name, err)
	}
	defer fp.Close()

	info, err := fp.Stat()
	if err != nil {
		return status.Errorf(codes.Internal, "error doing Stat on file %v: %v", req.Name, err)
	}
	if req.Offset > info.Size() {
		return status.Errorf(codes.OutOfRange, "offset %d beyond size %d of %v", req.Offset, info.Size(), req.Name)
	}
	if _, err := fp.Seek(req.Offset, io.SeekStart); err != nil {
		return status.Errorf(codes.Internal, "failed to seek file %v: %v", req.Name, err)
	}

	remaining := info.Size() - req.Offset
	if req.Length > 0 && req.Length < remaining {
		remaining = req.Length
	}

	ctx := stream.Context()
	var sent int64
	for sent < remaining {
		if err := ctx.Err(); err != nil {
			log.Debugf("ReadRange %v cancelled after %d bytes", req.Name, sent)
			return status.FromContextError(err).Err()
		}

		// Fresh buffer per chunk: the message may still be referenced after Send returns.
		buf := make([]byte, min(int64(s.ChunkSize), remaining-sent))
		n, rerr := fp.Read(buf)
		if n > 0 {
			if err := stream.Send(&pb.Chunk{Data: buf[:n]}); err != nil {
				return err
			}
			sent += int64(n)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return status.Errorf(codes.Internal, "error reading file %v: %v", req.Name, rerr)
		}
	}
	return nil
}
