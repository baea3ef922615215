// Media store backed by one or more gRPC storage nodes

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	pb "videoserver/internal/proto"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const statTimeout = 10 * time.Second

// NetworkFileStore implements FileStore using a ring of storage nodes.
type NetworkFileStore struct {
	Ring    *HashRing
	Clients map[string]pb.StorageServiceClient // gRPC clients
	Conns   map[string]*grpc.ClientConn        // Client connection pool
}

var _ FileStore = (*NetworkFileStore)(nil)

// NewNetworkFileStore connects to every node. Extra dial options are applied
// after the insecure transport default.
func NewNetworkFileStore(nodes []string, opts ...grpc.DialOption) (*NetworkFileStore, error) {
	ring, err := NewHashRing(nodes, DefaultReplicas)
	if err != nil {
		return nil, err
	}

	store := &NetworkFileStore{
		Ring:    ring,
		Clients: make(map[string]pb.StorageServiceClient),
		Conns:   make(map[string]*grpc.ClientConn),
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	for _, node := range ring.Nodes() {
		conn, err := grpc.NewClient(node, dialOpts...)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to storage node %s: %w", node, err)
		}
		store.Conns[node] = conn
		store.Clients[node] = pb.NewStorageServiceClient(conn)
	}

	return store, nil
}

func (nw *NetworkFileStore) clientFor(name string) (pb.StorageServiceClient, string, error) {
	node := nw.Ring.Locate(name)
	if node == "" {
		return nil, "", fmt.Errorf("failed to get storage node for key %v", name)
	}
	client, ok := nw.Clients[node]
	if !ok {
		return nil, "", fmt.Errorf("no client available for node %s", node)
	}
	return client, node, nil
}

func (nw *NetworkFileStore) stat(ctx context.Context, name string) (*pb.StatResponse, error) {
	client, node, err := nw.clientFor(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, statTimeout)
	defer cancel()

	resp, err := client.Stat(ctx, &pb.StatRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to stat %v on node %s: %w", name, node, err)
	}
	return resp, nil
}

func (nw *NetworkFileStore) Exists(ctx context.Context, name string) (bool, error) {
	resp, err := nw.stat(ctx, name)
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (nw *NetworkFileStore) Length(ctx context.Context, name string) (int64, error) {
	resp, err := nw.stat(ctx, name)
	if err != nil {
		return 0, err
	}
	if !resp.Exists {
		return 0, &NotFoundError{Name: name}
	}
	return resp.Size, nil
}

// OpenRangeReader starts a ReadRange stream and waits for the first chunk, so
// that a missing file fails here rather than on the first Read.
func (nw *NetworkFileStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	client, node, err := nw.clientFor(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := client.ReadRange(ctx, &pb.ReadRangeRequest{Name: name, Offset: start, Length: length})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open %v on node %s: %w", name, node, err)
	}

	r := &chunkStreamReader{name: name, stream: stream, cancel: cancel}
	if err := r.fill(); err != nil && err != io.EOF {
		cancel()
		return nil, err
	}
	return r, nil
}

// Close closes all storage node connections.
func (nw *NetworkFileStore) Close() error {
	var errs []error
	for nodeAddr, conn := range nw.Conns {
		if err := conn.Close(); err != nil {
			log.Warnf("error closing connection to %s: %v", nodeAddr, err)
			errs = append(errs, err)
		}
	}
	nw.Clients = make(map[string]pb.StorageServiceClient)
	nw.Conns = make(map[string]*grpc.ClientConn)
	return errors.Join(errs...)
}

// chunkStreamReader adapts a ReadRange stream to io.Reader.
type chunkStreamReader struct {
	name    string
	stream  pb.StorageService_ReadRangeClient
	cancel  context.CancelFunc
	pending []byte
	err     error
}

func (r *chunkStreamReader) fill() error {
	for len(r.pending) == 0 && r.err == nil {
		chunk, err := r.stream.Recv()
		if err != nil {
			r.err = streamError(r.name, err)
			break
		}
		r.pending = chunk.GetData()
	}
	if len(r.pending) > 0 {
		return nil
	}
	return r.err
}

func (r *chunkStreamReader) Read(p []byte) (int, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *chunkStreamReader) Close() error {
	r.cancel()
	return nil
}

func streamError(name string, err error) error {
	if err == io.EOF {
		return io.EOF
	}
	switch status.Code(err) {
	case codes.NotFound:
		return &NotFoundError{Name: name}
	case codes.OutOfRange:
		// offset at or past the end: nothing left to read
		return io.EOF
	}
	return fmt.Errorf("failed to read %v: %w", name, err)
}
