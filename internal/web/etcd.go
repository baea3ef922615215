// etcd media metadata service

package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/etcd/api/v3/v3rpc/rpctypes"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const etcdTimeout = 5 * time.Second

type EtcdMediaMetadataService struct {
	DBClient  *clientv3.Client
	Endpoints []string
	prefix    string // Prefix to use while getting keys from the DB
}

var _ MediaMetadataService = (*EtcdMediaMetadataService)(nil)

// NewEtcdMediaMetadataService takes a comma separated endpoint list.
func NewEtcdMediaMetadataService(endpoints string) (*EtcdMediaMetadataService, error) {
	var endpointList []string
	for _, ep := range strings.Split(endpoints, ",") {
		if ep = strings.TrimSpace(ep); ep != "" {
			endpointList = append(endpointList, ep)
		}
	}
	if len(endpointList) == 0 {
		return nil, errors.New("no etcd endpoints given")
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpointList,
		DialTimeout: etcdTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &EtcdMediaMetadataService{
		DBClient:  cli,
		Endpoints: endpointList,
		prefix:    "media:",
	}, nil
}

func etcdError(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: ctx is canceled by another routine: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: ctx is attached with a deadline is exceeded: %w", op, err)
	case errors.Is(err, rpctypes.ErrEmptyKey):
		return fmt.Errorf("%s: client-side error: %w", op, err)
	}
	return fmt.Errorf("%s: bad cluster endpoints, which are not etcd servers: %w", op, err)
}

func (ms *EtcdMediaMetadataService) Read(name string) (*MediaMetadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), etcdTimeout)
	defer cancel()

	resp, err := ms.DBClient.Get(ctx, ms.prefix+name)
	if err != nil {
		return nil, etcdError("read", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, nil
	}

	var meta MediaMetadata
	if err := json.Unmarshal(resp.Kvs[0].Value, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal media metadata: %w", err)
	}
	meta.Name = name
	return &meta, nil
}

func (ms *EtcdMediaMetadataService) Upsert(meta MediaMetadata) error {
	ctx, cancel := context.WithTimeout(context.Background(), etcdTimeout)
	defer cancel()

	value, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if _, err = ms.DBClient.Put(ctx, ms.prefix+meta.Name, string(value)); err != nil {
		return etcdError("upsert", err)
	}
	return nil
}

func (ms *EtcdMediaMetadataService) Close() error {
	if err := ms.DBClient.Close(); err != nil {
		return fmt.Errorf("failed to close etcd client conn: %w", err)
	}
	return nil
}
