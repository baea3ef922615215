package web

import (
	"fmt"
	"strings"
)

// NewMetadataService opens a metadata backend from a "kind:options" spec:
// "sqlite:path/to/db" or "etcd:host1:2379,host2:2379".
func NewMetadataService(spec string) (MediaMetadataService, error) {
	kind, opts, ok := strings.Cut(spec, ":")
	if !ok || opts == "" {
		return nil, fmt.Errorf("invalid metadata spec %q, want kind:options", spec)
	}

	switch kind {
	case "sqlite":
		return NewSQLiteMediaMetadataService(opts)
	case "etcd":
		return NewEtcdMediaMetadataService(opts)
	default:
		return nil, fmt.Errorf("unsupported metadata service %q", kind)
	}
}
