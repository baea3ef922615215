package web

import (
	"cmp"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"slices"
	"strconv"
)

// DefaultReplicas is the number of ring points per storage node.
const DefaultReplicas = 32

type ringPoint struct {
	hash uint64
	node string // server address in the format "host:port"
}

// HashRing maps media names onto storage nodes. Each node owns several points
// on the ring, and a name belongs to the first point at or after its hash.
// The ring is immutable once built.
type HashRing struct {
	nodes  []string
	points []ringPoint
}

func hashKey(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

func NewHashRing(nodes []string, replicas int) (*HashRing, error) {
	if replicas <= 0 {
		replicas = DefaultReplicas
	}

	ring := &HashRing{}
	for _, node := range nodes {
		if node == "" || slices.Contains(ring.nodes, node) {
			continue
		}
		ring.nodes = append(ring.nodes, node)
		for i := 0; i < replicas; i++ {
			ring.points = append(ring.points, ringPoint{
				hash: hashKey(node + "#" + strconv.Itoa(i)),
				node: node,
			})
		}
	}
	if len(ring.nodes) == 0 {
		return nil, errors.New("no storage nodes given")
	}

	slices.SortFunc(ring.points, func(a, b ringPoint) int {
		return cmp.Compare(a.hash, b.hash)
	})
	return ring, nil
}

// Nodes returns the distinct node addresses in the order given.
func (r *HashRing) Nodes() []string {
	return slices.Clone(r.nodes)
}

func (r *HashRing) Locate(name string) string {
	if len(r.nodes) == 1 {
		return r.nodes[0]
	}

	h := hashKey(name)
	i, _ := slices.BinarySearchFunc(r.points, h, func(p ringPoint, h uint64) int {
		return cmp.Compare(p.hash, h)
	})
	if i == len(r.points) {
		i = 0 // wrap around
	}
	return r.points[i].node
}
