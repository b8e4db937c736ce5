package diagram

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for the nodes and clusters of one diagram.
// Identifiers never depend on labels.
type IDGenerator interface {
	NodeID() string
	ClusterID() string
}

// SequentialIDs numbers nodes n1, n2, ... and clusters c1, c2, ...
// It is the default generator: each diagram gets its own counter, so output
// is reproducible and concurrently built diagrams do not interfere.
type SequentialIDs struct {
	nodes    int
	clusters int
}

// NewSequentialIDs returns a generator starting at n1 and c1.
func NewSequentialIDs() *SequentialIDs { return &SequentialIDs{} }

func (g *SequentialIDs) NodeID() string {
	g.nodes++
	return "n" + strconv.Itoa(g.nodes)
}

func (g *SequentialIDs) ClusterID() string {
	g.clusters++
	return "c" + strconv.Itoa(g.clusters)
}

// UUIDs generates random 32-character hex identifiers, unique across
// processes. Output using UUIDs is not byte-reproducible.
type UUIDs struct{}

func (UUIDs) NodeID() string    { return hexUUID() }
func (UUIDs) ClusterID() string { return hexUUID() }

func hexUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
