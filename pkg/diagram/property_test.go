package diagram

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// op is one step of a random construction sequence:
// 0 opens a cluster, 1 closes the active cluster, anything else creates a node.
func runOps(ops []int) (*Diagram, map[*Cluster][]*Node, error) {
	d, err := New("prop")
	if err != nil {
		return nil, nil, err
	}
	expected := map[*Cluster][]*Node{}
	var open []*Cluster
	for _, op := range ops {
		switch op {
		case 0:
			c, err := d.OpenCluster("c")
			if err != nil {
				return nil, nil, err
			}
			open = append(open, c)
		case 1:
			if len(open) == 0 {
				continue
			}
			if err := open[len(open)-1].Close(); err != nil {
				return nil, nil, err
			}
			open = open[:len(open)-1]
		default:
			n, err := d.Node("n", "")
			if err != nil {
				return nil, nil, err
			}
			if len(open) > 0 {
				top := open[len(open)-1]
				expected[top] = append(expected[top], n)
			}
		}
	}
	for i := len(open) - 1; i >= 0; i-- {
		if err := open[i].Close(); err != nil {
			return nil, nil, err
		}
	}
	return d, expected, d.Close()
}

func TestConstructionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("cluster owns exactly the nodes created while on top", prop.ForAll(
		func(ops []int) bool {
			d, expected, err := runOps(ops)
			if err != nil {
				return false
			}
			for _, c := range d.Clusters() {
				got := c.Nodes()
				want := expected[c]
				if len(got) != len(want) {
					return false
				}
				for i := range got {
					if got[i] != want[i] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("node ids are unique", prop.ForAll(
		func(ops []int) bool {
			d, _, err := runOps(ops)
			if err != nil {
				return false
			}
			seen := map[string]bool{}
			for _, n := range d.Nodes() {
				if seen[n.ID()] {
					return false
				}
				seen[n.ID()] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("connect yields M*N edges source-major", prop.ForAll(
		func(m, n int) bool {
			d, _ := New("fan")
			src := make(Nodes, m)
			dst := make(Nodes, n)
			for i := range src {
				src[i], _ = d.Node("s", "")
			}
			for i := range dst {
				dst[i], _ = d.Node("t", "")
			}
			es, err := d.Connect(src, dst, EdgeAttrs{Label: "x"})
			if err != nil || len(es) != m*n || len(d.Edges()) != m*n {
				return false
			}
			for i, e := range es {
				if e.Source() != src[i/n] || e.Target() != dst[i%n] || e.Attrs().Label != "x" {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 8),
	))

	properties.Property("failed close leaves nodes and edges unchanged", prop.ForAll(
		func(ops []int) bool {
			d, _, err := runOps(ops)
			if err != nil {
				return false
			}
			nodes, edges := len(d.Nodes()), len(d.Edges())
			for _, c := range d.Clusters() {
				if !errors.Is(c.Close(), errors.ErrCodeScope) {
					return false
				}
			}
			if !errors.Is(d.Close(), errors.ErrCodeScope) {
				return false
			}
			return len(d.Nodes()) == nodes && len(d.Edges()) == edges
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
