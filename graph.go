package shard

import (
	"sync"
)

type nodeKind int

const (
	kindSource nodeKind = iota
	kindNarrow
	kindExchange
	kindUnion
	kindCartesian
)

// node is one entry in a Context's transformation DAG. Nodes are immutable
// once created, with two exceptions which only establish materialization
// boundaries: the cached flag, and the Context's materialization slot for
// the node. Neither rewrites lineage.
type node struct {
	id          nodeID
	kind        nodeKind
	source      Source // kindSource only
	upstream    nodeID
	other       nodeID // second input for kindUnion/kindCartesian
	fn          PartitionOperation
	preserves   bool
	cached      bool
	partitioner Partitioner // known output partitioning, nil if unknown
	exchangeN   int         // kindExchange target partition count
}

type nodeID int

// graph is an arena of dataset nodes. Nodes reference upstreams by table
// index, which makes fusion a pure node-replacement operation: a fused node
// points at the original upstream source, not at the intermediate node.
type graph struct {
	mu    sync.RWMutex
	nodes []*node
}

func newGraph() *graph {
	return &graph{nodes: make([]*node, 0, 16)}
}

func (g *graph) node(id nodeID) *node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

func (g *graph) add(n *node) nodeID {
	n.id = nodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return n.id
}

func (g *graph) addSource(src Source, partitioner Partitioner) nodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: kindSource, source: src, partitioner: partitioner})
}

// addNarrow appends a narrow transformation atop upstream. When upstream is
// an uncached narrow node, the two operations are fused into one composed
// function and the new node points at upstream's own upstream, keeping the
// chain of Backend submissions at one per shuffle-free segment.
func (g *graph) addNarrow(upstream nodeID, fn PartitionOperation, preserves bool) nodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	up := g.nodes[upstream]
	if up.kind == kindNarrow && !up.cached {
		fusedPreserves := up.preserves && preserves
		var part Partitioner
		if fusedPreserves {
			part = g.nodes[up.upstream].partitioner
		}
		return g.add(&node{
			kind:        kindNarrow,
			upstream:    up.upstream,
			fn:          composeOperations(up.fn, fn),
			preserves:   fusedPreserves,
			partitioner: part,
		})
	}
	var part Partitioner
	if preserves {
		part = up.partitioner
	}
	return g.add(&node{
		kind:        kindNarrow,
		upstream:    upstream,
		fn:          fn,
		preserves:   preserves,
		partitioner: part,
	})
}

func (g *graph) addExchange(upstream nodeID, p Partitioner) nodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{
		kind:        kindExchange,
		upstream:    upstream,
		partitioner: p,
		exchangeN:   p.NumPartitions(),
	})
}

func (g *graph) addUnion(a nodeID, b nodeID) nodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: kindUnion, upstream: a, other: b})
}

func (g *graph) addCartesian(a nodeID, b nodeID) nodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: kindCartesian, upstream: a, other: b})
}

// setCached marks a node as a materialization boundary. Fusion never crosses
// a cached node; its output is computed once and reused.
func (g *graph) setCached(id nodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[id].cached = true
}

func (g *graph) numPartitions(id nodeID) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.numPartitionsLocked(id)
}

func (g *graph) numPartitionsLocked(id nodeID) int {
	n := g.nodes[id]
	switch n.kind {
	case kindSource:
		return n.source.NumPartitions()
	case kindNarrow:
		return g.numPartitionsLocked(n.upstream)
	case kindExchange:
		return n.exchangeN
	case kindUnion:
		return g.numPartitionsLocked(n.upstream) + g.numPartitionsLocked(n.other)
	case kindCartesian:
		return g.numPartitionsLocked(n.upstream) * g.numPartitionsLocked(n.other)
	default:
		return 0
	}
}
