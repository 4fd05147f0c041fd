package geonet

// GeometryIndex is a read-only view over one snapshot's nodes and edges.
// It is built once per refresh and never mutated afterwards.
type GeometryIndex struct {
	nodes       map[string]*Node
	bySource    map[string][]Edge
	originBySrc map[string][]Edge
	displayable []Edge
	originClass []Edge
}

// NewGeometryIndex indexes nodes by id and edges by source. When ids repeat,
// the last node wins. The slices are copied; later changes by the caller do
// not affect the index.
func NewGeometryIndex(nodes []Node, edges []Edge) *GeometryIndex {
	idx := &GeometryIndex{
		nodes:       make(map[string]*Node, len(nodes)),
		bySource:    make(map[string][]Edge),
		originBySrc: make(map[string][]Edge),
	}
	owned := make([]Node, len(nodes))
	copy(owned, nodes)
	for i := range owned {
		idx.nodes[owned[i].ID] = &owned[i]
	}
	for _, e := range edges {
		idx.bySource[e.Source] = append(idx.bySource[e.Source], e)
		if e.Kind.IsOriginClass() {
			idx.originBySrc[e.Source] = append(idx.originBySrc[e.Source], e)
		}
	}
	idx.displayable, idx.originClass = PartitionEdges(edges)
	return idx
}

// EdgesOfSource returns every edge whose source is id, in input order.
func (g *GeometryIndex) EdgesOfSource(id string) []Edge {
	return g.bySource[id]
}

// OriginEdgesOfSource returns the origin-class edges whose source is id, in
// input order.
func (g *GeometryIndex) OriginEdgesOfSource(id string) []Edge {
	return g.originBySrc[id]
}

// NodeByID returns the node with the given id.
func (g *GeometryIndex) NodeByID(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Position resolves id to a coordinate. ok is false for unknown ids and for
// nodes without a usable position.
func (g *GeometryIndex) Position(id string) (LatLng, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return LatLng{}, false
	}
	return n.Position()
}

// Displayable returns the edges drawn in the static scene.
func (g *GeometryIndex) Displayable() []Edge {
	return g.displayable
}

// OriginClass returns the edges eligible for hover disclosure.
func (g *GeometryIndex) OriginClass() []Edge {
	return g.originClass
}

// NumNodes returns the number of distinct node ids.
func (g *GeometryIndex) NumNodes() int {
	return len(g.nodes)
}
