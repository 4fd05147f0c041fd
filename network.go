package geonet

import "math"

// EdgeKind is the categorical tag of an Edge.
type EdgeKind string

// Known edge kinds. Any other string is a valid displayable kind.
const (
	EdgeKindOrigination        EdgeKind = "origination"
	EdgeKindDisposition        EdgeKind = "disposition"
	EdgeKindTransportation     EdgeKind = "transportation"
	EdgeKindOnwardDistribution EdgeKind = "onward-distribution"
)

// IsOriginClass reports whether edges of kind k are excluded from the static
// scene and only disclosed while a cluster is hovered.
func (k EdgeKind) IsOriginClass() bool {
	return k == EdgeKindOrigination || k == EdgeKindDisposition
}

// Weights is the per-node weight profile. Origin routes a node into the
// cluster group; the rest only drive the color scheme.
type Weights struct {
	Origin             float64 `json:"origin" yaml:"origin"`
	Embarkation        float64 `json:"embarkation" yaml:"embarkation"`
	Disembarkation     float64 `json:"disembarkation" yaml:"disembarkation"`
	PostDisembarkation float64 `json:"post_disembarkation" yaml:"post_disembarkation"`
}

// Node is a geographic vertex of the network. Nil coordinates make the node
// undisplayable; a nil Size contributes nothing to the radius scale.
type Node struct {
	ID      string   `json:"id" yaml:"id"`
	Lat     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
	Size    *float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Weights Weights  `json:"weights" yaml:"weights"`
	Name    string   `json:"name" yaml:"name"`
}

// Position returns the node's coordinate. ok is false when either component
// is missing or not finite.
func (n *Node) Position() (ll LatLng, ok bool) {
	if n.Lat == nil || n.Lon == nil {
		return LatLng{}, false
	}
	ll = LatLng{Lat: *n.Lat, Lng: *n.Lon}
	return ll, ll.IsFinite()
}

// Edge connects two nodes by id. Endpoints are not required to resolve.
type Edge struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Kind   EdgeKind `json:"kind" yaml:"kind"`
}

// Snapshot is the immutable input of one refresh. Edges are only resolved
// against the nodes of the same snapshot.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Bounds returns the geographic bounds of every displayable node.
func (s Snapshot) Bounds() LatLngBounds {
	var b LatLngBounds
	for i := range s.Nodes {
		if ll, ok := s.Nodes[i].Position(); ok {
			b = b.Extend(ll)
		}
	}
	return b
}

// PartitionEdges splits edges into the displayable and origin-class sets.
// Every edge lands in exactly one of them; input order is preserved.
func PartitionEdges(edges []Edge) (displayable, originClass []Edge) {
	for _, e := range edges {
		if e.Kind.IsOriginClass() {
			originClass = append(originClass, e)
		} else {
			displayable = append(displayable, e)
		}
	}
	return displayable, originClass
}

// Float returns a pointer to v. Handy for building nodes in code.
func Float(v float64) *float64 {
	return &v
}

func validSize(size *float64) bool {
	return size != nil && *size > 0 && !math.IsInf(*size, 0) && !math.IsNaN(*size)
}
