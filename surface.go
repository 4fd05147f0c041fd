package geonet

// Surface is the set of drawing capabilities the reconciler and the
// discloser need from a map. *Map implements it.
type Surface interface {
	AddMarker(marker *Layer)
	AddCurve(curve *Layer)
	AddClusterGroup(group *ClusterGroup)
	AddLayerGroup(group *Layer)
	// RemoveLayer detaches and disposes layer. Removing a layer that is not
	// on the surface is a no-op.
	RemoveLayer(layer *Layer)
	// EachLayer visits every layer on the surface depth-first. Layers may be
	// removed from inside fn.
	EachLayer(fn func(*Layer))
}

var _ Surface = (*Map)(nil)
