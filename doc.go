// Package geonet is a retained-mode geospatial network renderer for [Ebitengine].
//
// geonet turns a [Snapshot] of geographic nodes and typed edges into an
// interactive map scene: log-scaled circle markers, curved and animated
// trajectory edges, screen-space marker clustering, and hover-driven
// disclosure of a cluster's origin-class edges.
//
// # Quick start
//
//	m := geonet.NewMap(geonet.Rect{Width: 1280, Height: 720})
//	r := geonet.NewSceneReconciler(m, geonet.DefaultRendererConfig())
//	r.Refresh(snap)
//	m.View().FitBounds(snap.Bounds(), 40)
//	geonet.Run(m, geonet.RunConfig{Title: "voyages", Width: 1280, Height: 720})
//
// For full control, implement [ebiten.Game] yourself and call [Map.Update]
// and [Map.Draw] directly.
//
// # Scene
//
// Every drawable is a [Layer]. Layers form a tree rooted at [Map.Root];
// [LayerKind] decides how a layer draws and hit-tests. A [ClusterGroup]
// holds markers and shows an icon wherever two or more share a grid cell at
// the current zoom. [Pane] orders layers coarsely: curves under markers
// under popups.
//
// # Refresh and hover
//
// A [SceneReconciler] owns everything it draws. [SceneReconciler.Refresh]
// removes its previous layers, and only those, then rebuilds curves, markers
// and the cluster group from a new snapshot. Nodes with a positive origin
// weight go into the cluster group; the rest are drawn above it. While the
// pointer is over a cluster icon, the [HoverEdgeDiscloser] shows the
// origination and disposition edges of the cluster's members.
//
// All of this runs on the goroutine that drives the map. Data arriving on
// other goroutines is handed over with [Map.Enqueue].
//
// [Ebitengine]: https://ebitengine.org
package geonet
