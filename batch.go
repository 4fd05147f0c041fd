package geonet

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// submitBatches draws the sorted commands with as few DrawTriangles calls as
// possible. A batch ends when the pane changes (so the pane's labels can be
// drawn on top) or before it would exceed maxBatchVertices. It returns the
// number of draw calls issued.
func (m *Map) submitBatches(target *ebiten.Image) int {
	img := ensureWhitePixel()
	batches := 0
	label := 0
	m.batchVerts = m.batchVerts[:0]
	m.batchInds = m.batchInds[:0]

	for i := range m.commands {
		cmd := &m.commands[i]
		if i > 0 && cmd.pane != m.commands[i-1].pane {
			batches += m.flushBatch(target, img)
			label = m.drawLabels(target, m.commands[i-1].pane, label)
		}
		n := cmd.vEnd - cmd.vStart
		if len(m.batchVerts)+n > maxBatchVertices {
			batches += m.flushBatch(target, img)
		}
		base := uint16(len(m.batchVerts))
		m.batchVerts = append(m.batchVerts, m.mesh.verts[cmd.vStart:cmd.vEnd]...)
		for _, idx := range m.mesh.inds[cmd.iStart:cmd.iEnd] {
			m.batchInds = append(m.batchInds, base+idx)
		}
	}
	batches += m.flushBatch(target, img)
	m.drawLabels(target, PanePopup, label)
	return batches
}

// flushBatch submits the pending vertices and returns 1 if anything was drawn.
func (m *Map) flushBatch(target *ebiten.Image, img *ebiten.Image) int {
	if len(m.batchInds) == 0 {
		m.batchVerts = m.batchVerts[:0]
		return 0
	}
	var op ebiten.DrawTrianglesOptions
	target.DrawTriangles(m.batchVerts, m.batchInds, img, &op)
	m.batchVerts = m.batchVerts[:0]
	m.batchInds = m.batchInds[:0]
	return 1
}

// drawLabels draws labels from index from up to and including pane and
// returns the index of the first label left undrawn.
func (m *Map) drawLabels(target *ebiten.Image, pane Pane, from int) int {
	i := from
	for ; i < len(m.labels) && m.labels[i].pane <= pane; i++ {
		lb := &m.labels[i]
		ebitenutil.DebugPrintAt(target, lb.text, lb.x, lb.y)
	}
	return i
}
