// Package view maps the continuously panning/zooming viewport onto the
// discrete chunk grid: screen/world transforms, zoom clamping and the
// visibility + pre-fetch buffer calculation.
package view

import (
	"math"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
)

// CellPixelSize is the edge of one cell in screen pixels at zoom 1.0.
const CellPixelSize = 32.0

// maxChunksAcross caps how many chunks may span the shorter canvas
// dimension: zooming out further than that makes the pre-fetch buffer
// meaningless, so the zoom clamp refuses to go there.
const maxChunksAcross = 10

// Viewport is the continuously mutable camera state. Offset is the
// screen-space translation in pixels; it has no hard bound, the board's
// own extent constrains which chunks are meaningful.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
	CanvasW int
	CanvasH int

	MinZoom float64 // configured floor; effective floor may be higher
	MaxZoom float64
}

// ScreenToWorld converts a canvas pixel position to fractional world
// cell coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := (sx - v.OffsetX) / v.Zoom / CellPixelSize
	wy := (sy - v.OffsetY) / v.Zoom / CellPixelSize
	return wx, wy
}

// ScreenToCell converts a canvas pixel position to the integer world
// cell under it.
func (v *Viewport) ScreenToCell(sx, sy float64) (int, int) {
	wx, wy := v.ScreenToWorld(sx, sy)
	return int(math.Floor(wx)), int(math.Floor(wy))
}

// Pan translates the viewport by a pointer delta in screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ClampZoom clamps z into the effective zoom range. The effective
// minimum is the larger of the configured floor and the zoom at which
// maxChunksAcross chunks would span the shorter canvas dimension.
// Idempotent: clamping a clamped value is a no-op.
func (v *Viewport) ClampZoom(z, chunkSize float64) float64 {
	floor := v.MinZoom
	shorter := float64(min(v.CanvasW, v.CanvasH))
	if chunkSize > 0 && shorter > 0 {
		limit := shorter / (maxChunksAcross * chunkSize * CellPixelSize)
		floor = max(floor, limit)
	}
	if z < floor {
		return floor
	}
	return min(z, v.MaxZoom)
}

// ZoomAt applies an anchor-preserving zoom change about the canvas
// point (sx, sy): the world point under the cursor before the change is
// still under the cursor after it.
func (v *Viewport) ZoomAt(sx, sy, newZoom float64, chunkSize int) {
	newZoom = v.ClampZoom(newZoom, float64(chunkSize))
	if newZoom == v.Zoom {
		return
	}
	// Keep (sx - offset) / zoom invariant.
	v.OffsetX = sx - (sx-v.OffsetX)*newZoom/v.Zoom
	v.OffsetY = sy - (sy-v.OffsetY)*newZoom/v.Zoom
	v.Zoom = newZoom
}

// CellRect is an inclusive rectangle of world cell coordinates.
type CellRect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// ChunkRect is an inclusive rectangle of chunk coordinates.
type ChunkRect struct {
	MinCX, MinCY int
	MaxCX, MaxCY int
}

// Contains reports whether cc lies inside the rectangle.
func (r ChunkRect) Contains(cc grid.ChunkCoord) bool {
	return cc.CX >= r.MinCX && cc.CX <= r.MaxCX && cc.CY >= r.MinCY && cc.CY <= r.MaxCY
}

// Chunks expands the rectangle to the full cross product of chunk
// coordinates inside it.
func (r ChunkRect) Chunks() []grid.ChunkCoord {
	if r.MaxCX < r.MinCX || r.MaxCY < r.MinCY {
		return nil
	}
	out := make([]grid.ChunkCoord, 0, (r.MaxCX-r.MinCX+1)*(r.MaxCY-r.MinCY+1))
	for cy := r.MinCY; cy <= r.MaxCY; cy++ {
		for cx := r.MinCX; cx <= r.MaxCX; cx++ {
			out = append(out, grid.ChunkCoord{CX: cx, CY: cy})
		}
	}
	return out
}

// VisibleCells returns the world cell rectangle covered by the canvas,
// from the inverse transform of its corners.
func (v *Viewport) VisibleCells() CellRect {
	x0, y0 := v.ScreenToWorld(0, 0)
	x1, y1 := v.ScreenToWorld(float64(v.CanvasW), float64(v.CanvasH))
	return CellRect{
		MinX: int(math.Floor(x0)),
		MinY: int(math.Floor(y0)),
		MaxX: int(math.Floor(x1)),
		MaxY: int(math.Floor(y1)),
	}
}

// VisibleChunks derives the chunk rectangle covering the visible cell
// rectangle.
func (v *Viewport) VisibleChunks(chunkSize int) ChunkRect {
	cells := v.VisibleCells()
	return ChunkRect{
		MinCX: grid.WorldToChunk(cells.MinX, chunkSize),
		MinCY: grid.WorldToChunk(cells.MinY, chunkSize),
		MaxCX: grid.WorldToChunk(cells.MaxX, chunkSize),
		MaxCY: grid.WorldToChunk(cells.MaxY, chunkSize),
	}
}

// BufferChunks is the pre-fetch margin in chunks as a step function of
// zoom: zero when zoomed far out (most chunks are LOD-skipped anyway),
// growing with zoom, capped at 3.
func BufferChunks(zoom float64) int {
	switch {
	case zoom < 0.2:
		return 0
	case zoom < 0.5:
		return 1
	case zoom < 1.0:
		return 2
	default:
		return 3
	}
}

// BufferedChunks expands the visible chunk rectangle symmetrically by
// the zoom-adaptive buffer, then clamps it into the board's chunk
// bounds. The result is recomputed whole on every viewport change.
func (v *Viewport) BufferedChunks(size grid.Size, chunkSize int) ChunkRect {
	r := v.VisibleChunks(chunkSize)
	b := BufferChunks(v.Zoom)
	r.MinCX -= b
	r.MinCY -= b
	r.MaxCX += b
	r.MaxCY += b
	mc := size.MaxChunk(chunkSize)
	r.MinCX = max(r.MinCX, 0)
	r.MinCY = max(r.MinCY, 0)
	r.MaxCX = min(r.MaxCX, mc.CX)
	r.MaxCY = min(r.MaxCY, mc.CY)
	return r
}

// LODStride is the cell-skipping factor used at low zoom: 1 at high
// zoom (full detail), doubling in steps as zoom falls.
func LODStride(zoom float64) int {
	switch {
	case zoom >= 0.5:
		return 1
	case zoom >= 0.25:
		return 2
	case zoom >= 0.125:
		return 4
	default:
		return 8
	}
}
