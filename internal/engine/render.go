package engine

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/logs"
	"github.com/GuyGinat/MassiveSweeperFront/internal/view"
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	colorUnrevealed = color.RGBA{R: 70, G: 76, B: 86, A: 255}
	colorRevealed   = color.RGBA{R: 180, G: 184, B: 190, A: 255}
	colorPressed    = color.RGBA{R: 48, G: 52, B: 60, A: 255}
	colorMine       = color.RGBA{R: 190, G: 40, B: 40, A: 255}
	colorCellBorder = color.RGBA{R: 36, G: 40, B: 46, A: 255}
	colorRuler      = color.RGBA{R: 90, G: 100, B: 120, A: 90}
	colorRulerLabel = color.RGBA{R: 150, G: 160, B: 180, A: 255}
	colorFlag       = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	colorWatermark  = color.RGBA{R: 255, G: 255, B: 255, A: 14}
	colorOverlayBG  = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	colorOverlayFG  = color.RGBA{R: 220, G: 224, B: 230, A: 255}
	colorHover      = color.RGBA{R: 255, G: 230, B: 120, A: 200}
)

// countColors is the classic count-indexed digit palette, 1..8.
var countColors = [9]color.RGBA{
	{},
	{R: 60, G: 100, B: 240, A: 255},
	{R: 40, G: 140, B: 60, A: 255},
	{R: 210, G: 50, B: 50, A: 255},
	{R: 40, G: 50, B: 150, A: 255},
	{R: 130, G: 40, B: 40, A: 255},
	{R: 40, G: 130, B: 130, A: 255},
	{R: 30, G: 30, B: 30, A: 255},
	{R: 110, G: 110, B: 110, A: 255},
}

const overlayLineHeight = 16

// textRenderer caches a face per requested size, after the pattern of
// rebuilding a GoTextFace only when the size changes.
type textRenderer struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	failed bool
}

func (tr *textRenderer) face(size float64) *text.GoTextFace {
	if tr.source == nil {
		if tr.failed {
			return nil
		}
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			logs.Printf("render: parse font: %v", err)
			tr.failed = true
			return nil
		}
		tr.source = src
		tr.faces = make(map[float64]*text.GoTextFace)
	}
	if f, ok := tr.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: tr.source, Size: size}
	tr.faces[size] = f
	return f
}

func (e *Engine) drawText(screen *ebiten.Image, s string, x, y, size float64, clr color.Color, centered bool) {
	if e.text == nil {
		e.text = &textRenderer{}
	}
	face := e.text.face(size)
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	if centered {
		w, h := text.Measure(s, face, 0)
		x -= w / 2
		y -= h / 2
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

// Draw renders the full frame from current state: background, cells,
// rulers, watermark, overlay. It mutates nothing and is safe to re-run
// at any frequency. Implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	if e.cache.Sized() {
		e.drawCells(screen)
		e.drawRulers(screen)
		e.drawWatermark(screen)
	}
	e.drawOverlay(screen)
}

// drawCells walks the visible cell rectangle stepped by the LOD stride
// and draws every cell whose owning chunk is cached. At stride > 1 the
// sampled cell stands in for its whole block; glyphs are drawn at
// stride 1 only.
func (e *Engine) drawCells(screen *ebiten.Image) {
	chunkSize := e.cache.ChunkSize()
	size := e.cache.Size()
	zoom := e.vp.Zoom
	cellPx := view.CellPixelSize * zoom
	stride := view.LODStride(zoom)

	r := e.vp.VisibleCells()
	minX, minY := max(r.MinX, 0), max(r.MinY, 0)
	maxX, maxY := min(r.MaxX, size.Width-1), min(r.MaxY, size.Height-1)
	// Align the walk to stride multiples so blocks do not shimmer while
	// panning.
	minX -= minX % stride
	minY -= minY % stride

	px, py, pressed := e.machine.Pressed()
	hx, hy, hovered := e.machine.Hover()

	for y := minY; y <= maxY; y += stride {
		for x := minX; x <= maxX; x += stride {
			cc, lx, ly := grid.Split(x, y, chunkSize)
			chunk, ok := e.cache.Get(cc)
			if !ok {
				continue
			}
			cell := chunk.At(lx, ly)

			sx := float32(e.vp.OffsetX + float64(x)*cellPx)
			sy := float32(e.vp.OffsetY + float64(y)*cellPx)
			edge := float32(cellPx) * float32(stride)

			bg := colorUnrevealed
			switch {
			case pressed && x == px && y == py:
				bg = colorPressed
			case cell.Revealed && cell.HasMine:
				bg = colorMine
			case cell.Revealed:
				bg = colorRevealed
			}
			vector.FillRect(screen, sx, sy, edge, edge, bg, false)
			vector.StrokeRect(screen, sx, sy, edge, edge, 1, colorCellBorder, false)

			if stride > 1 {
				continue
			}
			switch {
			case cell.Flagged && !cell.Revealed:
				e.drawFlag(screen, sx, sy, float32(cellPx))
			case cell.Revealed && cell.HasMine:
				vector.FillCircle(screen, sx+edge/2, sy+edge/2, edge*0.28, color.RGBA{A: 255}, true)
			case cell.Revealed && cell.AdjacentMines > 0:
				e.drawText(screen, fmt.Sprintf("%d", cell.AdjacentMines),
					float64(sx)+cellPx/2, float64(sy)+cellPx/2,
					cellPx*0.6, countColors[cell.AdjacentMines], true)
			}
			if hovered && x == hx && y == hy {
				vector.StrokeRect(screen, sx, sy, edge, edge, 2, colorHover, false)
			}
		}
	}
}

// drawFlag draws the flag glyph: pole plus pennant.
func (e *Engine) drawFlag(screen *ebiten.Image, sx, sy, edge float32) {
	poleX := sx + edge*0.45
	top := sy + edge*0.2
	bottom := sy + edge*0.8
	vector.StrokeLine(screen, poleX, top, poleX, bottom, max(edge*0.06, 1), color.RGBA{A: 255}, false)
	// Pennant as a small filled block; a path is overkill at cell scale.
	vector.FillRect(screen, poleX, top, edge*0.3, edge*0.25, colorFlag, false)
}

// drawRulers draws gridlines on chunk boundaries and coordinate labels
// pinned to the canvas edges. Labels are screen-space, so their pixel
// size is constant, which is the world-space equivalent of scaling the
// font by 1/zoom.
func (e *Engine) drawRulers(screen *ebiten.Image) {
	chunkSize := e.cache.ChunkSize()
	size := e.cache.Size()
	cellPx := view.CellPixelSize * e.vp.Zoom

	r := e.vp.VisibleCells()
	w := float32(e.vp.CanvasW)
	h := float32(e.vp.CanvasH)

	firstX := max((r.MinX/chunkSize)*chunkSize, 0)
	for x := firstX; x <= min(r.MaxX+chunkSize, size.Width); x += chunkSize {
		sx := float32(e.vp.OffsetX + float64(x)*cellPx)
		if sx < 0 || sx > w {
			continue
		}
		vector.StrokeLine(screen, sx, 0, sx, h, 1, colorRuler, false)
		e.drawText(screen, fmt.Sprintf("%d", x), float64(sx)+3, 2, 12, colorRulerLabel, false)
	}
	firstY := max((r.MinY/chunkSize)*chunkSize, 0)
	for y := firstY; y <= min(r.MaxY+chunkSize, size.Height); y += chunkSize {
		sy := float32(e.vp.OffsetY + float64(y)*cellPx)
		if sy < 0 || sy > h {
			continue
		}
		vector.StrokeLine(screen, 0, sy, w, sy, 1, colorRuler, false)
		e.drawText(screen, fmt.Sprintf("%d", y), 3, float64(sy)+2, 12, colorRulerLabel, false)
	}
}

// drawWatermark centers a large title in world space over the board.
func (e *Engine) drawWatermark(screen *ebiten.Image) {
	size := e.cache.Size()
	cellPx := view.CellPixelSize * e.vp.Zoom
	cx := e.vp.OffsetX + float64(size.Width)/2*cellPx
	cy := e.vp.OffsetY + float64(size.Height)/2*cellPx
	e.drawText(screen, "MASSIVE SWEEPER", cx, cy, 160*e.vp.Zoom, colorWatermark, true)
}

// drawOverlay draws the fixed-position statistics panel in screen
// space: server aggregates plus the hovered cell.
func (e *Engine) drawOverlay(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("chunks loaded: %d (server %d)", e.cache.Len(), e.stats.LoadedChunks),
		fmt.Sprintf("revealed: %d  flagged: %d", e.stats.RevealedCells, e.stats.FlaggedCells),
		fmt.Sprintf("players: %d now / %d ever", e.stats.ActiveUsers, e.stats.LifetimeUsers),
		fmt.Sprintf("zoom: %.2fx", e.vp.Zoom),
	}
	if !e.connected {
		lines = append([]string{"connecting..."}, lines...)
	}
	if x, y, ok := e.machine.Hover(); ok {
		lines = append(lines, fmt.Sprintf("cell: (%d, %d)", x, y))
	}

	panelH := float32(len(lines)*overlayLineHeight + 12)
	vector.FillRect(screen, 8, 8, 230, panelH, colorOverlayBG, false)
	for i, line := range lines {
		e.drawText(screen, line, 16, float64(14+i*overlayLineHeight), 12, colorOverlayFG, false)
	}
}
