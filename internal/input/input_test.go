package input

import (
	"math"
	"testing"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/view"
)

func testMachine() (*Machine, *view.Viewport) {
	vp := &view.Viewport{
		Zoom:    1.0,
		CanvasW: 800,
		CanvasH: 600,
		MinZoom: 0.05,
		MaxZoom: 4.0,
	}
	board := func() (grid.Size, int, bool) {
		return grid.Size{Width: 200, Height: 200}, 100, true
	}
	return New(vp, board), vp
}

// screenFor returns the canvas centre of a world cell at zoom 1.
func screenFor(vp *view.Viewport, x, y int) (float64, float64) {
	sx := vp.OffsetX + (float64(x)+0.5)*view.CellPixelSize*vp.Zoom
	sy := vp.OffsetY + (float64(y)+0.5)*view.CellPixelSize*vp.Zoom
	return sx, sy
}

func TestReveal_CommitsOnRelease(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 3, 4)

	m.MouseDown(ButtonPrimary, sx, sy)
	if m.State() != CellPressed {
		t.Fatalf("state=%v, want CellPressed", m.State())
	}
	if px, py, ok := m.Pressed(); !ok || px != 3 || py != 4 {
		t.Fatalf("pressed=(%d,%d,%v), want (3,4,true)", px, py, ok)
	}

	a, ok := m.MouseUp(ButtonPrimary, sx, sy)
	if !ok || a.Kind != ActionReveal || a.X != 3 || a.Y != 4 {
		t.Fatalf("got %+v ok=%v, want reveal at (3,4)", a, ok)
	}
	if _, _, ok := m.Pressed(); ok {
		t.Fatal("pressed indicator not cleared on release")
	}
	if m.State() != Idle {
		t.Fatalf("state=%v after release, want Idle", m.State())
	}
}

func TestFlag_SecondaryButton(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 7, 7)
	m.MouseDown(ButtonSecondary, sx, sy)
	a, ok := m.MouseUp(ButtonSecondary, sx, sy)
	if !ok || a.Kind != ActionFlag || a.X != 7 || a.Y != 7 {
		t.Fatalf("got %+v ok=%v, want flag at (7,7)", a, ok)
	}
}

func TestChord_ExactlyOneAction(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 5, 5)

	m.MouseDown(ButtonPrimary, sx, sy)
	m.MouseDown(ButtonSecondary, sx, sy)

	// Either button's release triggers the chord.
	a, ok := m.MouseUp(ButtonSecondary, sx, sy)
	if !ok || a.Kind != ActionChord || a.X != 5 || a.Y != 5 {
		t.Fatalf("got %+v ok=%v, want chord at (5,5)", a, ok)
	}

	// The trailing release must not commit anything.
	if a, ok := m.MouseUp(ButtonPrimary, sx, sy); ok {
		t.Fatalf("trailing release committed %+v", a)
	}
}

func TestChord_OppositeReleaseOrder(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 5, 5)
	m.MouseDown(ButtonSecondary, sx, sy)
	m.MouseDown(ButtonPrimary, sx, sy)
	a, ok := m.MouseUp(ButtonPrimary, sx, sy)
	if !ok || a.Kind != ActionChord {
		t.Fatalf("got %+v ok=%v, want chord", a, ok)
	}
}

func TestRelease_OffCellCancels(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 2, 2)
	m.MouseDown(ButtonPrimary, sx, sy)

	ox, oy := screenFor(vp, 3, 2)
	if a, ok := m.MouseUp(ButtonPrimary, ox, oy); ok {
		t.Fatalf("release over different cell committed %+v", a)
	}
	if _, _, ok := m.Pressed(); ok {
		t.Fatal("pressed indicator survived a cancel")
	}
}

func TestPress_OutOfBoundsIgnored(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 500, 500) // board is 200x200
	m.MouseDown(ButtonPrimary, sx, sy)
	if m.State() != Idle {
		t.Fatal("out-of-bounds press should not enter CellPressed")
	}
	if a, ok := m.MouseUp(ButtonPrimary, sx, sy); ok {
		t.Fatalf("out-of-bounds click committed %+v", a)
	}
}

func TestModifierPan_TranslatesViewport(t *testing.T) {
	m, vp := testMachine()
	m.SetModifier(true)
	m.MouseDown(ButtonPrimary, 100, 100)
	if m.State() != Panning {
		t.Fatalf("state=%v, want Panning", m.State())
	}
	m.MouseMove(130, 80)
	if vp.OffsetX != 30 || vp.OffsetY != -20 {
		t.Fatalf("offset=(%v,%v), want (30,-20)", vp.OffsetX, vp.OffsetY)
	}
	if a, ok := m.MouseUp(ButtonPrimary, 130, 80); ok {
		t.Fatalf("pan release committed %+v", a)
	}
	if m.State() != Idle {
		t.Fatal("pan release should return to Idle")
	}
}

func TestMiddleDrag_PansWithoutModifier(t *testing.T) {
	m, vp := testMachine()
	m.MouseDown(ButtonMiddle, 50, 50)
	m.MouseMove(60, 65)
	if vp.OffsetX != 10 || vp.OffsetY != 15 {
		t.Fatalf("offset=(%v,%v), want (10,15)", vp.OffsetX, vp.OffsetY)
	}
}

func TestHover_TracksAndClears(t *testing.T) {
	m, vp := testMachine()
	sx, sy := screenFor(vp, 9, 1)
	m.MouseMove(sx, sy)
	if x, y, ok := m.Hover(); !ok || x != 9 || y != 1 {
		t.Fatalf("hover=(%d,%d,%v), want (9,1,true)", x, y, ok)
	}
	ox, oy := screenFor(vp, -10, -10)
	m.MouseMove(ox, oy)
	if _, _, ok := m.Hover(); ok {
		t.Fatal("hover not cleared out of bounds")
	}
}

func TestWheel_AnchorPreservingAndClamped(t *testing.T) {
	m, vp := testMachine()
	wx0, wy0 := vp.ScreenToWorld(400, 300)
	m.Wheel(400, 300, 2)
	if vp.Zoom <= 1.0 {
		t.Fatalf("zoom=%v, want > 1 after wheel up", vp.Zoom)
	}
	wx1, wy1 := vp.ScreenToWorld(400, 300)
	if math.Abs(wx1-wx0) > 1e-9 || math.Abs(wy1-wy0) > 1e-9 {
		t.Fatalf("anchor moved from (%v,%v) to (%v,%v)", wx0, wy0, wx1, wy1)
	}

	for i := 0; i < 100; i++ {
		m.Wheel(400, 300, 5)
	}
	if vp.Zoom > vp.MaxZoom {
		t.Fatalf("zoom=%v exceeds max %v", vp.Zoom, vp.MaxZoom)
	}
}
