// Package engine owns the client state (chunk cache, viewport, input
// machine, aggregate snapshot) and drives it from the Ebiten game
// loop. All mutation happens inside Update: inbound network events are
// drained from the sync adapter's channel at the top of each frame,
// which serializes them against input handling and the visibility
// pass.
package engine

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/GuyGinat/MassiveSweeperFront/internal/cache"
	"github.com/GuyGinat/MassiveSweeperFront/internal/config"
	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/input"
	"github.com/GuyGinat/MassiveSweeperFront/internal/logs"
	"github.com/GuyGinat/MassiveSweeperFront/internal/net"
	"github.com/GuyGinat/MassiveSweeperFront/internal/protocol"
	"github.com/GuyGinat/MassiveSweeperFront/internal/view"
)

// Conn is the outbound half of the sync adapter. Sends are
// fire-and-forget and must not block the game loop.
type Conn interface {
	RequestChunk(cc grid.ChunkCoord)
	Reveal(cc grid.ChunkCoord, lx, ly int)
	Flag(cc grid.ChunkCoord, lx, ly int)
	Chord(cc grid.ChunkCoord, lx, ly int)
}

// Engine is the one owned instance holding all client state. It
// implements ebiten.Game.
type Engine struct {
	conn   Conn
	events <-chan net.Event

	cache   *cache.ChunkCache
	vp      *view.Viewport
	machine *input.Machine

	stats     protocol.Stats
	connected bool

	text *textRenderer
}

// New wires an engine to a sync adapter. events may be nil for
// headless tests.
func New(cfg config.Config, conn Conn, events <-chan net.Event) *Engine {
	e := &Engine{
		conn:   conn,
		events: events,
		vp: &view.Viewport{
			Zoom:    1.0,
			CanvasW: cfg.WindowW,
			CanvasH: cfg.WindowH,
			MinZoom: cfg.MinZoom,
			MaxZoom: cfg.MaxZoom,
		},
	}
	e.cache = cache.New(func(cc grid.ChunkCoord) {
		logs.Debugf("engine: fetch chunk (%d,%d)", cc.CX, cc.CY)
		conn.RequestChunk(cc)
	})
	e.cache.SetLimit(cfg.CacheCap)
	e.machine = input.New(e.vp, func() (grid.Size, int, bool) {
		return e.cache.Size(), e.cache.ChunkSize(), e.cache.Sized()
	})
	return e
}

// Update runs one frame of mutation: network events, input, committed
// actions, then the visibility pass. Implements ebiten.Game.
func (e *Engine) Update() error {
	e.drainEvents()
	e.pollInput()
	e.refreshVisibility()
	return nil
}

// drainEvents applies every inbound event queued since the last frame.
func (e *Engine) drainEvents() {
	for {
		select {
		case ev := <-e.events:
			e.apply(ev)
		default:
			return
		}
	}
}

// apply folds one inbound event into client state.
func (e *Engine) apply(ev net.Event) {
	switch ev.Kind {
	case net.EventConnected:
		e.connected = true
	case net.EventDisconnected:
		// Connectivity fault: every pending chunk becomes retry-eligible
		// and the next visibility pass re-requests what is still wanted.
		e.connected = false
		e.cache.Invalidate()
	case net.EventGridInfo:
		e.cache.SetBoard(ev.Info.Size(), ev.Info.ChunkSize)
	case net.EventChunk:
		e.cache.ApplyChunk(ev.Chunk)
	case net.EventCell:
		e.cache.ApplyCell(ev.Coord, ev.LX, ev.LY, ev.Cell)
	case net.EventStats:
		e.stats = ev.Stats
	}
}

// commit translates a committed input action into its outbound intent.
// Reveal and chord effects come back as server-pushed cell updates;
// there is no timed re-request.
func (e *Engine) commit(a input.Action) {
	if !e.cache.Sized() {
		return
	}
	cc, lx, ly := grid.Split(a.X, a.Y, e.cache.ChunkSize())
	switch a.Kind {
	case input.ActionReveal:
		e.conn.Reveal(cc, lx, ly)
	case input.ActionFlag:
		e.conn.Flag(cc, lx, ly)
	case input.ActionChord:
		e.conn.Chord(cc, lx, ly)
	}
}

// refreshVisibility recomputes the buffered chunk rectangle for the
// current viewport and requests every member. The set is rebuilt
// whole, not patched; the cache deduplicates.
func (e *Engine) refreshVisibility() {
	if !e.cache.Sized() {
		return
	}
	e.cache.NextGeneration()
	rect := e.vp.BufferedChunks(e.cache.Size(), e.cache.ChunkSize())
	for _, cc := range rect.Chunks() {
		e.cache.Request(cc.CX, cc.CY)
	}
}

// pollInput adapts Ebiten's polled input into machine events.
func (e *Engine) pollInput() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	e.machine.SetModifier(ebiten.IsKeyPressed(ebiten.KeySpace))

	buttons := []struct {
		eb ebiten.MouseButton
		b  input.Button
	}{
		{ebiten.MouseButtonLeft, input.ButtonPrimary},
		{ebiten.MouseButtonRight, input.ButtonSecondary},
		{ebiten.MouseButtonMiddle, input.ButtonMiddle},
	}
	for _, bb := range buttons {
		if inpututil.IsMouseButtonJustPressed(bb.eb) {
			e.machine.MouseDown(bb.b, sx, sy)
		}
	}

	e.machine.MouseMove(sx, sy)

	for _, bb := range buttons {
		if inpututil.IsMouseButtonJustReleased(bb.eb) {
			if a, ok := e.machine.MouseUp(bb.b, sx, sy); ok {
				e.commit(a)
			}
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		e.machine.Wheel(sx, sy, wy)
	}

	// C copies the hovered cell coordinate.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if x, y, ok := e.machine.Hover(); ok {
			if err := clipboard.WriteAll(fmt.Sprintf("%d,%d", x, y)); err != nil {
				logs.Debugf("engine: clipboard: %v", err)
			}
		}
	}
}

// Layout reports the logical canvas size. Implements ebiten.Game.
func (e *Engine) Layout(outsideW, outsideH int) (int, int) {
	e.vp.CanvasW = outsideW
	e.vp.CanvasH = outsideH
	return outsideW, outsideH
}
