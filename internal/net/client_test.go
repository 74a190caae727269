package net

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/protocol"
)

// testServer is an in-process board server: one websocket endpoint that
// records inbound frames and can push frames back, plus the bootstrap
// and stats HTTP endpoints.
type testServer struct {
	*httptest.Server
	upgrader websocket.Upgrader
	inbound  chan protocol.Frame
	push     chan protocol.Frame
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		inbound: make(chan protocol.Frame, 16),
		push:    make(chan protocol.Frame, 16),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/grid", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(protocol.GridInfo{Width: 200, Height: 200, ChunkSize: 100})
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(protocol.Stats{RevealedCells: 42, ActiveUsers: 3})
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		go func() {
			for f := range ts.push {
				if err := conn.WriteJSON(f); err != nil {
					return
				}
			}
			conn.Close()
		}()
		for {
			var f protocol.Frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			ts.inbound <- f
		}
	})
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Server.Close)
	return ts
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func waitEvent(t *testing.T, c *Client, kind EventKind) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestClient_BootstrapAndChunkDelivery(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(ts.wsURL(), ts.URL)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	defer c.Close()

	waitEvent(t, c, EventConnected)

	info := waitEvent(t, c, EventGridInfo).Info
	if info.Width != 200 || info.Height != 200 || info.ChunkSize != 100 {
		t.Fatalf("grid info = %+v", info)
	}

	cells := [][]grid.Cell{{{X: 0, Y: 0, Revealed: true, AdjacentMines: 2}}}
	ts.push <- protocol.Frame{Type: protocol.TypeChunkData, ChunkX: 1, ChunkY: 2, Cells: cells}

	ev := waitEvent(t, c, EventChunk)
	if ev.Chunk.Coord != (grid.ChunkCoord{CX: 1, CY: 2}) {
		t.Fatalf("chunk coord = %+v", ev.Chunk.Coord)
	}
	if got := ev.Chunk.At(0, 0); !got.Revealed || got.AdjacentMines != 2 {
		t.Fatalf("chunk cell = %+v", got)
	}
}

func TestClient_CellUpdateAndOutboundIntents(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(ts.wsURL(), ts.URL)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	defer c.Close()
	waitEvent(t, c, EventConnected)

	cell := grid.Cell{X: 105, Y: 7, Flagged: true}
	ts.push <- protocol.Frame{Type: protocol.TypeCellUpdate, ChunkX: 1, ChunkY: 0, X: 5, Y: 7, Cell: &cell}
	ev := waitEvent(t, c, EventCell)
	if ev.Coord != (grid.ChunkCoord{CX: 1, CY: 0}) || ev.LX != 5 || ev.LY != 7 || !ev.Cell.Flagged {
		t.Fatalf("cell event = %+v", ev)
	}

	c.Reveal(grid.ChunkCoord{CX: 0, CY: 0}, 3, 4)
	c.Chord(grid.ChunkCoord{CX: 1, CY: 1}, 9, 9)

	f := <-ts.inbound
	if f.Type != protocol.TypeReveal || f.X != 3 || f.Y != 4 {
		t.Fatalf("first frame = %+v", f)
	}
	f = <-ts.inbound
	if f.Type != protocol.TypeChord || f.ChunkX != 1 || f.ChunkY != 1 {
		t.Fatalf("second frame = %+v", f)
	}
}

func TestClient_DisconnectSurfacesFault(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(ts.wsURL(), ts.URL)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	waitEvent(t, c, EventConnected)

	close(ts.push) // server closes the socket
	ev := waitEvent(t, c, EventDisconnected)
	if ev.Err == nil {
		t.Fatal("disconnect event should carry the read error")
	}
}

func TestClient_StatsFetch(t *testing.T) {
	ts := newTestServer(t)
	c := NewClient(ts.wsURL(), ts.URL)
	s, err := c.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.RevealedCells != 42 || s.ActiveUsers != 3 {
		t.Fatalf("stats = %+v", s)
	}
}
