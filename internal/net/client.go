// Package net is the sync adapter: it translates committed actions
// into outbound protocol frames and inbound frames into events the
// engine applies to its chunk cache. All inbound traffic (pushed
// frames, bootstrap results, polled aggregates, connection faults)
// funnels through one buffered event channel drained by the game loop,
// which is the single serialization point around cache mutation.
package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/logs"
	"github.com/GuyGinat/MassiveSweeperFront/internal/protocol"
)

// EventKind classifies an inbound event.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventChunk
	EventCell
	EventGridInfo
	EventStats
)

// Event is one inbound occurrence for the engine to apply.
type Event struct {
	Kind  EventKind
	Chunk *grid.Chunk
	Coord grid.ChunkCoord
	LX    int
	LY    int
	Cell  grid.Cell
	Info  protocol.GridInfo
	Stats protocol.Stats
	Err   error
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	bootstrapRetry = 3 * time.Second
	statsInterval  = 5 * time.Second
)

// Client is the websocket connection to the board server plus its HTTP
// side channels (bootstrap, aggregates).
type Client struct {
	wsURL    string
	httpBase string
	http     *http.Client

	mu   sync.Mutex // serializes writes to conn
	conn *websocket.Conn

	events chan Event
}

// NewClient prepares a client for the given websocket URL and HTTP
// base URL. Call Run to connect.
func NewClient(wsURL, httpBase string) *Client {
	return &Client{
		wsURL:    wsURL,
		httpBase: httpBase,
		http:     &http.Client{Timeout: 10 * time.Second},
		events:   make(chan Event, 256),
	}
}

// Events is the inbound event stream. The engine drains it once per
// frame; no other goroutine may mutate engine state.
func (c *Client) Events() <-chan Event { return c.events }

// Run dials the server and starts the reader, ping, bootstrap and
// stats-polling goroutines. It returns once the dial has succeeded or
// failed; the reader reports later faults as EventDisconnected.
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.wsURL, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.events <- Event{Kind: EventConnected}
	go c.readLoop(conn)
	go c.pingLoop(ctx, conn)
	go c.bootstrapLoop(ctx)
	go c.pollStats(ctx)
	return nil
}

// Close tears the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		var f protocol.Frame
		if err := conn.ReadJSON(&f); err != nil {
			logs.Debugf("net: read: %v", err)
			c.events <- Event{Kind: EventDisconnected, Err: err}
			return
		}
		switch f.Type {
		case protocol.TypeChunkData:
			c.events <- Event{
				Kind:  EventChunk,
				Chunk: &grid.Chunk{Coord: f.Coord(), Cells: f.Cells},
			}
		case protocol.TypeCellUpdate:
			if f.Cell == nil {
				continue
			}
			c.events <- Event{
				Kind:  EventCell,
				Coord: f.Coord(),
				LX:    f.X,
				LY:    f.Y,
				Cell:  *f.Cell,
			}
		default:
			logs.Debugf("net: unknown frame type %q", f.Type)
		}
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.mu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// bootstrapLoop fetches the grid dimensions, retrying on a fixed
// interval until a fetch succeeds. The engine is not request-capable
// until the resulting EventGridInfo lands.
func (c *Client) bootstrapLoop(ctx context.Context) {
	for {
		info, err := c.FetchGridInfo(ctx)
		if err == nil {
			c.events <- Event{Kind: EventGridInfo, Info: info}
			return
		}
		logs.Debugf("net: bootstrap: %v", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(bootstrapRetry):
		}
	}
}

// pollStats fetches the server aggregates on a fixed interval,
// independent of the push channel. Poll failures are skipped silently.
func (c *Client) pollStats(ctx context.Context) {
	t := time.NewTicker(statsInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			stats, err := c.FetchStats(ctx)
			if err != nil {
				logs.Debugf("net: stats: %v", err)
				continue
			}
			c.events <- Event{Kind: EventStats, Stats: stats}
		}
	}
}

// FetchGridInfo performs the one-time bootstrap query.
func (c *Client) FetchGridInfo(ctx context.Context) (protocol.GridInfo, error) {
	var info protocol.GridInfo
	if err := c.getJSON(ctx, c.httpBase+"/grid", &info); err != nil {
		return info, err
	}
	if info.Width <= 0 || info.Height <= 0 || info.ChunkSize <= 0 {
		return info, fmt.Errorf("bootstrap: implausible grid info %+v", info)
	}
	return info, nil
}

// FetchStats fetches the aggregate counters.
func (c *Client) FetchStats(ctx context.Context) (protocol.Stats, error) {
	var s protocol.Stats
	err := c.getJSON(ctx, c.httpBase+"/stats", &s)
	return s, err
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// send writes one frame, fire-and-forget: failures are logged and
// otherwise ignored, the read side will surface the fault.
func (c *Client) send(f protocol.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(f); err != nil {
		logs.Debugf("net: send %s: %v", f.Type, err)
	}
}

// RequestChunk emits the fetch intent for one chunk.
func (c *Client) RequestChunk(cc grid.ChunkCoord) {
	c.send(protocol.RequestChunk(cc))
}

// Reveal emits the reveal intent for a chunk-local cell.
func (c *Client) Reveal(cc grid.ChunkCoord, lx, ly int) {
	c.send(protocol.Reveal(cc, lx, ly))
}

// Flag emits the flag-toggle intent for a chunk-local cell.
func (c *Client) Flag(cc grid.ChunkCoord, lx, ly int) {
	c.send(protocol.Flag(cc, lx, ly))
}

// Chord emits the reveal-surrounding intent for a chunk-local cell.
func (c *Client) Chord(cc grid.ChunkCoord, lx, ly int) {
	c.send(protocol.Chord(cc, lx, ly))
}
