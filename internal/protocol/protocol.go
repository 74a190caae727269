// Package protocol defines the JSON wire frames exchanged with the
// board server over the websocket push channel, and the shapes of the
// HTTP bootstrap/aggregate responses.
package protocol

import "github.com/GuyGinat/MassiveSweeperFront/internal/grid"

// Frame types. Outbound frames are client intents; inbound frames are
// server-confirmed state.
const (
	TypeRequestChunk = "requestChunk"
	TypeReveal       = "reveal"
	TypeFlag         = "flag"
	TypeChord        = "chord"

	TypeChunkData  = "chunkData"
	TypeCellUpdate = "cellUpdate"
)

// Frame is a single websocket message in either direction. Fields not
// meaningful for a given type are left zero and omitted on the wire.
type Frame struct {
	Type   string        `json:"type"`
	ChunkX int           `json:"chunkX"`
	ChunkY int           `json:"chunkY"`
	X      int           `json:"x,omitempty"`
	Y      int           `json:"y,omitempty"`
	Cells  [][]grid.Cell `json:"cells,omitempty"`
	Cell   *grid.Cell    `json:"cell,omitempty"`
}

// RequestChunk builds the fetch intent for one chunk.
func RequestChunk(cc grid.ChunkCoord) Frame {
	return Frame{Type: TypeRequestChunk, ChunkX: cc.CX, ChunkY: cc.CY}
}

// Reveal builds the reveal intent for a chunk-local cell.
func Reveal(cc grid.ChunkCoord, lx, ly int) Frame {
	return Frame{Type: TypeReveal, ChunkX: cc.CX, ChunkY: cc.CY, X: lx, Y: ly}
}

// Flag builds the flag-toggle intent for a chunk-local cell.
func Flag(cc grid.ChunkCoord, lx, ly int) Frame {
	return Frame{Type: TypeFlag, ChunkX: cc.CX, ChunkY: cc.CY, X: lx, Y: ly}
}

// Chord builds the reveal-surrounding intent for a chunk-local cell.
func Chord(cc grid.ChunkCoord, lx, ly int) Frame {
	return Frame{Type: TypeChord, ChunkX: cc.CX, ChunkY: cc.CY, X: lx, Y: ly}
}

// Coord returns the chunk coordinate carried by the frame.
func (f Frame) Coord() grid.ChunkCoord {
	return grid.ChunkCoord{CX: f.ChunkX, CY: f.ChunkY}
}

// GridInfo is the one-time bootstrap response: board extent and the
// server-defined chunk edge. No chunk activity is valid before it.
type GridInfo struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	ChunkSize int `json:"chunkSize"`
}

// Size converts the bootstrap response to a grid size.
func (g GridInfo) Size() grid.Size {
	return grid.Size{Width: g.Width, Height: g.Height}
}

// Stats is the polled read-only aggregate snapshot.
type Stats struct {
	LoadedChunks  int `json:"loadedChunks"`
	RevealedCells int `json:"revealedCells"`
	FlaggedCells  int `json:"flaggedCells"`
	ActiveUsers   int `json:"activeUsers"`
	LifetimeUsers int `json:"lifetimeUsers"`
}
