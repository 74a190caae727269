// Package grid holds the board data model and the pure coordinate
// transforms between world cells, chunks and chunk-local cells.
package grid

// Cell is a snapshot of one board cell as last reported by the server.
// The client never derives cell state locally; a cell only changes by
// being replaced wholesale with a server-confirmed value.
type Cell struct {
	X             int  `json:"x"`
	Y             int  `json:"y"`
	Revealed      bool `json:"revealed"`
	HasMine       bool `json:"hasMine"`
	AdjacentMines int  `json:"adjacentMines"`
	Flagged       bool `json:"flagged"`
}

// ChunkCoord identifies a chunk. Both components are non-negative for
// any chunk that actually exists on the board.
type ChunkCoord struct {
	CX int
	CY int
}

// Chunk is a square tile of cells, indexed [localY][localX]. Chunks are
// the unit of network transfer and caching: they are created whole from
// a server response and replaced atomically, never merged.
type Chunk struct {
	Coord ChunkCoord
	Cells [][]Cell
}

// Size is the full board extent in cells. It is fetched once at
// bootstrap and immutable afterwards.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the world cell (x, y) lies on the board.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// MaxChunk returns the largest valid chunk coordinate for this board.
func (s Size) MaxChunk(chunkSize int) ChunkCoord {
	return ChunkCoord{
		CX: WorldToChunk(s.Width-1, chunkSize),
		CY: WorldToChunk(s.Height-1, chunkSize),
	}
}

// WorldToChunk maps a world cell coordinate to its owning chunk
// coordinate using floor division, so it stays correct for negative
// inputs produced by transient pointer math.
func WorldToChunk(c, chunkSize int) int {
	if c >= 0 {
		return c / chunkSize
	}
	return -((-c - 1) / chunkSize) - 1
}

// WorldToLocal maps a world cell coordinate to its offset inside the
// owning chunk. The result is always in [0, chunkSize).
func WorldToLocal(c, chunkSize int) int {
	return ((c % chunkSize) + chunkSize) % chunkSize
}

// Split returns the chunk and local coordinates for a world cell.
func Split(x, y, chunkSize int) (ChunkCoord, int, int) {
	cc := ChunkCoord{
		CX: WorldToChunk(x, chunkSize),
		CY: WorldToChunk(y, chunkSize),
	}
	return cc, WorldToLocal(x, chunkSize), WorldToLocal(y, chunkSize)
}

// At returns the cell at chunk-local (lx, ly). It does not bounds-check;
// callers index only with WorldToLocal results.
func (c *Chunk) At(lx, ly int) Cell {
	return c.Cells[ly][lx]
}

// SetCell replaces the single cell at chunk-local (lx, ly), leaving the
// rest of the chunk untouched. Out-of-range coordinates are ignored so
// a malformed server update cannot panic the client.
func (c *Chunk) SetCell(lx, ly int, cell Cell) {
	if ly < 0 || ly >= len(c.Cells) {
		return
	}
	if lx < 0 || lx >= len(c.Cells[ly]) {
		return
	}
	c.Cells[ly][lx] = cell
}
