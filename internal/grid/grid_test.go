package grid

import "testing"

func TestWorldToChunk_RoundTrip(t *testing.T) {
	const chunkSize = 100
	for c := -350; c <= 350; c++ {
		chunk := WorldToChunk(c, chunkSize)
		local := WorldToLocal(c, chunkSize)
		if got := chunk*chunkSize + local; got != c {
			t.Fatalf("c=%d: chunk=%d local=%d recombines to %d", c, chunk, local, got)
		}
	}
}

func TestWorldToLocal_AlwaysInRange(t *testing.T) {
	for _, chunkSize := range []int{1, 16, 100} {
		for c := -3 * chunkSize; c <= 3*chunkSize; c++ {
			local := WorldToLocal(c, chunkSize)
			if local < 0 || local >= chunkSize {
				t.Fatalf("chunkSize=%d c=%d: local=%d out of range", chunkSize, c, local)
			}
		}
	}
}

func TestWorldToChunk_FloorsNegatives(t *testing.T) {
	cases := []struct {
		c, want int
	}{
		{0, 0}, {99, 0}, {100, 1}, {199, 1},
		{-1, -1}, {-100, -1}, {-101, -2},
	}
	for _, tc := range cases {
		if got := WorldToChunk(tc.c, 100); got != tc.want {
			t.Fatalf("WorldToChunk(%d, 100)=%d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestSize_Contains(t *testing.T) {
	s := Size{Width: 200, Height: 150}
	for _, tc := range []struct {
		x, y int
		want bool
	}{
		{0, 0, true}, {199, 149, true}, {200, 0, false},
		{0, 150, false}, {-1, 5, false}, {5, -1, false},
	} {
		if got := s.Contains(tc.x, tc.y); got != tc.want {
			t.Fatalf("Contains(%d,%d)=%v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestSize_MaxChunk(t *testing.T) {
	s := Size{Width: 200, Height: 201}
	mc := s.MaxChunk(100)
	if mc.CX != 1 || mc.CY != 2 {
		t.Fatalf("MaxChunk=%+v, want {1 2}", mc)
	}
}

func TestChunk_SetCell_IgnoresOutOfRange(t *testing.T) {
	c := &Chunk{Cells: [][]Cell{{{}, {}}, {{}, {}}}}
	c.SetCell(5, 5, Cell{Revealed: true}) // must not panic
	c.SetCell(1, 0, Cell{Flagged: true})
	if !c.At(1, 0).Flagged {
		t.Fatal("in-range SetCell did not stick")
	}
}
