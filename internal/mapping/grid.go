package mapping

// Grid is the physical pad layout, row-major with row 0 at the bottom
type Grid [][]Key

// Coord returns the row and column of k
func (g Grid) Coord(k Key) (row, col int, ok bool) {
	for r, keys := range g {
		for c, key := range keys {
			if key == k {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Contains reports whether k is a pad of the grid
func (g Grid) Contains(k Key) bool {
	_, _, ok := g.Coord(k)
	return ok
}

// At returns the key at row, col
func (g Grid) At(row, col int) (Key, bool) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return 0, false
	}
	return g[row][col], true
}

// Keys returns every pad in row-major order
func (g Grid) Keys() []Key {
	var keys []Key
	for _, row := range g {
		keys = append(keys, row...)
	}
	return keys
}

// ProgrammerGrid is the 9x9 programmer-mode numbering: the pad at row r,
// column c is (r+1)*10 + c+1, so 11 is bottom-left and 99 top-right.
// The top row and right column are the round function buttons.
func ProgrammerGrid() Grid {
	g := make(Grid, 9)
	for r := range g {
		g[r] = make([]Key, 9)
		for c := range g[r] {
			g[r][c] = Key((r+1)*10 + c + 1)
		}
	}
	return g
}

// DrumGrid is the 8x8 drum-rack numbering, notes 36..99 in two
// four-column halves: the left half counts up from 36, the right from 68.
func DrumGrid() Grid {
	g := make(Grid, 8)
	for r := range g {
		g[r] = make([]Key, 8)
		for c := range g[r] {
			base := 36
			if c >= 4 {
				base = 68 - 4
			}
			g[r][c] = Key(base + r*4 + c)
		}
	}
	return g
}

// ParseGrid returns the grid named "9x9" or "8x8"
func ParseGrid(name string) (Grid, bool) {
	switch name {
	case "9x9", "programmer":
		return ProgrammerGrid(), true
	case "8x8", "drum":
		return DrumGrid(), true
	}
	return nil, false
}
