package roller

import (
	"sparkdice/sparkos/dice"
)

// asciiFace renders face f as a 5-line text die.
func asciiFace(f dice.Face) []string {
	grid := [3][3]bool{}
	for _, p := range dice.PipLayout(f) {
		grid[cell(p.Y)][cell(p.X)] = true
	}
	lines := []string{"+-------+"}
	for _, row := range grid {
		b := []byte("|       |")
		for i, on := range row {
			if on {
				b[2+2*i] = 'o'
			}
		}
		lines = append(lines, string(b))
	}
	return append(lines, "+-------+")
}

func cell(v float64) int {
	switch {
	case v < 0.4:
		return 0
	case v > 0.6:
		return 2
	default:
		return 1
	}
}
