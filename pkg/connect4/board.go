package connect4

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// State of a single cell, also used as the player type
type Cell int8

const (
	Empty Cell = iota
	Red
	Yellow
)

func (c Cell) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return "empty"
}

// Symbol used in the text rendering of the board
func (c Cell) Rune() rune {
	switch c {
	case Red:
		return 'x'
	case Yellow:
		return 'o'
	}
	return '.'
}

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
)

// Colors used when rendering the board to a terminal
const (
	redColor    = "#E0433A"
	yellowColor = "#F2C230"
	dimColor    = "#6C6C6C"
)

// Grid filled from the bottom, row 0 is the lowest one
type Board struct {
	rules   Rules
	cells   []Cell
	heights []int
	moves   int
}

func newBoard(rules Rules) *Board {
	return &Board{
		rules:   rules,
		cells:   make([]Cell, rules.Width*rules.Height),
		heights: make([]int, rules.Width),
	}
}

func (b *Board) Rules() Rules {
	return b.rules
}

// Cell at given column and row, row 0 is the bottom of the board
func (b *Board) At(col, row int) Cell {
	if col < 0 || col >= b.rules.Width || row < 0 || row >= b.rules.Height {
		return Empty
	}
	return b.cells[row*b.rules.Width+col]
}

// Number of pieces in given column
func (b *Board) Height(col int) int {
	return b.heights[col]
}

func (b *Board) Moves() int {
	return b.moves
}

func (b *Board) Full() bool {
	return b.moves == b.rules.Width*b.rules.Height
}

// Player whose turn it is, red always starts
func (b *Board) Turn() Cell {
	if b.moves%2 == 0 {
		return Red
	}
	return Yellow
}

// Drop a piece of 'cell' into given column, returns the row it landed on
func (b *Board) Drop(col int, cell Cell) (int, error) {
	if col < 0 || col >= b.rules.Width {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrColumnOutOfRange, col, b.rules.Width)
	}
	row := b.heights[col]
	if row >= b.rules.Height {
		return 0, fmt.Errorf("%w: %d", ErrColumnFull, col)
	}

	b.cells[row*b.rules.Width+col] = cell
	b.heights[col]++
	b.moves++
	return row, nil
}

// Directions checked for the lines: horizontal, vertical and both diagonals
var directions = [4][2]int{
	{1, 0}, {0, 1}, {1, 1}, {1, -1},
}

// Owner of a line of 'Connect' pieces, if there is any
func (b *Board) Winner() (Cell, bool) {
	for row := 0; row < b.rules.Height; row++ {
		for col := 0; col < b.rules.Width; col++ {
			cell := b.At(col, row)
			if cell == Empty {
				continue
			}
			for _, dir := range directions {
				if b.countFrom(col, row, dir[0], dir[1], cell) >= b.rules.Connect {
					return cell, true
				}
			}
		}
	}
	return Empty, false
}

// Length of the run of 'cell' starting at (col, row) going into (dc, dr) direction
func (b *Board) countFrom(col, row, dc, dr int, cell Cell) int {
	n := 0
	// At returns Empty outside of the board, 'cell' never is
	for b.At(col, row) == cell {
		n++
		col += dc
		row += dr
	}
	return n
}

// Render the board with given color profile, top row first
func (b *Board) Render(profile termenv.Profile) string {
	builder := strings.Builder{}
	for row := b.rules.Height - 1; row >= 0; row-- {
		for col := 0; col < b.rules.Width; col++ {
			if col > 0 {
				builder.WriteByte(' ')
			}
			cell := b.At(col, row)
			symbol := profile.String(string(cell.Rune()))
			switch cell {
			case Red:
				symbol = symbol.Foreground(profile.Color(redColor)).Bold()
			case Yellow:
				symbol = symbol.Foreground(profile.Color(yellowColor)).Bold()
			default:
				symbol = symbol.Foreground(profile.Color(dimColor))
			}
			builder.WriteString(symbol.String())
		}
		builder.WriteByte('\n')
	}

	for col := 0; col < b.rules.Width; col++ {
		if col > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.Itoa(col % 10))
	}
	builder.WriteByte('\n')
	return builder.String()
}

// Plain text rendering, without any colors
func (b *Board) String() string {
	return b.Render(termenv.Ascii)
}
