package game

import (
	"fmt"
	"strings"
)

// String returns "X", "O", or "" for an empty cell.
func (c Cell) String() string {
	switch c {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// Owner maps a mark to the player who placed it.
func (c Cell) Owner() Player {
	switch c {
	case MarkX:
		return PlayerX
	case MarkO:
		return PlayerO
	default:
		return NoPlayer
	}
}

// ParseCell is the inverse of Cell.String. A single space or "-" is accepted
// for an empty cell as well.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(s) {
	case "", " ", "-":
		return Empty, nil
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	}
	return Empty, fmt.Errorf("unknown mark %q", s)
}

func (p Player) String() string {
	return p.Mark().String()
}

// Mark is the cell value a player places.
func (p Player) Mark() Cell {
	switch p {
	case PlayerX:
		return MarkX
	case PlayerO:
		return MarkO
	default:
		return Empty
	}
}

func (p Player) Opponent() Player {
	switch p {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return NoPlayer
	}
}

// ParsePlayer accepts "X" or "O" in either case.
func ParsePlayer(s string) (Player, error) {
	c, err := ParseCell(s)
	if err != nil || c == Empty {
		return NoPlayer, fmt.Errorf("unknown player %q", s)
	}
	return c.Owner(), nil
}

// String renders the board on three lines, "." for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < size; c++ {
			if b[r][c] == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(b[r][c].String())
		}
	}
	return sb.String()
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row, m.Col)
}
