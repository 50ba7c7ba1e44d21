package main

import "fmt"

// Direction is the orientation a word is laid out in.
type Direction int

const (
	Down Direction = iota
	Up
	LeftToRight
)

// allDirections lists every supported direction, in draw order.
var allDirections = []Direction{Down, Up, LeftToRight}

// delta returns the unit step between consecutive letters.
func (d Direction) delta() (dr, dc int) {
	switch d {
	case Down:
		return 1, 0
	case Up:
		return -1, 0
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case LeftToRight:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts the text form produced by String.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "down":
		return Down, nil
	case "up":
		return Up, nil
	case "right":
		return LeftToRight, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
