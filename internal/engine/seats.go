package engine

// Seat identifies one of the four positions in fixed rotation order.
type Seat int

const (
	SeatNorth Seat = iota
	SeatEast
	SeatSouth
	SeatWest
)

const NumSeats = 4

func (s Seat) Next() Seat    { return (s + 1) % NumSeats }
func (s Seat) Partner() Seat { return (s + 2) % NumSeats }
func (s Seat) Side() Side    { return Side(s % 2) }

func (s Seat) Valid() bool { return s >= 0 && s < NumSeats }

func (s Seat) String() string {
	switch s {
	case SeatNorth:
		return "north"
	case SeatEast:
		return "east"
	case SeatSouth:
		return "south"
	case SeatWest:
		return "west"
	}
	return "?"
}

// Side is a partnership: north/south or east/west.
type Side int

const (
	SideNorthSouth Side = iota
	SideEastWest
)

func (s Side) Other() Side { return 1 - s }

func (s Side) Seats() [2]Seat { return [2]Seat{Seat(s), Seat(s) + 2} }
