package roster

// Position is a player's raw position as it appears in the pool file.
type Position string

const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	DST Position = "DST"
)

// Slot is a roster bucket. WR and TE share the flex bucket; everything
// else maps one-to-one.
type Slot string

const (
	SlotQB   Slot = "QB"
	SlotRB   Slot = "RB"
	SlotFlex Slot = "FLEX"
	SlotDST  Slot = "DST"
)

var Slots = []Slot{SlotQB, SlotRB, SlotFlex, SlotDST}

var quotas = map[Slot]int{
	SlotQB:   1,
	SlotRB:   2,
	SlotFlex: 3,
	SlotDST:  1,
}

func SlotFor(p Position) (Slot, bool) {
	switch p {
	case QB:
		return SlotQB, true
	case RB:
		return SlotRB, true
	case WR, TE:
		return SlotFlex, true
	case DST:
		return SlotDST, true
	default:
		return "", false
	}
}

func Quota(s Slot) int { return quotas[s] }

// RoundsPerTeam is the number of picks each team makes: the sum of all
// slot quotas.
const RoundsPerTeam = 7

// Roster maps each slot to the player ids claimed into it, in pick
// order.
type Roster map[Slot][]string

func New() Roster {
	r := make(Roster, len(Slots))
	for _, s := range Slots {
		r[s] = []string{}
	}
	return r
}

// CanClaim reports whether a player at position p still fits. Unknown
// positions never fit.
func (r Roster) CanClaim(p Position) bool {
	slot, ok := SlotFor(p)
	if !ok {
		return false
	}
	return len(r[slot]) < quotas[slot]
}

// Add claims playerID into the slot for p. It returns false without
// mutating when the claim is not allowed.
func (r Roster) Add(p Position, playerID string) bool {
	if !r.CanClaim(p) {
		return false
	}
	slot, _ := SlotFor(p)
	r[slot] = append(r[slot], playerID)
	return true
}

// Remove drops playerID from the given slot, preserving order. It
// returns false when the id is not present.
func (r Roster) Remove(s Slot, playerID string) bool {
	list := r[s]
	for i, id := range list {
		if id == playerID {
			r[s] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Size is the total number of claimed players across all slots.
func (r Roster) Size() int {
	n := 0
	for _, list := range r {
		n += len(list)
	}
	return n
}
