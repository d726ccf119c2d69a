package model

// ForageParams tunes the local halite heuristics.
type ForageParams struct {
	NearbyThreshold int // BestNearbyDirection needs strictly more than this
	RichThreshold   int // SeekRichResource stops on a cell holding at least this
	MaxSteps        int // SeekRichResource gives up on a direction past this many steps
}

func DefaultForageParams() ForageParams {
	return ForageParams{
		NearbyThreshold: 10,
		RichThreshold:   25,
		MaxSteps:        10,
	}
}

// BestNearbyDirection returns the free cardinal neighbour with the most
// halite. Ties keep the first direction scanned. ok is false when no free
// neighbour holds more than NearbyThreshold.
func (m *GameMap) BestNearbyDirection(p Position) (dir Direction, ok bool) {
	most := 0
	best := Still
	for _, d := range Cardinals() {
		c := m.At(p.DirectionalOffset(d))
		if !c.IsOccupied() && c.Halite > most {
			most = c.Halite
			best = d
		}
	}
	if most > m.Forage.NearbyThreshold {
		return best, true
	}
	return Still, false
}

// SeekRichResource walks each cardinal axis from p until it reaches a cell
// with at least RichThreshold halite and returns the direction with the
// fewest steps. A direction is dropped if its first step is occupied or the
// walk exceeds MaxSteps. Only the four axes are scanned, so richer cells off
// axis are missed.
//
// A best distance of 0 doubles as "nothing recorded yet". When p itself is
// rich every direction measures 0 and the last one scanned wins.
func (m *GameMap) SeekRichResource(p Position) Direction {
	best := Still
	lowest := 0
	for _, d := range Cardinals() {
		distance := 0
		cur := p
		blocked := false
		for m.At(cur).Halite < m.Forage.RichThreshold {
			distance++
			cur = cur.DirectionalOffset(d)
			c := m.At(cur)
			if (c.IsOccupied() && distance == 1) || distance > m.Forage.MaxSteps {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		if lowest == 0 || distance < lowest {
			lowest = distance
			best = d
		}
	}
	return best
}
