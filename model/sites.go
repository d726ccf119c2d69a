package model

import "container/heap"

// SiteScore is a candidate dropoff location scored by the halite around it.
type SiteScore struct {
	Score int
	X     int
	Y     int
}

// siteHeap pops the highest score first; equal scores pop the smaller x,
// then the smaller y.
type siteHeap []SiteScore

func (h siteHeap) Len() int { return len(h) }

func (h siteHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	if h[i].X != h[j].X {
		return h[i].X < h[j].X
	}
	return h[i].Y < h[j].Y
}

func (h siteHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *siteHeap) Push(x any) { *h = append(*h, x.(SiteScore)) }

func (h *siteHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	*h = old[:n-1]
	return s
}

// SitePlan returns how many dropoff sites to pick and the zone radius used
// to score them, stepped on map width.
func SitePlan(width int) (count, radius int) {
	switch {
	case width < 33:
		return 2, 3
	case width < 50:
		return 3, 4
	case width < 70:
		return 4, 5
	}
	return 5, 6
}

// ZoneHalite sums halite over the 2R x 2R window covering offsets -R..R-1
// around (x, y), wrapping at the edges.
func (m *GameMap) ZoneHalite(x, y, radius int) int {
	total := 0
	for dx := -radius; dx < radius; dx++ {
		for dy := -radius; dy < radius; dy++ {
			total += m.At(Position{X: x + dx, Y: y + dy}).Halite
		}
	}
	return total
}

// ScoreSites scores every cell on the map with ZoneHalite.
func (m *GameMap) ScoreSites(radius int) []SiteScore {
	scores := make([]SiteScore, 0, m.Width*m.Height)
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			scores = append(scores, SiteScore{Score: m.ZoneHalite(x, y, radius), X: x, Y: y})
		}
	}
	return scores
}

// FindCandidateSites returns the best-scoring cells for secondary bases,
// highest score first. Sites are not spaced apart: neighbouring cells can
// both be picked.
func (m *GameMap) FindCandidateSites() []Position {
	count, radius := SitePlan(m.Width)

	h := siteHeap(m.ScoreSites(radius))
	heap.Init(&h)

	sites := make([]Position, 0, count)
	for h.Len() > 0 && len(sites) < count {
		s := heap.Pop(&h).(SiteScore)
		sites = append(sites, Position{X: s.X, Y: s.Y})
	}
	return sites
}
