package agent

import (
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/tidepool/ipc"
	"github.com/nstehr/tidepool/model"
	"github.com/nstehr/tidepool/rules"
)

// Options are the per-ship tunables.
type Options struct {
	CollectThreshold int // explore away from cells poorer than this
	ReturnMargin     int
	DropoffPatience  int // turns a builder waits on site for funds
	Forage           model.ForageParams
}

// TurnSummary describes what the agent saw and decided in one turn.
type TurnSummary struct {
	Turn     int            `json:"turn"`
	Halite   int            `json:"halite"`
	Ships    int            `json:"ships"`
	Dropoffs int            `json:"dropoffs"`
	Statuses map[string]int `json:"statuses"`
	Fired    []string       `json:"fired,omitempty"`
	Events   []Event        `json:"events,omitempty"`
	Commands []ipc.Command  `json:"commands"`
}

// Agent owns the decision-making for one player. It keeps per-ship status
// across turns and processes ships in id order, so earlier ships win
// contested cells.
type Agent struct {
	Engine *rules.Engine
	opts   Options
	rng    *rand.Rand

	status  map[model.ShipID]ShipStatus
	waited  map[model.ShipID]int // turns a builder has waited on its site
	sites   []model.Position
	claimed []bool // site assigned to a builder, built on, or unusable
	prev    *stateSnapshot
	last    TurnSummary
}

func New(engine *rules.Engine, opts Options, seed uint64) *Agent {
	return &Agent{
		Engine: engine,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		status: make(map[model.ShipID]ShipStatus),
		waited: make(map[model.ShipID]int),
	}
}

// Start runs the expensive once-per-game work before the turn clock starts:
// candidate dropoff sites are chosen from the initial map.
func (a *Agent) Start(g *model.Game) {
	g.Map.Forage = a.opts.Forage
	a.sites = g.Map.FindCandidateSites()
	a.claimed = make([]bool, len(a.sites))
	for i, p := range a.sites {
		if g.Map.At(p).Structure != model.NoStructure {
			a.claimed[i] = true
		}
	}
	a.prev = nil
	slog.Info("candidate sites chosen", "sites", a.sites, "width", g.Map.Width, "height", g.Map.Height)
}

// Sites returns the candidate dropoff sites picked at Start.
func (a *Agent) Sites() []model.Position { return a.sites }

// Status returns the current status of a ship, or nil if it is unknown.
func (a *Agent) Status(id model.ShipID) ShipStatus { return a.status[id] }

// LastTurn returns the summary of the most recent PlayTurn.
func (a *Agent) LastTurn() TurnSummary { return a.last }

// PlayTurn decides every ship's command and the player-level actions for
// the current turn. It mutates g.Map's occupancy as moves are claimed.
func (a *Agent) PlayTurn(g *model.Game) ([]ipc.Command, error) {
	events := detectEvents(g, a.prev)
	snap := takeSnapshot(g)
	a.prev = &snap
	for _, e := range events {
		slog.Info("game event", "kind", e.Kind, "turn", e.Turn, "detail", e.Detail)
	}

	a.pruneLostShips(g)

	plan := &rules.TurnPlan{}
	for _, ship := range g.MyShips() {
		cmd := a.commandFor(g, ship, plan)
		if cmd != "" {
			plan.Commands = append(plan.Commands, cmd)
		}
	}

	env := rules.RuleEnv{
		Game:      g,
		Spent:     plan.Spent,
		Sites:     len(a.sites),
		SitesLeft: a.sitesLeft(),
		Building:  a.building(),
	}
	fired := a.Engine.Evaluate(env, plan)
	if plan.DropoffRequested {
		a.assignBuilder(g)
	}

	a.last = TurnSummary{
		Turn:     g.Turn,
		Halite:   g.Me().Halite,
		Ships:    len(g.Me().ShipIDs),
		Dropoffs: len(g.Me().DropoffIDs),
		Statuses: a.statusCounts(),
		Fired:    fired,
		Events:   events,
		Commands: plan.Commands,
	}
	return plan.Commands, nil
}

func (a *Agent) pruneLostShips(g *model.Game) {
	alive := make(map[model.ShipID]bool, len(g.Me().ShipIDs))
	for _, id := range g.Me().ShipIDs {
		alive[id] = true
	}
	for id, st := range a.status {
		if alive[id] {
			continue
		}
		if b, ok := st.(BuildingDropoff); ok {
			a.claimed[b.Site] = false
		}
		delete(a.status, id)
		delete(a.waited, id)
	}
}

// commandFor advances the ship's status and returns its command for the
// turn. An empty command means the ship does nothing.
func (a *Agent) commandFor(g *model.Game, ship *model.Ship, plan *rules.TurnPlan) ipc.Command {
	cur, ok := a.status[ship.ID]
	if !ok {
		cur = Exploring{}
	}
	next := nextStatus(cur, shipFacts{
		cargo:        ship.Halite,
		maxHalite:    g.Constants.MaxHalite,
		returnMargin: a.opts.ReturnMargin,
		turnsLeft:    g.TurnsLeft(),
		mapHeight:    g.Map.Height,
		onDropPoint:  g.IsDropPoint(ship.Position),
	})
	if b, ok := cur.(BuildingDropoff); ok {
		if _, still := next.(BuildingDropoff); !still {
			a.claimed[b.Site] = false
		}
	}
	if next != cur {
		slog.Debug("ship status changed", "ship", ship.ID, "from", cur, "to", next, "turn", g.Turn)
	}
	a.status[ship.ID] = next

	switch st := next.(type) {
	case RushReturn:
		return a.moveHome(g, ship, true)
	case Returning:
		return a.moveHome(g, ship, false)
	case BuildingDropoff:
		return a.build(g, ship, st.Site, plan)
	}
	return a.explore(g, ship)
}

// canMove reports whether the ship can pay to leave its cell.
func canMove(g *model.Game, ship *model.Ship) bool {
	if g.Constants.MoveCostRatio <= 0 {
		return true
	}
	return ship.Halite >= g.Map.AtEntity(ship).Halite/g.Constants.MoveCostRatio
}

// explore collects on rich cells and otherwise moves toward halite: the best
// neighbour first, then the nearest rich axis, then a random direction.
func (a *Agent) explore(g *model.Game, ship *model.Ship) ipc.Command {
	cell := g.Map.AtEntity(ship)
	if cell.Halite >= a.opts.CollectThreshold && !ship.IsFull(g.Constants.MaxHalite) {
		return ipc.MoveCommand(ship.ID, model.Still)
	}
	if !canMove(g, ship) {
		return ipc.MoveCommand(ship.ID, model.Still)
	}

	dir, ok := g.Map.BestNearbyDirection(ship.Position)
	if !ok {
		dir = g.Map.SeekRichResource(ship.Position)
	}
	if dir == model.Still {
		cardinals := model.Cardinals()
		dir = cardinals[a.rng.IntN(len(cardinals))]
	}
	moved := g.Map.NaiveNavigate(ship, ship.Position.DirectionalOffset(dir))
	return ipc.MoveCommand(ship.ID, moved)
}

// moveHome steers toward the closest drop point. Drop points are structures
// and so always occupied; the last step onto one bypasses NaiveNavigate.
// A rushing ship takes that step even if another ship is there, since
// collisions on an own drop point only matter before the end of the game.
func (a *Agent) moveHome(g *model.Game, ship *model.Ship, rush bool) ipc.Command {
	target := g.ClosestDropPoint(ship.Position)
	if !canMove(g, ship) {
		return ipc.MoveCommand(ship.ID, model.Still)
	}
	if g.Map.Distance(ship.Position, target) == 1 {
		dir := g.Map.UnsafeMoves(ship.Position, target)[0]
		cell := g.Map.At(target)
		if rush || !cell.HasShip() {
			cell.MarkUnsafe(ship.ID)
			return ipc.MoveCommand(ship.ID, dir)
		}
		return ipc.MoveCommand(ship.ID, model.Still)
	}
	return ipc.MoveCommand(ship.ID, g.Map.NaiveNavigate(ship, target))
}

// build moves a builder to its site and converts it once the player can
// afford it. The ship's cargo and the cell's halite count toward the cost.
func (a *Agent) build(g *model.Game, ship *model.Ship, site int, plan *rules.TurnPlan) ipc.Command {
	target := a.sites[site]
	cell := g.Map.At(target)

	if cell.Structure != model.NoStructure {
		slog.Info("dropoff site taken", "ship", ship.ID, "site", site, "pos", target)
		a.status[ship.ID] = Exploring{}
		return a.explore(g, ship)
	}

	if g.Map.Normalize(ship.Position) != g.Map.Normalize(target) {
		if !canMove(g, ship) {
			return ipc.MoveCommand(ship.ID, model.Still)
		}
		return ipc.MoveCommand(ship.ID, g.Map.NaiveNavigate(ship, target))
	}

	cost := max(g.Constants.DropoffCost-ship.Halite-cell.Halite, 0)
	if g.Me().Halite-plan.Spent >= cost {
		plan.Spent += cost
		a.claimed[site] = true
		delete(a.status, ship.ID)
		delete(a.waited, ship.ID)
		slog.Info("constructing dropoff", "ship", ship.ID, "site", site, "pos", target, "cost", cost, "turn", g.Turn)
		return ipc.ConstructCommand(ship.ID)
	}

	a.waited[ship.ID]++
	if a.waited[ship.ID] > a.opts.DropoffPatience {
		slog.Info("dropoff abandoned", "ship", ship.ID, "site", site, "waited", a.waited[ship.ID])
		a.claimed[site] = false
		delete(a.waited, ship.ID)
		a.status[ship.ID] = Exploring{}
	}
	return ipc.MoveCommand(ship.ID, model.Still)
}

// assignBuilder sends the exploring ship closest to the next free site.
// Ties go to the lower ship id.
func (a *Agent) assignBuilder(g *model.Game) {
	site := -1
	for i, c := range a.claimed {
		if !c {
			site = i
			break
		}
	}
	if site < 0 {
		return
	}

	var best *model.Ship
	bestDist := 0
	for _, ship := range g.MyShips() {
		if _, ok := a.status[ship.ID].(Exploring); !ok {
			continue
		}
		d := g.Map.Distance(ship.Position, a.sites[site])
		if best == nil || d < bestDist {
			best, bestDist = ship, d
		}
	}
	if best == nil {
		return
	}

	a.claimed[site] = true
	a.status[best.ID] = BuildingDropoff{Site: site}
	a.waited[best.ID] = 0
	slog.Info("builder assigned", "ship", best.ID, "site", site, "pos", a.sites[site], "distance", bestDist)
}

func (a *Agent) sitesLeft() int {
	n := 0
	for _, c := range a.claimed {
		if !c {
			n++
		}
	}
	return n
}

func (a *Agent) building() bool {
	for _, st := range a.status {
		if _, ok := st.(BuildingDropoff); ok {
			return true
		}
	}
	return false
}

func (a *Agent) statusCounts() map[string]int {
	counts := make(map[string]int)
	for _, st := range a.status {
		counts[st.String()]++
	}
	return counts
}
