package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nstehr/tidepool/model"
)

// ReadPreamble reads everything the engine sends before the first turn:
// the constants JSON line, the player list with shipyards, and the full
// initial halite map.
func ReadPreamble(in *Input) (*model.Game, error) {
	raw, err := in.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("read constants: %w", err)
	}
	var constants model.Constants
	if err := json.Unmarshal([]byte(raw), &constants); err != nil {
		return nil, fmt.Errorf("unmarshal constants: %w", err)
	}

	hdr, err := in.NextInts("player header", 2)
	if err != nil {
		return nil, err
	}
	numPlayers, myID := hdr[0], hdr[1]
	if numPlayers <= 0 {
		return nil, fmt.Errorf("invalid player count: %d", numPlayers)
	}

	players := make([]*model.Player, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		v, err := in.NextInts("player", 3)
		if err != nil {
			return nil, err
		}
		id := model.PlayerID(v[0])
		players = append(players, &model.Player{
			ID:       id,
			Shipyard: model.Shipyard{Owner: id, Position: model.Position{X: v[1], Y: v[2]}},
		})
	}

	found := false
	for _, p := range players {
		if p.ID == model.PlayerID(myID) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("my id %d not in player list", myID)
	}

	m, err := ReadMap(in)
	if err != nil {
		return nil, err
	}

	return model.NewGame(constants, model.PlayerID(myID), players, m), nil
}

// ReadMap reads "width height" followed by height rows of width halite values.
func ReadMap(in *Input) (*model.GameMap, error) {
	dims, err := in.NextInts("map size", 2)
	if err != nil {
		return nil, err
	}
	width, height := dims[0], dims[1]
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map size: %dx%d", width, height)
	}

	rows := make([][]int, height)
	for y := range rows {
		row, err := in.NextInts(fmt.Sprintf("map row %d", y), width)
		if err != nil {
			return nil, err
		}
		for x, h := range row {
			if h < 0 {
				return nil, fmt.Errorf("negative halite %d at (%d, %d)", h, x, y)
			}
		}
		rows[y] = row
	}
	return model.NewGameMap(width, height, rows), nil
}

// ReadFrame applies one turn's update to g: the turn number, every player's
// ships, dropoffs and bank, then the sparse halite deltas. Occupancy is
// rebuilt from the new ship positions. io.EOF is returned unwrapped when
// the stream ends before a new turn starts.
func ReadFrame(in *Input, g *model.Game) error {
	turn, err := in.NextInt()
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read turn: %w", err)
	}
	g.Turn = turn

	ships := make(map[model.ShipID]*model.Ship)
	dropoffs := make(map[model.DropoffID]*model.Dropoff)

	for i := 0; i < len(g.Players); i++ {
		v, err := in.NextInts("player frame", 4)
		if err != nil {
			return err
		}
		owner := model.PlayerID(v[0])
		numShips, numDropoffs, halite := v[1], v[2], v[3]
		if numShips < 0 || numDropoffs < 0 {
			return fmt.Errorf("player %d: invalid counts %d ships, %d dropoffs", owner, numShips, numDropoffs)
		}

		p, ok := g.Players[owner]
		if !ok {
			return fmt.Errorf("frame for unknown player %d", owner)
		}
		p.Halite = halite
		p.ShipIDs = p.ShipIDs[:0]
		p.DropoffIDs = p.DropoffIDs[:0]

		for j := 0; j < numShips; j++ {
			s, err := in.NextInts("ship", 4)
			if err != nil {
				return err
			}
			id := model.ShipID(s[0])
			ships[id] = &model.Ship{
				Owner:    owner,
				ID:       id,
				Position: model.Position{X: s[1], Y: s[2]},
				Halite:   s[3],
			}
			p.ShipIDs = append(p.ShipIDs, id)
		}

		for j := 0; j < numDropoffs; j++ {
			d, err := in.NextInts("dropoff", 3)
			if err != nil {
				return err
			}
			id := model.DropoffID(d[0])
			dropoffs[id] = &model.Dropoff{
				Owner:    owner,
				ID:       id,
				Position: model.Position{X: d[1], Y: d[2]},
			}
			p.DropoffIDs = append(p.DropoffIDs, id)
		}
	}
	g.Ships = ships
	g.Dropoffs = dropoffs

	n, err := in.NextInts("update count", 1)
	if err != nil {
		return err
	}
	count := n[0]
	if count < 0 {
		return fmt.Errorf("invalid update count: %d", count)
	}
	updates := make([]model.CellUpdate, 0, count)
	for i := 0; i < count; i++ {
		u, err := in.NextInts("cell update", 3)
		if err != nil {
			return err
		}
		if u[2] < 0 {
			return fmt.Errorf("negative halite %d in update at (%d, %d)", u[2], u[0], u[1])
		}
		updates = append(updates, model.CellUpdate{X: u[0], Y: u[1], Halite: u[2]})
	}

	g.Map.Update(updates)
	g.MarkEntities()
	return nil
}
