package ipc

import (
	"fmt"

	"github.com/nstehr/tidepool/model"
)

// Command is one order in the engine's text encoding. A turn's commands are
// sent space-separated on a single line.
type Command string

// Wire verbs. These must match the Halite engine.
const (
	verbMove      = "m"
	verbSpawn     = "g"
	verbConstruct = "c"
)

func MoveCommand(id model.ShipID, d model.Direction) Command {
	return Command(fmt.Sprintf("%s %d %c", verbMove, id, d.Char()))
}

func SpawnCommand() Command {
	return Command(verbSpawn)
}

func ConstructCommand(id model.ShipID) Command {
	return Command(fmt.Sprintf("%s %d", verbConstruct, id))
}
