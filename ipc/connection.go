package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nstehr/tidepool/model"
)

// TurnHandler decides one turn's commands against the freshly updated game.
type TurnHandler func(g *model.Game) ([]Command, error)

// Connection is the bot's side of the engine pipe: frames come in on one
// stream and command lines go out on the other.
type Connection struct {
	in  *Input
	out *bufio.Writer
}

func NewConnection(r io.Reader, w io.Writer) *Connection {
	return &Connection{in: NewInput(r), out: bufio.NewWriter(w)}
}

// ReadPreamble reads the initial game description.
func (c *Connection) ReadPreamble() (*model.Game, error) {
	return ReadPreamble(c.in)
}

// Ready tells the engine the bot has finished setup. The per-turn clock
// starts once this line is sent.
func (c *Connection) Ready(name string) error {
	return c.writeLine(name)
}

// EndTurn sends the turn's commands as one line.
func (c *Connection) EndTurn(cmds []Command) error {
	parts := make([]string, len(cmds))
	for i, cmd := range cmds {
		parts[i] = string(cmd)
	}
	return c.writeLine(strings.Join(parts, " "))
}

func (c *Connection) writeLine(s string) error {
	if _, err := c.out.WriteString(s); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := c.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := c.out.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Run reads frames into g until the engine closes the stream, calling
// handle once per turn. A clean EOF ends the game and returns nil; any
// other read, handler or write failure is returned.
func (c *Connection) Run(g *model.Game, handle TurnHandler) error {
	for {
		if err := ReadFrame(c.in, g); err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("engine closed input", "turn", g.Turn)
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		cmds, err := handle(g)
		if err != nil {
			return fmt.Errorf("turn %d: %w", g.Turn, err)
		}

		if err := c.EndTurn(cmds); err != nil {
			return fmt.Errorf("turn %d: %w", g.Turn, err)
		}
		slog.Debug("turn sent", "turn", g.Turn, "commands", len(cmds))
	}
}
