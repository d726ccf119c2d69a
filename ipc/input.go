package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Input splits the host's line-oriented stream into whitespace tokens.
// When the current line is used up the next one is read.
type Input struct {
	r      *bufio.Reader
	tokens []string
	line   int
}

func NewInput(r io.Reader) *Input {
	return &Input{r: bufio.NewReader(r)}
}

// ReadLine returns the next raw line without its newline and discards any
// unconsumed tokens from the previous line.
func (in *Input) ReadLine() (string, error) {
	s, err := in.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	in.line++
	in.tokens = nil
	return strings.TrimRight(s, "\r\n"), nil
}

func (in *Input) next() (string, error) {
	for len(in.tokens) == 0 {
		s, err := in.ReadLine()
		if err != nil {
			return "", err
		}
		in.tokens = strings.Fields(s)
	}
	tok := in.tokens[0]
	in.tokens = in.tokens[1:]
	return tok, nil
}

// NextString returns the next token.
func (in *Input) NextString() (string, error) {
	return in.next()
}

// NextInt parses the next token as a base-10 integer.
func (in *Input) NextInt() (int, error) {
	tok, err := in.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("line %d: parse %q: %w", in.line, tok, err)
	}
	return v, nil
}

// NextInts reads n integers, naming the field in any error. Running out of
// input part way through is reported as io.ErrUnexpectedEOF.
func (in *Input) NextInts(field string, n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		v, err := in.NextInt()
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field, err)
		}
		out[i] = v
	}
	return out, nil
}
