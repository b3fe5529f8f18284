// Package client plays the hangman protocol from the player's side: it renders
// each status message and answers it with one guess read from the user.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"

	"example.com/hangman/internal/game"
)

type Outcome string

const (
	Won          Outcome = "won"
	Lost         Outcome = "lost"
	Disconnected Outcome = "disconnected"
)

var (
	// ErrDisconnected means the server vanished before the game ended.
	ErrDisconnected = errors.New("server disconnected")
	// ErrNoInput means the user's input ended before the game did.
	ErrNoInput = errors.New("no more guesses on input")
	// ErrBadStatus means the first status carried a sentinel instead of a word length.
	ErrBadStatus = errors.New("unexpected first status")
)

// Result is what the driver knows once the game is over.
type Result struct {
	Outcome Outcome
	Board   string
	Rounds  int
}

// Driver reads statuses from conn, prints them to out, and sends guesses read from in.
type Driver struct {
	conn io.ReadWriter
	in   *bufio.Reader
	out  io.Writer

	pending []byte // unused guesses left over from the last input line
}

func NewDriver(conn io.ReadWriter, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		conn: conn,
		in:   bufio.NewReader(in),
		out:  out,
	}
}

// Play runs until the game ends. The board length is taken from the first
// budget byte, which the server sets to the word length.
func (d *Driver) Play() (Result, error) {
	var res Result

	budget, err := d.readByte()
	if err != nil {
		return d.disconnected(res, err)
	}
	if budget == game.BudgetWon || budget == game.BudgetLost {
		return d.disconnected(res, fmt.Errorf("%w: budget %d", ErrBadStatus, budget))
	}
	n := int(budget)

	for {
		board := make([]byte, n)
		if _, err := io.ReadFull(d.conn, board); err != nil {
			return d.disconnected(res, err)
		}
		res.Board = string(board)

		switch budget {
		case game.BudgetWon:
			res.Outcome = Won
			fmt.Fprintf(d.out, "Board: %s\nYou win!\n", board)
			return res, nil
		case game.BudgetLost:
			res.Outcome = Lost
			fmt.Fprintf(d.out, "Board: %s\nYou lost.\n", board)
			return res, nil
		}

		fmt.Fprintf(d.out, "Board: %s (%d guesses left)\nEnter guess: ", board, budget)
		c, err := d.nextGuess()
		if err != nil {
			fmt.Fprintln(d.out)
			return res, err
		}
		if err := game.WriteGuess(d.conn, c); err != nil {
			return d.disconnected(res, err)
		}
		res.Rounds++

		if budget, err = d.readByte(); err != nil {
			return d.disconnected(res, err)
		}
	}
}

func (d *Driver) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.conn, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Driver) disconnected(res Result, err error) (Result, error) {
	res.Outcome = Disconnected
	fmt.Fprintln(d.out, "\nLost connection to the server.")
	return res, fmt.Errorf("%w: %w", ErrDisconnected, err)
}

// nextGuess returns the next non-space character typed by the user. A line may
// carry several guesses; they are used one per round.
func (d *Driver) nextGuess() (byte, error) {
	for len(d.pending) == 0 {
		line, err := d.in.ReadString('\n')
		for _, r := range line {
			if r < unicode.MaxASCII && !unicode.IsSpace(r) {
				d.pending = append(d.pending, byte(r))
			}
		}
		if err != nil && len(d.pending) == 0 {
			if errors.Is(err, io.EOF) {
				return 0, ErrNoInput
			}
			return 0, err
		}
	}
	c := d.pending[0]
	d.pending = d.pending[1:]
	return c, nil
}
