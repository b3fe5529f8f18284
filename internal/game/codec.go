package game

import (
	"errors"
	"fmt"
	"io"
)

// WriteStatus sends the budget byte followed by the board in a single write.
func WriteStatus(w io.Writer, budget byte, board []byte) error {
	buf := make([]byte, 1+len(board))
	buf[0] = budget
	copy(buf[1:], board)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// ReadStatus reads one status message whose board is exactly n bytes long.
func ReadStatus(r io.Reader, n int) (byte, []byte, error) {
	var hdr [1]byte
	if err := readFull(r, hdr[:], true); err != nil {
		return 0, nil, fmt.Errorf("read budget: %w", err)
	}
	board := make([]byte, n)
	if err := readFull(r, board, false); err != nil {
		return 0, nil, fmt.Errorf("read board: %w", err)
	}
	return hdr[0], board, nil
}

func WriteGuess(w io.Writer, c byte) error {
	if _, err := w.Write([]byte{c}); err != nil {
		return fmt.Errorf("write guess: %w", err)
	}
	return nil
}

func ReadGuess(r io.Reader) (byte, error) {
	var b [1]byte
	if err := readFull(r, b[:], true); err != nil {
		return 0, fmt.Errorf("read guess: %w", err)
	}
	return b[0], nil
}

// readFull retries short reads until buf is full. EOF before the first byte of a
// message is a clean close; EOF anywhere else is a protocol violation.
func readFull(r io.Reader, buf []byte, boundary bool) error {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && n == 0 && boundary:
		return ErrPeerClosed
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: got %d of %d bytes: %w", ErrShortRead, n, len(buf), io.ErrUnexpectedEOF)
	default:
		return err
	}
}
