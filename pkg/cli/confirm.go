package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoConfirmation is returned by Confirm when input ends before a line is read.
var ErrNoConfirmation = errors.New("no confirmation received")

// Confirm writes prompt to out, leaving the cursor on the prompt line, and
// blocks until one line is read from in. Any line, including an empty one,
// confirms. Input that ends without a line returns ErrNoConfirmation.
func Confirm(in io.Reader, out io.Writer, prompt string) error {
	if _, err := fmt.Fprint(out, prompt+" "); err != nil {
		return err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// a final unterminated line still counts
			if strings.TrimRight(line, "\r") != "" {
				return nil
			}
			return ErrNoConfirmation
		}
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	return nil
}
