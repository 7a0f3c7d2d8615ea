// Package prompt acquires validated values from an interactive input.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

//ErrNoInput is returned when the input is exhausted before a valid value was entered.
var ErrNoInput = errors.New("no more input")

const invalidValueMsg = "Invalid path. Please try again."

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

//New creates a Prompter. All questions share one buffered reader, so in must not be read elsewhere.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

//Path writes question and reads answers until validate accepts one (an empty answer is never accepted).
//Each rejection is reported and the question repeats.
func (p *Prompter) Path(question string, validate func(string) error) (string, error) {
	for {
		if _, err := fmt.Fprint(p.out, question); err != nil {
			return "", fmt.Errorf("cannot write prompt: %w", err)
		}
		line, readErr := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" && validate(answer) == nil {
			return answer, nil
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return "", ErrNoInput
			}
			return "", fmt.Errorf("cannot read answer: %w", readErr)
		}
		if _, err := fmt.Fprintln(p.out, invalidValueMsg); err != nil {
			return "", fmt.Errorf("cannot write prompt: %w", err)
		}
	}
}
