package review

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LinePrompter asks questions one line at a time.  It suits plain
// terminals and piped input.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a LinePrompter reading answers from in.  A
// *bufio.Reader is used as is, so it can be shared with earlier readers.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its line ending.  End of input
// is reported as ErrAborted.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err == io.EOF {
		return "", ErrAborted
	}
	if err != nil {
		return "", errors.Wrap(err, "reading answer")
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [Y/n] ", question)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

func (p *LinePrompter) Choose(question string, options []string) (int, error) {
	fmt.Fprintln(p.out, question)
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, o)
	}
	for {
		fmt.Fprintf(p.out, "Enter a number (1-%d): ", len(options))
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q.\n", line)
	}
}
