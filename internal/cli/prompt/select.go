// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
)

// Sentinel errors for selection.
var (
	ErrNoItems            = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Item is one choice. Preview is shown next to the list by the fuzzy
// finder and ignored by the numbered prompt.
type Item struct {
	Label   string
	Detail  string
	Preview string
}

// Selector handles interactive selection prompts.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
	tty    bool
	find   func(items []Item, header string) (int, error)
}

// NewSelector creates a new Selector using stdin and stdout. The fuzzy
// finder is used when both are terminals.
func NewSelector() *Selector {
	return &Selector{
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
		tty:    logging.Interactive(os.Stdin, os.Stdout),
		find:   fuzzyFind,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for
// testing. It always uses the numbered prompt.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Select asks the user to choose one of items and returns its index.
//
// Returns:
//   - ErrNoItems if the list is empty
//   - 0 without prompting if only one item exists
//   - ErrInvalidSelection if the answer is not a listed number
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) Select(title string, items []Item) (int, error) {
	if len(items) == 0 {
		return -1, ErrNoItems
	}
	if len(items) == 1 {
		return 0, nil
	}
	if s.tty && s.find != nil {
		return s.find(items, title)
	}

	fmt.Fprintf(s.writer, "%s:\n", title)
	for i, it := range items {
		if it.Detail != "" {
			fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, it.Label, it.Detail)
		} else {
			fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, it.Label)
		}
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return -1, err
	}
	if input == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return -1, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if n < 1 || n > len(items) {
		return -1, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(items))
	}
	return n - 1, nil
}

// Confirm asks a yes/no question. Only "y" or "yes" (case-insensitive)
// count as yes; EOF counts as no.
func (s *Selector) Confirm(question string) bool {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)
	input, err := s.readLine()
	if err != nil {
		return false
	}
	input = strings.ToLower(input)
	return input == "y" || input == "yes"
}

func (s *Selector) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

func fuzzyFind(items []Item, header string) (int, error) {
	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			if items[i].Detail != "" {
				return fmt.Sprintf("%s (%s)", items[i].Label, items[i].Detail)
			}
			return items[i].Label
		},
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return items[i].Preview
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return -1, ErrSelectionCancelled
		}
		return -1, errors.Wrap(err, "interactive selection failed")
	}
	return idx, nil
}
