package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/proftune/internal/errors"
)

var presets = []Item{
	{Label: "esports", Detail: "Esports"},
	{Label: "balanced", Detail: "Balanced"},
	{Label: "quality"},
}

func TestSelect_EmptyList(t *testing.T) {
	t.Parallel()

	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	if _, err := s.Select("Presets", nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("Select() error = %v, want ErrNoItems", err)
	}
}

func TestSelect_SingleItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	idx, err := s.Select("Presets", presets[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
	// Should not prompt for single item
	if buf.Len() > 0 {
		t.Errorf("expected no output for single item, got: %s", buf.String())
	}
}

func TestSelect_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantIdx int
	}{
		{name: "explicit first", input: "1\n", wantIdx: 0},
		{name: "explicit last", input: "3\n", wantIdx: 2},
		{name: "default on empty", input: "\n", wantIdx: 0},
		{name: "whitespace trimmed", input: "  2  \n", wantIdx: 1},
		{name: "no trailing newline", input: "2", wantIdx: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			idx, err := s.Select("Presets", presets)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.wantIdx {
				t.Errorf("idx = %d, want %d", idx, tt.wantIdx)
			}
			out := buf.String()
			if !strings.Contains(out, "[1] esports (Esports)") || !strings.Contains(out, "[3] quality\n") {
				t.Errorf("unexpected prompt: %q", out)
			}
		})
	}
}

func TestSelect_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "not a number", input: "abc\n", wantErr: ErrInvalidSelection},
		{name: "zero", input: "0\n", wantErr: ErrInvalidSelection},
		{name: "too large", input: "4\n", wantErr: ErrInvalidSelection},
		{name: "eof", input: "", wantErr: ErrSelectionCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSelectorWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
			if _, err := s.Select("Presets", presets); !errors.Is(err, tt.wantErr) {
				t.Errorf("Select() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelect_UsesFinderOnTTY(t *testing.T) {
	t.Parallel()

	var gotHeader string
	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	s.tty = true
	s.find = func(items []Item, header string) (int, error) {
		gotHeader = header
		return len(items) - 1, nil
	}

	idx, err := s.Select("Presets", presets)
	if err != nil || idx != 2 {
		t.Errorf("Select() = %d, %v", idx, err)
	}
	if gotHeader != "Presets" {
		t.Errorf("header = %q", gotHeader)
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"  Y  \n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)
			if got := s.Confirm("Restore backup?"); got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(buf.String(), "Restore backup? [y/N]: ") {
				t.Errorf("prompt = %q", buf.String())
			}
		})
	}
}
