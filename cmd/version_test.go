package cmd

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	old := Version
	Version = "1.4.0"
	t.Cleanup(func() { Version = old })

	info := Info()
	if info.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", info.Version)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
	if s := info.String(); !strings.HasPrefix(s, "proftune version 1.4.0\n") || !strings.Contains(s, "go:") {
		t.Errorf("String() = %q", s)
	}
}
