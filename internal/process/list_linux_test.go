//go:build linux

package process

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeProc(t *testing.T, root, pid, cmdline, comm string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListProc(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "100", "Z:\\games\\bf6.exe\x00-dx12\x00", "bf6.exe")
	writeProc(t, root, "200", "", "battlefield6_x6")
	writeProc(t, root, "300", "/usr/bin/steam\x00", "steam")
	if err := os.MkdirAll(filepath.Join(root, "self"), 0o755); err != nil {
		t.Fatal(err)
	}

	procs, err := listProc(context.Background(), root)
	if err != nil {
		t.Fatalf("listProc() error = %v", err)
	}

	got := make(map[int]Process)
	for _, p := range procs {
		got[p.PID] = p
	}
	if len(got) != 3 {
		t.Fatalf("listProc() returned %d processes, want 3", len(got))
	}
	if got[100].Name != "bf6.exe" || got[100].Truncated {
		t.Errorf("pid 100 = %+v", got[100])
	}
	if got[200].Name != "battlefield6_x6" || !got[200].Truncated {
		t.Errorf("pid 200 = %+v", got[200])
	}
	if got[300].Name != "steam" {
		t.Errorf("pid 300 = %+v", got[300])
	}

	d := NewDetector(nil)
	d.list = func(ctx context.Context) ([]Process, error) { return listProc(ctx, root) }
	matches, err := d.Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("Find() = %v, want 2 matches", matches)
	}
}
