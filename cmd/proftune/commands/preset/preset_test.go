package preset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/cli/prompt"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
	"github.com/thoreinstein/proftune/internal/preset"
	"github.com/thoreinstein/proftune/internal/process"
)

// testProfile matches the balanced preset on every key it has.
const testProfile = "GstRender.Dx12Enabled 1\n" +
	"GstRender.FullscreenMode 1\n" +
	"GstRender.FrameRateLimit 144.000000\n" +
	"GstRender.MotionBlurWorld 0.5\n" +
	"GstRender.ResolutionScale 1.0\n"

func newTestApp(t *testing.T, guard preset.ProcessGuard) (*app.App, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PROFSAVE_profile")
	if err := os.WriteFile(path, []byte(testProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Backup.Dir = t.TempDir()
	return app.New(cfg, "test", app.WithLogger(logging.ForTest(t)), app.WithProfile(path), app.WithGuard(guard)), path
}

func resetFlags() {
	listJSON, diffJSON = false, false
	applyForce, applyDryRun, applyInteractive = false, false, false
	newSelector = prompt.NewSelector
}

func readProfile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestList(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, a); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"esports", "competitive", "balanced", "quality", "performance"} {
		if !strings.Contains(buf.String(), id) {
			t.Errorf("list output missing %q:\n%s", id, buf.String())
		}
	}

	listJSON = true
	buf.Reset()
	if err := runListWithWriter(&buf, a); err != nil {
		t.Fatal(err)
	}
	var out []presetOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 5 || out[0].ID != "esports" {
		t.Errorf("JSON presets = %+v", out)
	}
	if out[0].Settings["GstRender.FrameRateLimit"] != "240.000000" {
		t.Errorf("esports FrameRateLimit = %q", out[0].Settings["GstRender.FrameRateLimit"])
	}
}

func TestShow(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runShowWithWriter(&buf, a, "quality"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "GstRender.FrameRateLimit") || !strings.Contains(buf.String(), "60.000000") {
		t.Errorf("show output = %q", buf.String())
	}

	err := runShowWithWriter(&buf, a, "nope")
	if !errors.Is(err, preset.ErrPresetNotFound) || !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown preset error = %v", err)
	}
}

func TestDiff(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())
	ctx := context.Background()

	var buf bytes.Buffer
	if err := runDiffWithWriter(ctx, &buf, a, "balanced"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "already matches") {
		t.Errorf("balanced diff = %q", buf.String())
	}

	diffJSON = true
	buf.Reset()
	if err := runDiffWithWriter(ctx, &buf, a, "esports"); err != nil {
		t.Fatal(err)
	}
	var d preset.Diff
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	got := make(map[string]string)
	for _, c := range d.Changes {
		got[c.Key] = c.New
	}
	want := map[string]string{
		"GstRender.FullscreenMode":  "2",
		"GstRender.FrameRateLimit":  "240.000000",
		"GstRender.MotionBlurWorld": "0.000000",
	}
	if len(got) != len(want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if len(d.SkippedUnknownKeys) == 0 {
		t.Error("expected keys missing from the profile to be skipped")
	}

	if readProfile(t, path) != testProfile {
		t.Error("diff modified the profile")
	}
}

func TestApply(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runApplyWithWriter(context.Background(), &buf, a, "esports"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Applied esports: 3 setting(s) changed") {
		t.Errorf("apply output = %q", buf.String())
	}

	got := readProfile(t, path)
	for _, line := range []string{"GstRender.FullscreenMode 2\n", "GstRender.FrameRateLimit 240.000000\n", "GstRender.MotionBlurWorld 0.000000\n", "GstRender.ResolutionScale 1.0\n"} {
		if !strings.Contains(got, line) {
			t.Errorf("profile missing %q:\n%s", line, got)
		}
	}

	backups, err := a.Backups().List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 || backups[0].Reason != "preset:esports" {
		t.Errorf("backups = %+v", backups)
	}

	buf.Reset()
	if err := runApplyWithWriter(context.Background(), &buf, a, "esports"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "nothing to do") {
		t.Errorf("second apply output = %q", buf.String())
	}
	if backups, _ := a.Backups().List(); len(backups) != 1 {
		t.Errorf("no-op apply took a backup: %d backups", len(backups))
	}
}

func TestApply_DryRun(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())
	applyDryRun = true

	var buf bytes.Buffer
	if err := runApplyWithWriter(context.Background(), &buf, a, "quality"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Dry run") || !strings.Contains(buf.String(), "60.000000") {
		t.Errorf("dry run output = %q", buf.String())
	}
	if readProfile(t, path) != testProfile {
		t.Error("dry run modified the profile")
	}
}

func TestApply_GameRunning(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Static(true))

	var buf bytes.Buffer
	err := runApplyWithWriter(context.Background(), &buf, a, "esports")
	if !errors.Is(err, errors.ErrProcessActive) {
		t.Fatalf("error = %v, want ErrProcessActive", err)
	}
	if readProfile(t, path) != testProfile {
		t.Error("refused apply modified the profile")
	}

	applyForce = true
	buf.Reset()
	if err := runApplyWithWriter(context.Background(), &buf, a, "esports"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "game is running") {
		t.Errorf("forced apply output = %q", buf.String())
	}
}

func TestApply_Interactive(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"pick performance", "5\n", nil},
		{"out of range", "9\n", prompt.ErrInvalidSelection},
		{"cancelled", "", prompt.ErrSelectionCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newSelector = func() *prompt.Selector {
				return prompt.NewSelectorWithIO(strings.NewReader(tt.input), io.Discard)
			}

			var buf bytes.Buffer
			err := runApplyWithWriter(context.Background(), &buf, a, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(readProfile(t, path), "GstRender.ResolutionScale 0.8\n") {
				t.Errorf("performance preset not applied:\n%s", readProfile(t, path))
			}
		})
	}
}

func TestApply_Unknown(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())

	err := runApplyWithWriter(context.Background(), io.Discard, a, "ultra")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
