package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
	"github.com/thoreinstein/proftune/internal/preset"
	"github.com/thoreinstein/proftune/internal/process"
)

const testProfile = "GstRender.Dx12Enabled 1\n" +
	"GstRender.FrameRateLimit 144.000000\n" +
	"GstRender.MotionBlurWorld 0.500000\n" +
	"GstAudio.Volume 0.800000\n" +
	"GstInput.InvertMouse false\n"

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
	pathAll = false
	listNamespace, listFilter, listJSON = "", "", false
	setForce, setDryRun = false, false
	exportFormat, exportOutput, exportTyped = "", "", false
}

func TestPath(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runPathWithWriter(&buf, a); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != path {
		t.Errorf("output = %q, want %q", buf.String(), path)
	}

	pathAll = true
	buf.Reset()
	if err := runPathWithWriter(&buf, a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "found") || !strings.Contains(buf.String(), path) {
		t.Errorf("--all output = %q", buf.String())
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		filter    string
		wantKeys  []string
	}{
		{"all", "", "", []string{"GstRender.Dx12Enabled", "GstRender.FrameRateLimit", "GstRender.MotionBlurWorld", "GstAudio.Volume", "GstInput.InvertMouse"}},
		{"namespace", "GstAudio", "", []string{"GstAudio.Volume"}},
		{"filter", "", `kind == "float" && number > 100`, []string{"GstRender.FrameRateLimit"}},
		{"namespace and filter", "GstRender", `name contains "Blur"`, []string{"GstRender.MotionBlurWorld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(resetFlags)
			a, _ := newTestApp(t, process.Disabled())
			listNamespace, listFilter, listJSON = tt.namespace, tt.filter, true

			var buf bytes.Buffer
			if err := runListWithWriter(context.Background(), &buf, a); err != nil {
				t.Fatal(err)
			}
			var out []settingOutput
			if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
				t.Fatalf("decoding %q: %v", buf.String(), err)
			}
			var keys []string
			for _, s := range out {
				keys = append(keys, s.Key)
			}
			if strings.Join(keys, ",") != strings.Join(tt.wantKeys, ",") {
				t.Errorf("keys = %v, want %v", keys, tt.wantKeys)
			}
		})
	}
}

func TestList_Table(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf, a); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want header + 5:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "KEY") || !strings.Contains(lines[5], "bool") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestList_BadFilter(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())
	listFilter = "key +"

	err := runListWithWriter(context.Background(), &bytes.Buffer{}, a)
	if err == nil || !strings.Contains(err.Error(), "invalid filter") {
		t.Errorf("error = %v, want invalid filter", err)
	}
}

func TestGet(t *testing.T) {
	a, _ := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runGetWithWriter(context.Background(), &buf, a, "GstRender.FrameRateLimit"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "144.000000\n" {
		t.Errorf("output = %q", buf.String())
	}

	err := runGetWithWriter(context.Background(), &buf, a, "GstRender.Nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSet(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Disabled())

	var buf bytes.Buffer
	if err := runSetWithWriter(context.Background(), &buf, a, "GstRender.FrameRateLimit", "240.000000"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "144.000000 -> 240.000000") {
		t.Errorf("output = %q", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Replace(testProfile, "144.000000", "240.000000", 1)
	if string(data) != want {
		t.Errorf("profile =\n%s\nwant\n%s", data, want)
	}

	backups, err := a.Backups().List()
	if err != nil || len(backups) != 1 || backups[0].Reason != "set:GstRender.FrameRateLimit" {
		t.Errorf("backups = %+v, %v", backups, err)
	}

	buf.Reset()
	if err := runSetWithWriter(context.Background(), &buf, a, "GstRender.FrameRateLimit", "240.000000"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "already") {
		t.Errorf("second set output = %q", buf.String())
	}
}

func TestSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		guard   preset.ProcessGuard
		wantErr error
	}{
		{"unknown key", "GstRender.Nope", "1", process.Disabled(), errors.ErrNotFound},
		{"empty value", "GstAudio.Volume", "", process.Disabled(), errors.ErrInvalidConfig},
		{"type mismatch", "GstInput.InvertMouse", "0.5", process.Disabled(), errors.ErrApply},
		{"out of range", "GstRender.FrameRateLimit", "5000.000000", process.Disabled(), preset.ErrRuleViolation},
		{"game running", "GstAudio.Volume", "0.5", process.Static(true), errors.ErrProcessActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(resetFlags)
			a, path := newTestApp(t, tt.guard)

			err := runSetWithWriter(context.Background(), &bytes.Buffer{}, a, tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			data, _ := os.ReadFile(path)
			if string(data) != testProfile {
				t.Error("profile changed on a failed set")
			}
		})
	}
}

func TestSet_ForceAndDryRun(t *testing.T) {
	t.Cleanup(resetFlags)
	a, path := newTestApp(t, process.Static(true))

	setForce, setDryRun = true, true
	var buf bytes.Buffer
	if err := runSetWithWriter(context.Background(), &buf, a, "GstAudio.Volume", "0.500000"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Would set GstAudio.Volume") {
		t.Errorf("output = %q", buf.String())
	}
	if data, _ := os.ReadFile(path); string(data) != testProfile {
		t.Error("dry run changed the profile")
	}

	setDryRun = false
	if err := runSetWithWriter(context.Background(), &bytes.Buffer{}, a, "GstAudio.Volume", "0.500000"); err != nil {
		t.Fatalf("forced set error = %v", err)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), "GstAudio.Volume 0.500000\n") {
		t.Errorf("profile = %q", data)
	}
}

func TestExport(t *testing.T) {
	t.Cleanup(resetFlags)
	a, _ := newTestApp(t, process.Disabled())

	exportFormat = "ini"
	var buf bytes.Buffer
	if err := runExportWithWriter(context.Background(), &buf, a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[GstAudio]") {
		t.Errorf("ini output = %q", buf.String())
	}

	exportFormat = ""
	exportOutput = filepath.Join(t.TempDir(), "settings.yaml")
	buf.Reset()
	if err := runExportWithWriter(context.Background(), &buf, a); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(exportOutput)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "GstRender:") {
		t.Errorf("yaml file = %q", data)
	}
	if !strings.Contains(buf.String(), "Exported 5 settings") {
		t.Errorf("output = %q", buf.String())
	}

	exportFormat = "xml"
	if err := runExportWithWriter(context.Background(), &buf, a); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
