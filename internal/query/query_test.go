package query

import (
	"testing"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

const data = "GstRender.Dx12Enabled 1\n" +
	"GstRender.FrameRateLimit 240.000000\n" +
	"GstRender.Adapter NVIDIA GeForce RTX 4090\n" +
	"GstAudio.Volume_Master 0.800000\n" +
	"GstInput.InvertMouse false\n"

func settings(t *testing.T) []profile.Setting {
	t.Helper()
	doc, err := profile.Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	return profile.NewIndex(doc).All()
}

func TestFilter_Select(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{`namespace == "GstRender"`, []string{"GstRender.Dx12Enabled", "GstRender.FrameRateLimit", "GstRender.Adapter"}},
		{`numeric && number > 1`, []string{"GstRender.FrameRateLimit"}},
		{`kind == "string"`, []string{"GstRender.Adapter"}},
		{`kind == "bool" && value == false`, []string{"GstInput.InvertMouse"}},
		{`raw contains "RTX"`, []string{"GstRender.Adapter"}},
		{`name startsWith "Volume"`, []string{"GstAudio.Volume_Master"}},
		{`key in ["GstRender.Dx12Enabled", "GstAudio.Volume_Master"]`, []string{"GstRender.Dx12Enabled", "GstAudio.Volume_Master"}},
		{`line > 4`, []string{"GstInput.InvertMouse"}},
		{`false`, nil},
	}

	all := settings(t)
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := f.Select(all)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Select() returned %d settings, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Key != tt.want[i] {
					t.Errorf("Select()[%d] = %s, want %s", i, got[i].Key, tt.want[i])
				}
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	for _, src := range []string{`namespace ==`, `number + 1`, `unknownField == 1`} {
		if _, err := Compile(src); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Compile(%q) error = %v, want ErrInvalidFilter", src, err)
		}
	}
}

func TestNewSettingEnv(t *testing.T) {
	env := NewSettingEnv(profile.Setting{Key: "GstRender.FrameRateLimit", Raw: "240.000000", Kind: profile.KindFloat, Line: 2})
	if env.Namespace != "GstRender" || env.Name != "FrameRateLimit" || env.Number != 240 || !env.Numeric {
		t.Errorf("NewSettingEnv() = %+v", env)
	}
	if env.Kind != "float" {
		t.Errorf("Kind = %q, want float", env.Kind)
	}
}
