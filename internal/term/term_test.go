package term

import (
	"testing"

	"github.com/backmassage/camsort/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() {
		t.Fatal("ColorAlways should enable colors")
	}
	if got := Paint(Green, "ok"); got != "\033[1;92mok\033[0m" {
		t.Errorf("Paint = %q", got)
	}

	Configure(config.ColorNever)
	if Enabled() {
		t.Fatal("ColorNever should disable colors")
	}
	if got := Paint(Green, "ok"); got != "ok" {
		t.Errorf("Paint without color = %q", got)
	}
}

func TestResolve_AutoRespectsNoColor(t *testing.T) {
	env := map[string]string{"NO_COLOR": "1"}
	if resolve(config.ColorAuto, func(k string) string { return env[k] }) {
		t.Error("NO_COLOR should disable auto colors")
	}
}
