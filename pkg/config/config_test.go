package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Dicklesworthstone/distance_picker/pkg/marks"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

func TestParseAcceptsInfinitySpellings(t *testing.T) {
	for _, spelling := range []string{".inf", "inf", "\"∞\"", "∞", "Infinity"} {
		t.Run(spelling, func(t *testing.T) {
			c, err := Parse([]byte("marks: [100, 250, " + spelling + "]\n"))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			want := []float64{100, 250, units.Infinite}
			if !reflect.DeepEqual(c.RawMarks(), want) {
				t.Errorf("marks = %v, want %v", c.RawMarks(), want)
			}
		})
	}
}

func TestParseFillsDefaults(t *testing.T) {
	c, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(c.RawMarks(), marks.DefaultMarks) {
		t.Errorf("marks = %v, want defaults", c.RawMarks())
	}
	if c.MarkSpacing != picker.DefaultMarkSpacing {
		t.Errorf("MarkSpacing = %v, want %v", c.MarkSpacing, picker.DefaultMarkSpacing)
	}
	if c.IncrementsPerMark != picker.DefaultIncrementsPerMark {
		t.Errorf("IncrementsPerMark = %v, want %v", c.IncrementsPerMark, picker.DefaultIncrementsPerMark)
	}
	if c.History.Driver != DriverPure {
		t.Errorf("History.Driver = %q, want %q", c.History.Driver, DriverPure)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing sentinel", "marks: [100, 200]"},
		{"decreasing", "marks: [200, 100, .inf]"},
		{"single", "marks: [.inf]"},
		{"bad mark", "marks: [100, far, .inf]"},
		{"nested mark", "marks: [[1], .inf]"},
		{"negative spacing", "mark_spacing: -5"},
		{"negative increments", "increments_per_mark: -1"},
		{"zero spacing", "mark_spacing: 0"},
		{"zero increments", "increments_per_mark: 0"},
		{"unknown driver", "history: {driver: postgres}"},
		{"not yaml", "marks: [100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidConfig", tt.yaml, err)
			}
		})
	}
}

func TestPickerUsesLocaleUnlessPinned(t *testing.T) {
	c, err := Parse([]byte("mark_spacing: 40\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Picker(false); got.UseMetricSystem || got.MarkSpacing != 40 {
		t.Errorf("Picker(false) = %+v", got)
	}

	c, err = Parse([]byte("use_metric_system: true\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.Picker(false).UseMetricSystem {
		t.Error("pinned use_metric_system should win over the locale")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	metric := false
	c := Default()
	c.Marks = []MarkValue{100, 300, MarkValue(units.Infinite)}
	c.UseMetricSystem = &metric
	c.IncrementsPerMark = 4

	if err := Save(path, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	loaded, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if source != path {
		t.Errorf("source = %q, want %q", source, path)
	}
	if !reflect.DeepEqual(loaded.RawMarks(), c.RawMarks()) {
		t.Errorf("marks = %v, want %v", loaded.RawMarks(), c.RawMarks())
	}
	if loaded.UseMetricSystem == nil || *loaded.UseMetricSystem {
		t.Error("use_metric_system did not round trip")
	}
	if loaded.IncrementsPerMark != 4 {
		t.Errorf("IncrementsPerMark = %d, want 4", loaded.IncrementsPerMark)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	c := Default()
	c.MarkSpacing = -1
	if err := Save(filepath.Join(t.TempDir(), FileName), c); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Save error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFirstSearchOrder(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	if err := os.WriteFile(first, []byte("mark_spacing: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("mark_spacing: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, source, err := LoadFirst([]string{missing, first, second})
	if err != nil {
		t.Fatalf("LoadFirst: %v", err)
	}
	if source != first || c.MarkSpacing != 10 {
		t.Errorf("got source %q spacing %v, want %q and 10", source, c.MarkSpacing, first)
	}

	c, source, err = LoadFirst([]string{missing})
	if err != nil {
		t.Fatalf("LoadFirst: %v", err)
	}
	if source != "" || c.MarkSpacing != picker.DefaultMarkSpacing {
		t.Errorf("expected defaults, got source %q spacing %v", source, c.MarkSpacing)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/x/history.db"); got != filepath.Join(home, "x", "history.db") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/tmp/h.db"); got != "/tmp/h.db" {
		t.Errorf("expandHome changed an absolute path: %q", got)
	}
}
