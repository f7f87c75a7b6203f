package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultWriteConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultWriteConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if *cfg.Velocity != 200 || *cfg.Acceleration != 1000 {
		t.Errorf("kinematics = %g/%g, want 200/1000", *cfg.Velocity, *cfg.Acceleration)
	}
	if *cfg.HatchSize != 0.5 || *cfg.LayerHeight != 0.75 {
		t.Errorf("hatch params = %g/%g, want 0.5/0.75", *cfg.HatchSize, *cfg.LayerHeight)
	}
	if cfg.ExtraRate != nil {
		t.Error("defaults set extra_rate alongside feed_rate")
	}
}

func TestLoadWriteConfigPartialOverride(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "write.json", `{"velocity": 150, "hatch_size": 0.4}`)
	cfg, err := LoadWriteConfig(path)
	if err != nil {
		t.Fatalf("LoadWriteConfig: %v", err)
	}

	if *cfg.Velocity != 150 {
		t.Errorf("velocity = %g, want 150", *cfg.Velocity)
	}
	if *cfg.HatchSize != 0.4 {
		t.Errorf("hatch_size = %g, want 0.4", *cfg.HatchSize)
	}
	// Unnamed fields keep their defaults.
	if *cfg.Acceleration != 1000 {
		t.Errorf("acceleration = %g, want default 1000", *cfg.Acceleration)
	}
	if *cfg.LayerHeight != 0.75 {
		t.Errorf("layer_height = %g, want default 0.75", *cfg.LayerHeight)
	}
}

func TestLoadWriteConfigRejectsNonJSON(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "write.yaml", "velocity: 150")
	if _, err := LoadWriteConfig(path); err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("err = %v, want extension error", err)
	}
}

func TestLoadWriteConfigMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadWriteConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadWriteConfigMalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "write.json", `{"velocity": `)
	if _, err := LoadWriteConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"negative velocity", `{"velocity": -1}`, "velocity must be positive"},
		{"zero hatch", `{"hatch_size": 0}`, "hatch_size must be positive"},
		{"both rates", `{"extra_rate": 0.5}`, "mutually exclusive"},
		{"inverted probe range", `{"probe_z_min": 10, "probe_z_max": -10}`, "below probe_z_min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, "write.json", tt.json)
			_, err := LoadWriteConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMergeNilFieldsKeepBase(t *testing.T) {
	t.Parallel()

	cfg := DefaultWriteConfig()
	cfg.Merge(&WriteConfig{ProbeZMin: ptrFloat64(-10)})
	if *cfg.ProbeZMin != -10 {
		t.Errorf("probe_z_min = %g, want -10", *cfg.ProbeZMin)
	}
	if *cfg.ProbeZMax != 25 {
		t.Errorf("probe_z_max = %g, want untouched 25", *cfg.ProbeZMax)
	}
}
