package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

func TestLoadFileParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yamlBody := `
mode: voltage
channeliser_invert: partial-88
swap_pol: true
begin_gps: 1000000000
end_gps: 1000000010
adaptive_period: 8
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	o, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if o.Mode != ModeVoltage {
		t.Errorf("Mode = %v, want ModeVoltage", o.Mode)
	}
	if o.ChanneliserInvert != InvertPartial88 {
		t.Errorf("ChanneliserInvert = %v, want InvertPartial88", o.ChanneliserInvert)
	}
	if !o.SwapPol {
		t.Error("SwapPol should be true")
	}
	if o.BeginGPS != 1000000000 || o.EndGPS != 1000000010 {
		t.Errorf("GPS window = [%d,%d], want [1000000000,1000000010]", o.BeginGPS, o.EndGPS)
	}
	if o.AdaptivePeriod != 8 {
		t.Errorf("AdaptivePeriod = %d, want 8", o.AdaptivePeriod)
	}
}

func TestLoadFileRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("mode: not-a-real-mode\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoadFileMissingFileIsConfigurationInvalid(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/run.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, beamform.ErrConfigurationInvalid) {
		t.Errorf("expected ErrConfigurationInvalid, got %v", err)
	}
}
