package config

import (
	"errors"
	"testing"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

func TestDefaultIsValid(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
}

func TestWithModeIncoherentForcesStokesIAndNoJones(t *testing.T) {
	o, err := New(WithMode(ModeDetectedIncoherent))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.ApplyJones {
		t.Error("detected-incoherent should force ApplyJones=false")
	}
	if o.Stokes != beamform.StokesI {
		t.Errorf("detected-incoherent should force Stokes=StokesI, got %v", o.Stokes)
	}
}

func TestValidateRejectsChanneliserInvertOutsideVoltageMode(t *testing.T) {
	o := Default()
	o.ChanneliserInvert = InvertFull128
	if err := o.Validate(); !errors.Is(err, beamform.ErrConfigurationInvalid) {
		t.Errorf("expected ErrConfigurationInvalid, got %v", err)
	}
}

func TestValidateRejectsEndBeforeBegin(t *testing.T) {
	o := Default()
	o.BeginGPS = 100
	o.EndGPS = 50
	if err := o.Validate(); !errors.Is(err, beamform.ErrConfigurationInvalid) {
		t.Errorf("expected ErrConfigurationInvalid, got %v", err)
	}
}

func TestBuildInverterSelectsMode(t *testing.T) {
	o := Default()
	o.Mode = ModeVoltage
	o.ChanneliserInvert = InvertPartial88
	inv, err := o.BuildInverter(128, nil)
	if err != nil {
		t.Fatalf("BuildInverter: %v", err)
	}
	if _, ok := inv.(interface {
		Invert([][]complex128, [][]complex128, int, int, int) error
	}); !ok {
		t.Error("returned inverter does not implement ChanneliserInverter")
	}
}
