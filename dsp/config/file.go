package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

// fileOptions mirrors Options' fields in their on-disk string form, for
// gopkg.in/yaml.v3 unmarshalling, following the declarative run
// description shape spec.md §4.10 describes.
type fileOptions struct {
	Mode              string `yaml:"mode"`
	Stokes            string `yaml:"stokes"`
	ApplyJones        *bool  `yaml:"apply_jones"`
	UseAntennaGains   *bool  `yaml:"use_antenna_gains"`
	SwapPol           bool   `yaml:"swap_pol"`
	SwapComplex       bool   `yaml:"swap_complex"`
	ConjugateSky      bool   `yaml:"conjugate_sky"`
	ChanneliserInvert string `yaml:"channeliser_invert"`
	AdaptivePeriod    *int64 `yaml:"adaptive_period"`
	BeginGPS          int64  `yaml:"begin_gps"`
	EndGPS            int64  `yaml:"end_gps"`
}

// LoadFile parses a YAML run-configuration file into a validated Options,
// starting from Default() and overriding with whatever fields the file
// sets explicitly.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: reading config file %q: %v", beamform.ErrConfigurationInvalid, path, err)
	}

	var fo fileOptions
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return Options{}, fmt.Errorf("%w: parsing config file %q: %v", beamform.ErrConfigurationInvalid, path, err)
	}

	o := Default()

	if fo.Mode != "" {
		m, err := parseMode(fo.Mode)
		if err != nil {
			return Options{}, err
		}
		WithMode(m)(&o)
	}
	if fo.Stokes != "" {
		s, err := parseStokes(fo.Stokes)
		if err != nil {
			return Options{}, err
		}
		o.Stokes = s
	}
	if fo.ApplyJones != nil {
		o.ApplyJones = *fo.ApplyJones
	}
	if fo.UseAntennaGains != nil {
		o.UseAntennaGains = *fo.UseAntennaGains
	}
	o.SwapPol = fo.SwapPol
	o.SwapComplex = fo.SwapComplex
	o.ConjugateSky = fo.ConjugateSky

	if fo.ChanneliserInvert != "" {
		c, err := parseChanneliserInvert(fo.ChanneliserInvert)
		if err != nil {
			return Options{}, err
		}
		o.ChanneliserInvert = c
	}
	if fo.AdaptivePeriod != nil {
		o.AdaptivePeriod = *fo.AdaptivePeriod
	}
	o.BeginGPS = fo.BeginGPS
	o.EndGPS = fo.EndGPS

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "detected-coherent":
		return ModeDetectedCoherent, nil
	case "detected-incoherent":
		return ModeDetectedIncoherent, nil
	case "voltage":
		return ModeVoltage, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", beamform.ErrConfigurationInvalid, s)
	}
}

func parseStokes(s string) (beamform.StokesMode, error) {
	switch s {
	case "IQUV":
		return beamform.StokesIQUV, nil
	case "I-only":
		return beamform.StokesI, nil
	default:
		return 0, fmt.Errorf("%w: unknown stokes mode %q", beamform.ErrConfigurationInvalid, s)
	}
}

func parseChanneliserInvert(s string) (ChanneliserInvert, error) {
	switch s {
	case "none":
		return InvertNone, nil
	case "partial-88":
		return InvertPartial88, nil
	case "full-128":
		return InvertFull128, nil
	default:
		return 0, fmt.Errorf("%w: unknown channeliser_invert %q", beamform.ErrConfigurationInvalid, s)
	}
}
