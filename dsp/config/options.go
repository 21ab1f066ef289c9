// Package config implements run configuration and mode dispatch (C10):
// a validated Options struct built from functional options, following
// dsp/core/options.go's WithX/ApplyOptions shape, plus YAML file loading
// used by the command-line entry point.
package config

import (
	"fmt"

	"github.com/mwatelescope/beamform/dsp/beamform"
	"github.com/mwatelescope/beamform/dsp/voltage"
)

// Mode selects the top-level output pipeline branch.
type Mode int

const (
	ModeDetectedCoherent Mode = iota
	ModeDetectedIncoherent
	ModeVoltage
)

// ChanneliserInvert selects the C7 mode for voltage output.
type ChanneliserInvert int

const (
	InvertNone ChanneliserInvert = iota
	InvertPartial88
	InvertFull128
)

// Options is the validated run configuration consumed by the scheduler.
type Options struct {
	Mode              Mode
	Stokes            beamform.StokesMode
	ApplyJones        bool
	UseAntennaGains   bool
	SwapPol           bool
	SwapComplex       bool
	ConjugateSky      bool
	ChanneliserInvert ChanneliserInvert
	AdaptivePeriod    int64
	BeginGPS          int64
	EndGPS            int64
}

// Option mutates an Options during construction.
type Option func(*Options)

// Default returns the baseline configuration: detected-coherent mode,
// full Stokes, Jones and antenna gains applied, no sky/complex/pol
// swaps, no channeliser inversion, adaptive period 0 (first second
// only).
func Default() Options {
	return Options{
		Mode:              ModeDetectedCoherent,
		Stokes:            beamform.StokesIQUV,
		ApplyJones:        true,
		UseAntennaGains:   true,
		ChanneliserInvert: InvertNone,
		AdaptivePeriod:    0,
	}
}

// WithMode sets the output pipeline mode. detected-incoherent implies one
// output pol, no Jones, and no phase, per spec.md §4.10: selecting it
// also forces ApplyJones false and Stokes to StokesI.
func WithMode(m Mode) Option {
	return func(o *Options) {
		o.Mode = m
		if m == ModeDetectedIncoherent {
			o.ApplyJones = false
			o.Stokes = beamform.StokesI
		}
	}
}

// WithStokes sets the detected-output Stokes mode.
func WithStokes(s beamform.StokesMode) Option {
	return func(o *Options) { o.Stokes = s }
}

// WithApplyJones gates C2's inverse-Jones application step.
func WithApplyJones(v bool) Option {
	return func(o *Options) { o.ApplyJones = v }
}

// WithUseAntennaGains gates C2's antenna-gain division step.
func WithUseAntennaGains(v bool) Option {
	return func(o *Options) { o.UseAntennaGains = v }
}

// WithDecodeSwaps sets the three §4.1 decode-time toggles.
func WithDecodeSwaps(swapPol, swapComplex, conjugateSky bool) Option {
	return func(o *Options) {
		o.SwapPol = swapPol
		o.SwapComplex = swapComplex
		o.ConjugateSky = conjugateSky
	}
}

// WithChanneliserInvert selects the C7 mode for voltage output.
func WithChanneliserInvert(c ChanneliserInvert) Option {
	return func(o *Options) { o.ChanneliserInvert = c }
}

// WithAdaptivePeriod sets the number of seconds between scale/offset
// recomputation; 0 means first second only.
func WithAdaptivePeriod(seconds int64) Option {
	return func(o *Options) {
		if seconds >= 0 {
			o.AdaptivePeriod = seconds
		}
	}
}

// WithGPSWindow sets the inclusive run window.
func WithGPSWindow(begin, end int64) Option {
	return func(o *Options) {
		o.BeginGPS = begin
		o.EndGPS = end
	}
}

// New builds a validated Options from the given functional options.
func New(opts ...Option) (Options, error) {
	o := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate checks internal consistency, returning
// beamform.ErrConfigurationInvalid (wrapped) on the first violation.
func (o Options) Validate() error {
	if o.Mode < ModeDetectedCoherent || o.Mode > ModeVoltage {
		return fmt.Errorf("%w: unknown mode %d", beamform.ErrConfigurationInvalid, o.Mode)
	}
	if o.Mode == ModeDetectedIncoherent && (o.ApplyJones || o.Stokes != beamform.StokesI) {
		return fmt.Errorf("%w: detected-incoherent mode requires apply_jones=false and stokes=I-only", beamform.ErrConfigurationInvalid)
	}
	if o.ChanneliserInvert < InvertNone || o.ChanneliserInvert > InvertFull128 {
		return fmt.Errorf("%w: unknown channeliser_invert %d", beamform.ErrConfigurationInvalid, o.ChanneliserInvert)
	}
	if o.Mode != ModeVoltage && o.ChanneliserInvert != InvertNone {
		return fmt.Errorf("%w: channeliser_invert only applies to voltage mode", beamform.ErrConfigurationInvalid)
	}
	if o.AdaptivePeriod < 0 {
		return fmt.Errorf("%w: adaptive_period must be >= 0", beamform.ErrConfigurationInvalid)
	}
	if o.EndGPS < o.BeginGPS {
		return fmt.Errorf("%w: end_gps (%d) before begin_gps (%d)", beamform.ErrConfigurationInvalid, o.EndGPS, o.BeginGPS)
	}
	return nil
}

// BuildInverter resolves the configured ChanneliserInvert into a concrete
// beamform.ChanneliserInverter, using the standard 88-of-128, 20-channel
// edge-drop partial configuration and a supplied full-inverse fix-up
// filter for the full-128 mode.
func (o Options) BuildInverter(nchan int, fullInvertFixup []float64) (beamform.ChanneliserInverter, error) {
	switch o.ChanneliserInvert {
	case InvertNone:
		return voltage.PassThrough{}, nil
	case InvertPartial88:
		return voltage.NewPartialInvert(), nil
	case InvertFull128:
		return voltage.NewFullInvert(nchan, fullInvertFixup)
	default:
		return nil, fmt.Errorf("%w: unknown channeliser_invert %d", beamform.ErrConfigurationInvalid, o.ChanneliserInvert)
	}
}
