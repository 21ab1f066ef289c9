package schedule

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mwatelescope/beamform/dsp/beamform"
	"github.com/mwatelescope/beamform/dsp/config"
	"github.com/mwatelescope/beamform/dsp/level"
	"github.com/mwatelescope/beamform/dsp/voltage"
)

// Scheduler drives the per-second beamforming pipeline across the
// configured GPS window, owning every pointing's accumulators and
// enforcing the state machine and ordering guarantees of spec.md §4.9/§5.
type Scheduler struct {
	plan beamform.Plan
	opts config.Options

	raw     beamform.RawSecondSource
	gainSrc beamform.AntennaGainSource // optional, nil if gains not configured

	detSink  beamform.DetectedSink // required outside voltage mode
	voltSink beamform.VoltageSink  // required in voltage mode

	pointings []*pointingState
	state     State
	logger    *log.Logger

	lastAdaptiveGPS int64
	haveAdaptive    bool
}

const voltageFixupTaps = 32

// New builds a Scheduler. calSrcs must have length plan.Pointings: one
// calibration source per pointing (distinct pointings use distinct
// weight/phase/Jones tables; antenna gains, by contrast, are a property
// of the receiving electronics and are shared across pointings, hence the
// single gainSrc).
func New(
	plan beamform.Plan,
	opts config.Options,
	raw beamform.RawSecondSource,
	calSrcs []beamform.CalibrationSource,
	gainSrc beamform.AntennaGainSource,
	detSink beamform.DetectedSink,
	voltSink beamform.VoltageSink,
	logger *log.Logger,
) (*Scheduler, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(calSrcs) != plan.Pointings {
		return nil, fmt.Errorf("%w: %d calibration sources for %d pointings", beamform.ErrConfigurationInvalid, len(calSrcs), plan.Pointings)
	}
	if opts.Mode == config.ModeVoltage && voltSink == nil {
		return nil, fmt.Errorf("%w: voltage mode requires a VoltageSink", beamform.ErrConfigurationInvalid)
	}
	if opts.Mode != config.ModeVoltage && detSink == nil {
		return nil, fmt.Errorf("%w: detected modes require a DetectedSink", beamform.ErrConfigurationInvalid)
	}
	if logger == nil {
		logger = log.Default()
	}

	npolOut := opts.Stokes.NumPols()
	const targetVariance = 32.0

	pointings := make([]*pointingState, plan.Pointings)
	for k := range pointings {
		pointings[k] = newPointingState(plan, calSrcs[k], npolOut, targetVariance, nil)
	}

	if opts.Mode == config.ModeVoltage {
		for k := range pointings {
			inv, err := opts.BuildInverter(plan.Channels, defaultFixupCoeffs(voltageFixupTaps))
			if err != nil {
				return nil, err
			}
			asm, err := voltage.NewAssembler(plan.Channels, plan.SamplesPerSec, voltageFixupTaps, inv)
			if err != nil {
				return nil, err
			}
			pointings[k].assembler = asm
		}
	}

	return &Scheduler{
		plan:      plan,
		opts:      opts,
		raw:       raw,
		gainSrc:   gainSrc,
		detSink:   detSink,
		voltSink:  voltSink,
		pointings: pointings,
		state:     Idle,
		logger:    logger,
	}, nil
}

// Run drives the pipeline sequentially from plan.BeginGPS to plan.EndGPS
// inclusive, checking ctx for cooperative cancellation between seconds
// (spec.md §5's single cancel-flag-polled-between-seconds model).
func (s *Scheduler) Run(ctx context.Context) error {
	for gps := s.plan.BeginGPS; gps <= s.plan.EndGPS; gps++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("schedule: run cancelled before second %d: %w", gps, err)
		}
		if err := s.runSecond(ctx, gps); err != nil {
			return fmt.Errorf("schedule: second %d: %w", gps, err)
		}
	}
	return nil
}

// State returns the scheduler's current pipeline state.
func (s *Scheduler) State() State { return s.state }

func (s *Scheduler) runSecond(ctx context.Context, gps int64) error {
	s.state = Loading
	raw, err := s.raw.RawSecond(ctx, gps)
	if err != nil {
		return fmt.Errorf("%w: %v", beamform.ErrInputMissing, err)
	}
	if len(raw) != s.plan.PackedBytesPerSecond() {
		return fmt.Errorf("%w: got %d bytes, want %d", beamform.ErrInputMalformed, len(raw), s.plan.PackedBytesPerSecond())
	}

	var gains []complex128
	if s.gainSrc != nil {
		gains, err = s.gainSrc.AntennaGains(ctx, gps)
		if err != nil {
			s.logger.Warn("antenna gains unavailable, proceeding without", "gps", gps, "err", err)
			gains = nil
		}
	}

	for k, p := range s.pointings {
		p.resetAccumulators()
		cal, err := p.calSrc.Calibration(ctx, gps)
		if err != nil {
			s.logger.Warn("zero calibration for pointing, emitting zero second", "pointing", k, "gps", gps, "err", err)
			cal = beamform.ZeroCalibration(s.plan)
		}
		if s.opts.UseAntennaGains && gains != nil {
			cal.AntennaGains = gains
		}
		p.cal = cal
	}

	s.state = Decoded
	s.state = Beamformed
	if err := s.beamformSecond(raw, gains); err != nil {
		return err
	}

	s.state = Quantised
	adaptiveDue := !s.haveAdaptive || (s.opts.AdaptivePeriod > 0 && gps-s.lastAdaptiveGPS >= s.opts.AdaptivePeriod)
	if err := s.quantiseSecond(adaptiveDue); err != nil {
		return err
	}
	if adaptiveDue {
		s.lastAdaptiveGPS = gps
		s.haveAdaptive = true
	}

	s.state = Emitted
	// For voltage-mode pointings, emitSecond's call to InvertSecond also
	// advances each ring's tap-overlap carry for the next second.
	if err := s.emitSecond(ctx, gps); err != nil {
		return fmt.Errorf("%w: %v", beamform.ErrContainerWriteFailure, err)
	}

	return nil
}

// beamformSecond fans the channel work out across an errgroup, one
// goroutine per channel, each writing to disjoint (sample, channel) output
// slots so no cross-worker reduction is needed (spec.md §5's
// "accumulators exclusive per worker partition").
func (s *Scheduler) beamformSecond(raw []byte, gains []complex128) error {
	for _, p := range s.pointings {
		p := p
		var eg errgroup.Group
		for c := 0; c < s.plan.Channels; c++ {
			c := c
			eg.Go(func() error {
				return s.beamformChannel(raw, p, c)
			})
		}
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("%w: %v", beamform.ErrGpuKernelFailure, err)
		}
	}
	return nil
}

func (s *Scheduler) beamformChannel(raw []byte, p *pointingState, c int) error {
	a := s.plan.Antennas
	decodeOpts := beamform.DecodeOptions{
		SwapComplex:  s.opts.SwapComplex,
		SwapPol:      s.opts.SwapPol,
		ConjugateSky: s.opts.ConjugateSky,
	}
	npolOut := s.opts.Stokes.NumPols()
	useGains := s.opts.UseAntennaGains && p.cal.AntennaGains != nil

	for sIdx := 0; sIdx < s.plan.SamplesPerSec; sIdx++ {
		base := s.plan.SampleIndex(sIdx, c) // first of the A*P bytes for (s,c)

		var coherent beamform.CoherentVec
		var noise beamform.NoiseFloor
		var incoherentSum float64

		for ai := 0; ai < a; ai++ {
			bx := raw[base+ai*2]
			by := raw[base+ai*2+1]
			eX, eY := beamform.Decode(bx, by, decodeOpts)

			// C4 reads pre-calibration voltages directly; see
			// DESIGN.md's "Open Question decisions" for why this is
			// intentional rather than a bug.
			wx, wy := 0.0, 0.0
			if 2*ai+1 < len(p.cal.FlagWeight) {
				wx, wy = p.cal.FlagWeight[2*ai], p.cal.FlagWeight[2*ai+1]
			}
			incoherentSum += (real(eX)*real(eX)+imag(eX)*imag(eX))*wx*wx + (real(eY)*real(eY)+imag(eY)*imag(eY))*wy*wy

			if p.cal.IsZero() {
				continue
			}
			cx, cy := p.cal.ApplyCalibration(ai, c, eX, eY, s.opts.ApplyJones, useGains)
			coherent.X += cx
			coherent.Y += cy
			noise.Add(cx, cy)
		}
		if p.cal.WSum != 0 {
			incoherentSum /= p.cal.WSum
		}

		p.coherent[sIdx][c] = coherent
		p.noise[sIdx][c] = noise

		var out []float64
		switch s.opts.Mode {
		case config.ModeDetectedIncoherent:
			out = beamform.DetectIncoherent(incoherentSum)
		default:
			out = beamform.DetectStokes(coherent, noise, p.cal.WSum, s.opts.Stokes)
		}
		copy(p.detected[sIdx][c*npolOut:(c+1)*npolOut], out)

		if p.assembler != nil {
			p.assembler.BodyX(c)[sIdx] = coherent.X
			p.assembler.BodyY(c)[sIdx] = coherent.Y
		}
	}
	return nil
}

// quantiseSecond runs C8 (when due) and, for detected streams, writes the
// post-quantisation (dequantised) values back into each pointing's
// detected buffer alongside the scale/offset table the quantisation used.
// Voltage streams instead record a single occupancy-searched gain, since
// the reconstructed broadband series has no per-channel structure.
func (s *Scheduler) quantiseSecond(adaptiveDue bool) error {
	npolOut := s.opts.Stokes.NumPols()

	for _, p := range s.pointings {
		if p.assembler != nil || !adaptiveDue {
			continue
		}
		for sIdx := range p.detected {
			for c := 0; c < s.plan.Channels; c++ {
				for pol := 0; pol < npolOut; pol++ {
					p.tracker.Add(c, pol, complex(p.detected[sIdx][c*npolOut+pol], 0))
				}
			}
		}
	}

	for _, p := range s.pointings {
		if p.assembler != nil {
			continue
		}
		so := p.scaleOffsets
		if adaptiveDue {
			so = p.tracker.ScaleOffsets()
			p.tracker.Reset()
		}
		nsamples := len(p.detected)
		series := make([]float64, nsamples)
		packed := make([]byte, nsamples)
		for c := 0; c < s.plan.Channels; c++ {
			for pol := 0; pol < npolOut; pol++ {
				i := c*npolOut + pol
				scale, offset := so[c][pol].Scale, so[c][pol].Offset
				for sIdx := 0; sIdx < nsamples; sIdx++ {
					series[sIdx] = p.detected[sIdx][i]
				}
				level.QuantizeBlock(packed, series, scale, offset)
				level.DequantizeBlock(series, packed, scale, offset)
				for sIdx := 0; sIdx < nsamples; sIdx++ {
					p.detected[sIdx][i] = series[sIdx]
				}
			}
		}
		p.scaleOffsets = so
	}

	return nil
}

func (s *Scheduler) emitSecond(ctx context.Context, gps int64) error {
	for k, p := range s.pointings {
		if p.assembler != nil {
			interleaved, err := p.assembler.InvertSecond()
			if err != nil {
				return err
			}
			re := make([]float64, 0, len(interleaved)/4)
			for i := 0; i < len(interleaved); i += 4 {
				re = append(re, interleaved[i])
			}
			gain, err := level.SearchVoltageGain(re)
			if err != nil {
				return err
			}

			if err := s.voltSink.WriteVoltageSecond(ctx, beamform.VoltageSecond{
				Pointing:    k,
				GPSSecond:   gps,
				Interleaved: interleaved,
				Scale:       1 / gain,
				Offset:      0,
			}); err != nil {
				return err
			}
			continue
		}

		scale := make([]float64, s.plan.Channels)
		offset := make([]float64, s.plan.Channels)
		for c := range scale {
			scale[c] = p.scaleOffsets[c][0].Scale
			offset[c] = p.scaleOffsets[c][0].Offset
		}

		if err := s.detSink.WriteDetectedSecond(ctx, beamform.DetectedSecond{
			Pointing:  k,
			GPSSecond: gps,
			Mode:      s.opts.Stokes,
			Channels:  s.plan.Channels,
			Samples:   p.detected,
			Scale:     scale,
			Offset:    offset,
		}); err != nil {
			return err
		}
	}
	return nil
}

// defaultFixupCoeffs returns a short boxcar fix-up filter used as the
// full-128 channeliser-invert mode's default FIR stage when no
// operator-supplied filter is configured.
func defaultFixupCoeffs(n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 1.0 / float64(n)
	}
	return c
}
