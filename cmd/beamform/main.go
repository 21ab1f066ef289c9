// Command beamform runs the offline phased-array beamforming pipeline
// against a directory of raw voltage second files, emitting detected or
// voltage output seconds via the dsp/ioref reference adapters.
//
// Usage:
//
//	beamform -config run.yaml -obsid 1234567890 -antennas 128 -channels 128 \
//	    -samples 10000 -coarse-chan 109 -in ./raw -out ./out
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/mwatelescope/beamform/dsp/beamform"
	"github.com/mwatelescope/beamform/dsp/config"
	"github.com/mwatelescope/beamform/dsp/ioref"
	"github.com/mwatelescope/beamform/dsp/schedule"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML run-description file (optional; flags below override it)")
	inDir := flag.String("in", ".", "directory containing raw voltage second files")
	outDir := flag.String("out", ".", "directory to write output second files to")
	obsID := flag.Int64("obsid", 0, "observation ID, used in input/output file names")
	coarseChan := flag.Int("coarse-chan", 0, "coarse channel index, used in input file names")
	antennas := flag.Int("antennas", 128, "antenna count")
	channels := flag.Int("channels", 128, "fine channel count")
	samples := flag.Int("samples", 10000, "samples per second")
	pointings := flag.Int("pointings", 1, "pointing count")
	beginGPS := flag.Int64("begin-gps", 0, "first GPS second to process")
	endGPS := flag.Int64("end-gps", 0, "last GPS second to process (inclusive)")
	flag.Parse()

	logger := log.Default()

	opts := config.Default()
	if *configPath != "" {
		fileOpts, err := config.LoadFile(*configPath)
		if err != nil {
			return fmt.Errorf("beamform: loading config: %w", err)
		}
		opts = fileOpts
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "begin-gps":
			opts.BeginGPS = *beginGPS
		case "end-gps":
			opts.EndGPS = *endGPS
		}
	})
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("beamform: invalid configuration: %w", err)
	}

	plan := beamform.Plan{
		Antennas:       *antennas,
		PolsPerAntenna: 2,
		Channels:       *channels,
		SamplesPerSec:  *samples,
		Pointings:      *pointings,
		CoarseChan:     *coarseChan,
		BeginGPS:       opts.BeginGPS,
		EndGPS:         opts.EndGPS,
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("beamform: invalid plan: %w", err)
	}

	raw := ioref.DirSource{Dir: *inDir, ObsID: *obsID, CoarseChan: *coarseChan}

	calSrcs := make([]beamform.CalibrationSource, plan.Pointings)
	for k := range calSrcs {
		calSrcs[k] = nullCalibrationSource{plan: plan}
	}

	var detSink beamform.DetectedSink
	var voltSink beamform.VoltageSink
	if opts.Mode == config.ModeVoltage {
		voltSink = ioref.DirVoltageSink{Dir: *outDir, ObsID: *obsID}
	} else {
		detSink = ioref.DirDetectedSink{Dir: *outDir, ObsID: *obsID}
	}

	sched, err := schedule.New(plan, opts, raw, calSrcs, nil, detSink, voltSink, logger)
	if err != nil {
		return fmt.Errorf("beamform: building scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting run", "begin_gps", plan.BeginGPS, "end_gps", plan.EndGPS, "mode", opts.Mode)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("beamform: run failed: %w", err)
	}
	logger.Info("run complete")
	return nil
}

// nullCalibrationSource is a placeholder CalibrationSource that always
// reports zero calibration; a real deployment supplies an implementation
// backed by the telescope's calibration solution store. It lets the CLI
// exercise the full pipeline (in detected-incoherent mode, or for shape
// testing) without one wired in.
type nullCalibrationSource struct {
	plan beamform.Plan
}

func (n nullCalibrationSource) Calibration(ctx context.Context, gpsSecond int64) (beamform.Calibration, error) {
	return beamform.ZeroCalibration(n.plan), nil
}
