// Package ioref provides minimal, local-directory reference adapters for
// beamform.RawSecondSource, beamform.DetectedSink and beamform.VoltageSink,
// keyed to the <obsid>_<gps_seconds>_ch<coarse_chan>.dat naming convention.
// These exist to exercise the scheduler end to end in tests and the CLI's
// file mode; they are not a production astronomy container writer.
package ioref

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

// DirSource reads raw packed-voltage seconds from Dir, one file per second
// named "<obsid>_<gps>_ch<coarseChan>.dat".
type DirSource struct {
	Dir        string
	ObsID      int64
	CoarseChan int
}

func rawSecondPath(dir string, obsID, gps int64, coarseChan int) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d_ch%d.dat", obsID, gps, coarseChan))
}

// RawSecond reads the second's packed bytes from disk. A missing file maps
// to beamform.ErrInputMissing (via fmt.Errorf wrapping at the call site;
// this layer only reports the underlying os error).
func (s DirSource) RawSecond(ctx context.Context, gpsSecond int64) ([]byte, error) {
	path := rawSecondPath(s.Dir, s.ObsID, gpsSecond, s.CoarseChan)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ioref: read %s: %w", path, err)
	}
	return buf, nil
}

// DirDetectedSink writes each detected second as a small self-describing
// binary record: a little-endian header (channels, samples, npol) followed
// by the flat samples array and the per-channel scale/offset tables.
type DirDetectedSink struct {
	Dir   string
	ObsID int64
}

func detectedPath(dir string, obsID, gps int64, pointing int) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d_pointing%d_detected.dat", obsID, gps, pointing))
}

func (s DirDetectedSink) WriteDetectedSecond(ctx context.Context, second beamform.DetectedSecond) error {
	path := detectedPath(s.Dir, s.ObsID, second.GPSSecond, second.Pointing)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioref: create %s: %w", path, err)
	}
	defer f.Close()

	npol := 0
	if len(second.Samples) > 0 {
		npol = len(second.Samples[0]) / max(second.Channels, 1)
	}
	header := [3]int64{int64(second.Channels), int64(len(second.Samples)), int64(npol)}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("ioref: write header to %s: %w", path, err)
	}
	for _, row := range second.Samples {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("ioref: write samples to %s: %w", path, err)
		}
	}
	if err := binary.Write(f, binary.LittleEndian, second.Scale); err != nil {
		return fmt.Errorf("ioref: write scale to %s: %w", path, err)
	}
	if err := binary.Write(f, binary.LittleEndian, second.Offset); err != nil {
		return fmt.Errorf("ioref: write offset to %s: %w", path, err)
	}
	return nil
}


// DirVoltageSink writes each voltage second as a little-endian record:
// a 2-float64 (scale, offset) header followed by the interleaved series.
type DirVoltageSink struct {
	Dir   string
	ObsID int64
}

func voltagePath(dir string, obsID, gps int64, pointing int) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d_pointing%d_voltage.dat", obsID, gps, pointing))
}

func (s DirVoltageSink) WriteVoltageSecond(ctx context.Context, second beamform.VoltageSecond) error {
	path := voltagePath(s.Dir, s.ObsID, second.GPSSecond, second.Pointing)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioref: create %s: %w", path, err)
	}
	defer f.Close()

	header := [2]float64{second.Scale, second.Offset}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("ioref: write header to %s: %w", path, err)
	}
	if err := binary.Write(f, binary.LittleEndian, second.Interleaved); err != nil {
		return fmt.Errorf("ioref: write interleaved samples to %s: %w", path, err)
	}
	return nil
}
