package beamform

import "errors"

// Error kinds used across the beamforming pipeline. Each is a sentinel so
// callers can use errors.Is against fmt.Errorf("%w: ...") wrapped variants.
var (
	ErrInputMissing             = errors.New("beamform: input missing")
	ErrInputMalformed           = errors.New("beamform: input malformed")
	ErrCalibrationUnparseable   = errors.New("beamform: calibration unparseable")
	ErrCalibrationShapeMismatch = errors.New("beamform: calibration shape mismatch")
	ErrSingularMatrix           = errors.New("beamform: singular matrix")
	ErrGpuKernelFailure         = errors.New("beamform: accelerator kernel failure")
	ErrContainerWriteFailure    = errors.New("beamform: container write failure")
	ErrLevelTrackerSanity       = errors.New("beamform: level tracker sanity failure")
	ErrConfigurationInvalid     = errors.New("beamform: configuration invalid")
)
