package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when stopping a scheduler that was never started
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobNotFound is returned when running an unknown job
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRegistered is returned when a job name is registered twice
	ErrJobAlreadyRegistered = errors.New("job already registered")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
