package services

import "errors"

// Cleaning service errors
var (
	ErrNoJobs          = errors.New("no jobs to run")
	ErrMissingInput    = errors.New("job has no input file")
	ErrOutputIsInput   = errors.New("output path equals input path")
	ErrNilTable        = errors.New("no table to clean")
	ErrInvalidWorkers  = errors.New("workers must be positive")
	ErrOutputCollision = errors.New("output path already used in batch")
)
