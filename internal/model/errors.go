package model

import "errors"

var (
	ErrNoSensorColumns  = errors.New("no sensor columns after filtering")
	ErrEmptyTimeline    = errors.New("no records for serial")
	ErrShortHistory     = errors.New("history shorter than window")
	ErrAmbiguousFailure = errors.New("failure row missing or not unique")
)
