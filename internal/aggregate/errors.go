package aggregate

import "errors"

var (
	// ErrEmptyDataset is returned by summary functions when there is nothing to summarize.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrInvalidMetric is returned for metric names outside the supported set.
	ErrInvalidMetric = errors.New("invalid metric")
)
