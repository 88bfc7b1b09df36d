package engine

import (
	"errors"
	"fmt"
)

// ErrRegistryLoading is returned while datasets are still being read at startup.
var ErrRegistryLoading = errors.New("datasets are still loading")

// DataLoadError reports a country file that could not be turned into a Dataset.
type DataLoadError struct {
	Country string
	Path    string
	Line    int
	Err     error
}

func (e *DataLoadError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Country != "" {
		return fmt.Sprintf("load %s dataset (%s): %v", e.Country, where, e.Err)
	}
	return fmt.Sprintf("load dataset (%s): %v", where, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// UnknownCountryError is returned for codes outside the configured set.
type UnknownCountryError struct {
	Code string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("unknown country %q", e.Code)
}
