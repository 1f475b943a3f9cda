package timeline

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDuplicateProvider matches any DuplicateProviderError via errors.Is.
	ErrDuplicateProvider = errors.New("timeline provider already exists")

	// ErrEmptyProviderID is returned when registering a provider without an id.
	ErrEmptyProviderID = errors.New("timeline provider id must not be empty")
)

// DuplicateProviderError reports a registration whose id is already taken.
type DuplicateProviderError struct {
	ID string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("timeline provider %s already exists", e.ID)
}

func (e *DuplicateProviderError) Is(target error) bool {
	return target == ErrDuplicateProvider
}

// ProviderQueryFailure records a provider whose query returned an error or
// panicked. The failing provider contributes no items to the result.
type ProviderQueryFailure struct {
	Provider string
	Err      error
	Duration time.Duration
	Panicked bool
}

func (f *ProviderQueryFailure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("timeline provider %s panicked: %v", f.Provider, f.Err)
	}
	return fmt.Sprintf("timeline provider %s failed: %v", f.Provider, f.Err)
}

func (f *ProviderQueryFailure) Unwrap() error {
	return f.Err
}
