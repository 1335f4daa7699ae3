package model

import (
	"errors"
	"time"
)

// Snapshot is the output of one scan pass over every protocol family.
type Snapshot struct {
	TakenAt  time.Time          `json:"takenAt"`
	Records  []SocketRecord     `json:"records"`
	Failures map[Protocol]error `json:"-"`
	// Scanned lists the families the scan was asked for. Nil means
	// Protocols.
	Scanned  []Protocol         `json:"-"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Err is non-nil only when none of the requested families could be
// scanned.
func (s Snapshot) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	requested := s.Scanned
	if requested == nil {
		requested = Protocols
	}
	errs := make([]error, 0, len(requested))
	for _, p := range requested {
		err, ok := s.Failures[p]
		if !ok {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
