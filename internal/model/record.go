package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// AppliedRecord is one entry of the apply history.
type AppliedRecord struct {
	ID        string   `json:"id" yaml:"id"`
	Theme     string   `json:"theme" yaml:"theme"` // Directory name under the themes dir
	Name      string   `json:"name" yaml:"name"`   // Display name from the manifest
	Author    string   `json:"author" yaml:"author"`
	Variant   string   `json:"variant" yaml:"variant"`
	Written   []string `json:"written,omitempty" yaml:"written,omitempty"`
	Skipped   []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed    []string `json:"failed,omitempty" yaml:"failed,omitempty"`
	AppliedAt int64    `json:"applied_at" yaml:"applied_at"`
}

// ErrEmptyRecordID is returned when a record has no ID.
var ErrEmptyRecordID = errors.New("record id cannot be empty")

// NewAppliedRecord creates a record with a generated ULID stamped now.
func NewAppliedRecord(theme string) (*AppliedRecord, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}
	return &AppliedRecord{
		ID:        id.String(),
		Theme:     theme,
		AppliedAt: now.Unix(),
	}, nil
}

// Validate checks the record has the fields needed for persistence.
func (r *AppliedRecord) Validate() error {
	if r.ID == "" {
		return ErrEmptyRecordID
	}
	if r.Theme == "" {
		return errors.New("record theme cannot be empty")
	}
	return nil
}

// AppliedAtTime returns the apply timestamp as a time.Time.
func (r *AppliedRecord) AppliedAtTime() time.Time {
	return time.Unix(r.AppliedAt, 0)
}
