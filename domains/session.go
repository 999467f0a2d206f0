// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package domains

import (
	"errors"
	"time"
)

// CompileSession_t is one persisted record of a single file's compile
// run: what was compiled, with what options, and what came out.
type CompileSession_t struct {
	ID          string // uuid, matches internal/compiler.Result.SessionID
	Filename    string
	Checksum    string // sha256 of the source, hex-encoded
	OptionsHash string // sha256 of the resolved internal/compiler.Options, hex-encoded
	InputBytes  int
	OutputBytes int
	Status      string // "Compiled" or "Failed", matches internal/reports.Status_e.String()
	Error       string // non-empty only when Status == "Failed"
	CreatedAt   time.Time
}

// compile-session domain errors

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidChecksum = errors.New("invalid checksum")
)
