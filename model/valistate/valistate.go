package valistate

import (
	"fmt"

	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/log"
)

type mode int

const (
	modeValid mode = iota
	modeInvalid
	modeError
)

// ValidationState accumulates the verdict of a validation pass: whether the
// object is acceptable, how severely a peer relaying it should be punished,
// and a reject reason suitable for the wire.
type ValidationState struct {
	mode       mode
	dosScore   int
	rejectCode errcode.RejectCode
	reason     string
	debug      string
}

func NewValidationState() *ValidationState {
	return &ValidationState{mode: modeValid}
}

// DoS marks the state invalid with a misbehavior score and returns ret, so
// call sites can write "return state.DoS(...)". Scores accumulate but are
// capped at 100, the ban threshold.
func (vs *ValidationState) DoS(level int, ret bool, rejectCode errcode.RejectCode,
	reason string, debug string) bool {
	vs.rejectCode = rejectCode
	vs.reason = reason
	vs.debug = debug
	if vs.mode == modeError {
		return ret
	}
	vs.dosScore += level
	if vs.dosScore > 100 {
		vs.dosScore = 100
	}
	vs.mode = modeInvalid
	if reason != "" {
		log.Debug("validation failed: %s", vs.String())
	}
	return ret
}

// Invalid rejects without assigning blame.
func (vs *ValidationState) Invalid(ret bool, rejectCode errcode.RejectCode,
	reason string, debug string) bool {
	return vs.DoS(0, ret, rejectCode, reason, debug)
}

// Error records an internal failure, which outranks any invalidity verdict.
func (vs *ValidationState) Error(reason string) bool {
	if vs.mode == modeValid {
		vs.reason = reason
	}
	vs.mode = modeError
	return false
}

func (vs *ValidationState) IsValid() bool {
	return vs.mode == modeValid
}

func (vs *ValidationState) IsInvalid() bool {
	return vs.mode == modeInvalid
}

func (vs *ValidationState) IsError() bool {
	return vs.mode == modeError
}

// CorruptionPossible reports whether the failure may stem from transit
// corruption rather than a malicious peer, so the object should not poison
// any reject caches.
func (vs *ValidationState) CorruptionPossible() bool {
	return vs.mode == modeInvalid && vs.dosScore == 0
}

func (vs *ValidationState) DoSScore() int {
	return vs.dosScore
}

func (vs *ValidationState) RejectCode() errcode.RejectCode {
	return vs.rejectCode
}

func (vs *ValidationState) RejectReason() string {
	return vs.reason
}

func (vs *ValidationState) String() string {
	if vs.debug != "" {
		return fmt.Sprintf("%s (code %d, dos %d): %s", vs.reason, vs.rejectCode, vs.dosScore, vs.debug)
	}
	return fmt.Sprintf("%s (code %d, dos %d)", vs.reason, vs.rejectCode, vs.dosScore)
}
