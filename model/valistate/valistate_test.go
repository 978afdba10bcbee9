package valistate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/errcode"
)

func TestDoS(t *testing.T) {
	state := NewValidationState()
	assert.True(t, state.IsValid())

	ret := state.DoS(50, false, errcode.RejectInvalid, "high-hash", "")
	assert.False(t, ret)
	assert.True(t, state.IsInvalid())
	assert.Equal(t, 50, state.DoSScore())
	assert.Equal(t, "high-hash", state.RejectReason())
	assert.Equal(t, errcode.RejectInvalid, state.RejectCode())
}

func TestDoSScoreCapped(t *testing.T) {
	state := NewValidationState()
	state.DoS(80, false, errcode.RejectInvalid, "a", "")
	state.DoS(80, false, errcode.RejectInvalid, "b", "")
	assert.Equal(t, 100, state.DoSScore())
	assert.Equal(t, "b", state.RejectReason())
}

func TestInvalidCarriesNoScore(t *testing.T) {
	state := NewValidationState()
	assert.False(t, state.Invalid(false, errcode.RejectInvalid, "time-too-new", ""))
	assert.True(t, state.IsInvalid())
	assert.Equal(t, 0, state.DoSScore())
	assert.True(t, state.CorruptionPossible())
}

func TestErrorOutranksInvalid(t *testing.T) {
	state := NewValidationState()
	state.Error("disk failure")
	assert.True(t, state.IsError())
	state.DoS(100, false, errcode.RejectInvalid, "bad-txnmrklroot", "")
	assert.True(t, state.IsError())
	assert.False(t, state.IsInvalid())
}
