package errcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectError(t *testing.T) {
	err := NewError(RejectInvalid, "bad-txns-vout-negative")
	assert.Equal(t, "REJECT_INVALID: bad-txns-vout-negative", err.Error())
	assert.True(t, IsRejectCode(err, RejectInvalid))
	assert.False(t, IsRejectCode(err, RejectMalformed))
	assert.Equal(t, "bad-txns-vout-negative", RejectReason(err))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(NewError(RejectDuplicate, "bad-txns-duplicate"), "while connecting block")
	assert.True(t, IsRejectCode(err, RejectDuplicate))
	assert.Equal(t, "bad-txns-duplicate", RejectReason(err))
	assert.Contains(t, err.Error(), "while connecting block")
}

func TestRejectCodeString(t *testing.T) {
	assert.Equal(t, "REJECT_MALFORMED", RejectMalformed.String())
	assert.Equal(t, "REJECT_INVALID", RejectInvalid.String())
	assert.Equal(t, "REJECT_DUPLICATE", RejectDuplicate.String())
}
