package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []Status{StatusBenign, StatusBlocked, StatusPending} {
		status, err := ParseStatus(string(valid))
		assert.NoError(t, err)
		assert.Equal(t, valid, status)
	}

	_, err := ParseStatus("")
	assert.ErrorIs(t, err, ErrStatusRequired)

	_, err = ParseStatus("Reviewed - Suspicious")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
