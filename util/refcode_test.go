package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceCode(t *testing.T) {
	assert.Equal(t, "SKN-0012-0345", ReferenceCode(12, 345))
	assert.Equal(t, "SKN-0001-0001", ReferenceCode(1, 1))
	// Wide IDs are not truncated.
	assert.Equal(t, "SKN-12345-67890", ReferenceCode(12345, 67890))
}
