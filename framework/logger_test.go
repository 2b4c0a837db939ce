package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixedLogger(t *testing.T) {
	var base CapturingLogger
	logger := PrefixedLogger(&base, "cleanup: ")
	logger.Printf("deleted %s", "u1")

	output := base.Output()
	if assert.Len(t, output, 1) {
		assert.Equal(t, "cleanup: deleted u1", output[0].Message)
	}
}

func TestPrefixedLoggerWithNilBaseDiscards(t *testing.T) {
	assert.Equal(t, NullLogger(), PrefixedLogger(nil, "x: "))
}
