package swap_test

import (
	"testing"

	"github.com/iov-one/swap"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	swap.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", swap.Version())

	swap.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", swap.Version())
	swap.GitCommit = ""
}
