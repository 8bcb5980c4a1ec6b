package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedBlockOrderDefaultsWhenUnset(t *testing.T) {
	t.Setenv(seedOrderEnvVar, "")
	assert.Equal(t, uint(DefaultSeedBlockOrder), SeedBlockOrder())
}

func TestSeedBlockOrderReadsEnvOverride(t *testing.T) {
	t.Setenv(seedOrderEnvVar, "22")
	assert.Equal(t, uint(22), SeedBlockOrder())
}

func TestSeedBlockOrderFallsBackOnUnparsable(t *testing.T) {
	t.Setenv(seedOrderEnvVar, "not-a-number")
	assert.Equal(t, uint(DefaultSeedBlockOrder), SeedBlockOrder())
}
