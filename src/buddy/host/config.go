package host

import (
	"os"
	"strconv"
)

// DefaultSeedBlockOrder is the compiled-in seed pool order used when no
// environment override is present: 2^25 bytes (32 MiB) per node, a
// reasonable bootstrap size for a development host.
const DefaultSeedBlockOrder = 25

// seedOrderEnvVar lets an operator override the seed block size without
// recompiling.
const seedOrderEnvVar = "NUMABUDDY_SEED_ORDER"

// SeedBlockOrder returns the configured seed pool order: the value of
// NUMABUDDY_SEED_ORDER if set and parsable, otherwise
// DefaultSeedBlockOrder.
func SeedBlockOrder() uint {
	v := os.Getenv(seedOrderEnvVar)
	if v == "" {
		return DefaultSeedBlockOrder
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return DefaultSeedBlockOrder
	}
	return uint(n)
}
