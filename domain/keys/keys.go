package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check cache keys
	PfxHealthCheck = "healthcheck"
	// PfxTokenStatus prefixes per-listing approval and owner check records
	PfxTokenStatus = "tokenstatus"
	// PfxTvlHistory prefixes the staking TVL series cache
	PfxTvlHistory = "tvlhistory"
	// PfxLeaderboard prefixes the leaderboard snapshot cache
	PfxLeaderboard = "leaderboard"
	// PfxProfile prefixes per-wallet profile records
	PfxProfile = "profile"
)

// CustomKey is used to join the customized key by components with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// CacheKey is used to join the cache key by components
func CacheKey(components ...string) string {
	return CustomKey(":", components...)
}
