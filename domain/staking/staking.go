package staking

import (
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

// Overview is the per-wallet staking state shown on the dashboard.
type Overview struct {
	Address        domain.Address `json:"address"`
	StakedAmount   string         `json:"stakedAmount"`
	PendingRewards string         `json:"pendingRewards"`
	TotalStaked    string         `json:"totalStaked"`
}

type LeaderboardEntry struct {
	Address      domain.Address `json:"address"`
	DisplayName  string         `json:"displayName"`
	HasStaking   bool           `json:"hasStaking"`
	StakedAmount float64        `json:"stakedAmount"`
	NftCount     int            `json:"nftCount"`
	TotalPoints  float64        `json:"totalPoints"`
}

type Leaderboard struct {
	Entries   []*LeaderboardEntry `json:"entries"`
	UpdatedAt int64               `json:"updatedAt"`
}

type UseCase interface {
	GetOverview(c ctx.Ctx, address domain.Address) (*Overview, error)
	GetLeaderboard(c ctx.Ctx) (*Leaderboard, error)
}
