package usecase

import (
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"
	baseabi "github.com/inkmarket/goapi/base/abi"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/profile"
	"github.com/inkmarket/goapi/domain/staking"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
	"github.com/inkmarket/goapi/service/chain"
	"github.com/inkmarket/goapi/service/chain/contract"
)

// One point per minimum stake, thirty per NFT held.
const (
	stakedTokensPerPoint = 333333
	nftPointWeight       = 30
)

type StakingUseCaseCfg struct {
	Chain           chain.Client
	ChainId         domain.ChainId
	Staking         contract.StakingContract
	StakingContract domain.Address
	// NftContract joins its Transfer recipients into the roster, so pure
	// holders rank too. Empty disables that stream.
	NftContract    domain.Address
	Profile        profile.UseCase
	StartBlock     uint64
	ChunkSize      uint64
	LeaderboardTtl time.Duration
}

type impl struct {
	chain           chain.Client
	chainId         domain.ChainId
	staking         contract.StakingContract
	stakingContract domain.Address
	nftContract     domain.Address
	profile         profile.UseCase
	startBlock      uint64
	chunkSize       uint64
	cache           cache.Service
}

func New(cfg *StakingUseCaseCfg) staking.UseCase {
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}
	ttl := cfg.LeaderboardTtl
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &impl{
		chain:           cfg.Chain,
		chainId:         cfg.ChainId,
		staking:         cfg.Staking,
		stakingContract: cfg.StakingContract,
		nftContract:     cfg.NftContract,
		profile:         cfg.Profile,
		startBlock:      cfg.StartBlock,
		chunkSize:       chunkSize,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxLeaderboard,
			Cache: primitive.NewPrimitive(keys.PfxLeaderboard, 16),
		}),
	}
}

func (im *impl) GetOverview(c ctx.Ctx, address domain.Address) (*staking.Overview, error) {
	staked, err := im.staking.StakedBalances(c, string(address))
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("staking.StakedBalances failed")
		return nil, err
	}
	rewards, err := im.staking.GetPendingRewards(c, string(address))
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("staking.GetPendingRewards failed")
		return nil, err
	}
	total, err := im.staking.TotalStaked(c)
	if err != nil {
		c.WithField("err", err).Error("staking.TotalStaked failed")
		return nil, err
	}
	return &staking.Overview{
		Address:        address.ToLower(),
		StakedAmount:   toTokenString(staked),
		PendingRewards: toTokenString(rewards),
		TotalStaked:    toTokenString(total),
	}, nil
}

func (im *impl) GetLeaderboard(c ctx.Ctx) (*staking.Leaderboard, error) {
	key := keys.CacheKey(im.stakingContract.ToLowerStr())
	board := staking.Leaderboard{}
	if err := im.cache.GetByFunc(c, key, &board, func() (interface{}, error) {
		return im.buildLeaderboard(c)
	}); err != nil {
		return nil, err
	}
	return &board, nil
}

func (im *impl) buildLeaderboard(c ctx.Ctx) (*staking.Leaderboard, error) {
	roster, err := im.collectRoster(c)
	if err != nil {
		return nil, err
	}

	entries := make([]*staking.LeaderboardEntry, len(roster))
	b := goroutines.NewBatch(8, goroutines.WithBatchSize(len(roster)))
	defer b.Close()
	for i := range roster {
		idx := i
		b.Queue(func() (interface{}, error) {
			entries[idx] = im.buildEntry(c, roster[idx])
			return nil, nil
		})
	}
	b.QueueComplete()
	for ret := range b.Results() {
		_ = ret
	}

	kept := make([]*staking.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].TotalPoints > kept[j].TotalPoints
	})
	return &staking.Leaderboard{
		Entries:   kept,
		UpdatedAt: time.Now().Unix(),
	}, nil
}

func (im *impl) buildEntry(c ctx.Ctx, address domain.Address) *staking.LeaderboardEntry {
	staked, err := im.staking.StakedBalances(c, string(address))
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Warn("staked balance unavailable, staker dropped from the board")
		return nil
	}
	tokens, _ := decimal.NewFromBigInt(staked, 0).Div(weiPerToken).Float64()

	entry := &staking.LeaderboardEntry{
		Address:      address.ToLower(),
		DisplayName:  address.Short(),
		HasStaking:   staked.Sign() > 0,
		StakedAmount: tokens,
	}
	if p, err := im.profile.Get(c, address); err == nil {
		entry.DisplayName = p.DisplayName
		entry.NftCount = p.NftCount
	}
	entry.TotalPoints = math.Floor(entry.StakedAmount/stakedTokensPerPoint) + nftPointWeight*float64(entry.NftCount)
	return entry
}

// collectRoster replays Staked events plus the collection's Transfer
// recipients to discover every wallet that could rank. Balances are then
// read live, the event logs are only a roster.
func (im *impl) collectRoster(c ctx.Ctx) ([]domain.Address, error) {
	latest, err := im.chain.BlockNumber(c, int32(im.chainId))
	if err != nil {
		return nil, err
	}

	seen := map[domain.Address]struct{}{}
	var roster []domain.Address
	add := func(addr domain.Address) {
		if _, ok := seen[addr]; !ok {
			seen[addr] = struct{}{}
			roster = append(roster, addr)
		}
	}

	stakedTopic := baseabi.StakingABI.Events["Staked"].ID
	for _, l := range im.scanWindows(c, latest, im.stakingContract, stakedTopic) {
		staked, err := baseabi.ToStakedLog(&l)
		if err != nil {
			continue
		}
		add(domain.Address(staked.User.String()).ToLower())
	}

	if im.nftContract != "" && im.nftContract != domain.EmptyAddress {
		transferTopic := baseabi.ERC721TokenABI.Events["Transfer"].ID
		for _, l := range im.scanWindows(c, latest, im.nftContract, transferTopic) {
			transfer, err := baseabi.ToErc721TransferLog(&l)
			if err != nil {
				continue
			}
			add(domain.Address(transfer.To.String()).ToLower())
		}
	}
	return roster, nil
}

func (im *impl) scanWindows(c ctx.Ctx, latest uint64, address domain.Address, topic common.Hash) []types.Log {
	var out []types.Log
	for from := im.startBlock; from <= latest; from += im.chunkSize {
		to := from + im.chunkSize - 1
		if to > latest {
			to = latest
		}
		logs, err := im.chain.FilterLogs(c, int32(im.chainId), ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: []common.Address{address.ToCommon()},
			Topics:    [][]common.Hash{{topic}},
		})
		if err != nil {
			c.WithFields(log.Fields{
				"from": from,
				"to":   to,
				"err":  err,
			}).Warn("log window failed, skipping")
			continue
		}
		out = append(out, logs...)
	}
	return out
}

func toTokenString(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, 0).Div(weiPerToken).String()
}
