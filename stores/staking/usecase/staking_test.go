package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	baseabi "github.com/inkmarket/goapi/base/abi"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/profile"
)

var nftAddr = domain.Address("0x00000000000000000000000000000000000000d2")

type fakeStaking struct {
	balances map[string]*big.Int
	rewards  map[string]*big.Int
	total    *big.Int
	err      error
}

func (f *fakeStaking) TotalStaked(c ctx.Ctx) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.total, nil
}

func (f *fakeStaking) StakedBalances(c ctx.Ctx, user string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.balances[domain.Address(user).ToLowerStr()]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeStaking) GetPendingRewards(c ctx.Ctx, user string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.rewards[domain.Address(user).ToLowerStr()]; ok {
		return r, nil
	}
	return big.NewInt(0), nil
}

type fakeProfiles struct {
	profiles map[domain.Address]*profile.Profile
}

func (f *fakeProfiles) Get(c ctx.Ctx, address domain.Address) (*profile.Profile, error) {
	if p, ok := f.profiles[address.ToLower()]; ok {
		return p, nil
	}
	return nil, errors.New("no profile")
}

func stakedLog(user common.Address, amount *big.Int, block uint64) types.Log {
	return types.Log{
		Address: stakingAddr.ToCommon(),
		Topics: []common.Hash{
			baseabi.StakingABI.Events["Staked"].ID,
			common.BytesToHash(user.Bytes()),
		},
		Data:        common.LeftPadBytes(amount.Bytes(), 32),
		BlockNumber: block,
	}
}

func nftTransferLog(from, to common.Address, tokenId int64, block uint64) types.Log {
	return types.Log{
		Address: nftAddr.ToCommon(),
		Topics: []common.Hash{
			baseabi.ERC721TokenABI.Events["Transfer"].ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
			common.BigToHash(big.NewInt(tokenId)),
		},
		BlockNumber: block,
	}
}

func TestGetOverview(t *testing.T) {
	req := require.New(t)
	wallet := domain.Address("0x00000000000000000000000000000000000000aa")
	st := &fakeStaking{
		balances: map[string]*big.Int{wallet.ToLowerStr(): tokensWei(12)},
		rewards:  map[string]*big.Int{wallet.ToLowerStr(): tokensWei(3)},
		total:    tokensWei(1000),
	}

	uc := New(&StakingUseCaseCfg{
		Chain:           &fakeChain{},
		ChainId:         57073,
		Staking:         st,
		StakingContract: stakingAddr,
		Profile:         &fakeProfiles{},
		StartBlock:      1,
	})

	overview, err := uc.GetOverview(ctx.Background(), wallet)
	req.NoError(err)
	req.Equal("12", overview.StakedAmount)
	req.Equal("3", overview.PendingRewards)
	req.Equal("1000", overview.TotalStaked)
}

func TestGetLeaderboardRanksByPoints(t *testing.T) {
	req := require.New(t)
	whale := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	minnow := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	holder := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	chain := &fakeChain{
		latest: 10,
		logs: []types.Log{
			stakedLog(minnow, tokensWei(1), 2),
			stakedLog(whale, tokensWei(500000), 3),
			stakedLog(whale, tokensWei(500000), 4), // duplicate staker
			nftTransferLog(whale, holder, 7, 5),    // never staked, still ranks
		},
	}
	st := &fakeStaking{
		balances: map[string]*big.Int{
			domain.Address(whale.String()).ToLowerStr():  tokensWei(1000000),
			domain.Address(minnow.String()).ToLowerStr(): tokensWei(1),
		},
		total: tokensWei(1000001),
	}
	profiles := &fakeProfiles{profiles: map[domain.Address]*profile.Profile{
		domain.Address(minnow.String()).ToLower(): {
			Address:     domain.Address(minnow.String()).ToLower(),
			DisplayName: "minnow.ink",
			NftCount:    10,
		},
		domain.Address(holder.String()).ToLower(): {
			Address:  domain.Address(holder.String()).ToLower(),
			NftCount: 1,
		},
	}}

	uc := New(&StakingUseCaseCfg{
		Chain:           chain,
		ChainId:         57073,
		Staking:         st,
		StakingContract: stakingAddr,
		NftContract:     nftAddr,
		Profile:         profiles,
		StartBlock:      1,
		ChunkSize:       100,
	})

	board, err := uc.GetLeaderboard(ctx.Background())
	req.NoError(err)
	req.Len(board.Entries, 3)

	// minnow: 10 nfts * 30 = 300 points, beats the whale's floor(1m/333333) = 3
	req.Equal("minnow.ink", board.Entries[0].DisplayName)
	req.InDelta(300.0, board.Entries[0].TotalPoints, 1e-9)
	req.InDelta(30.0, board.Entries[1].TotalPoints, 1e-9)
	req.False(board.Entries[1].HasStaking)
	req.InDelta(3.0, board.Entries[2].TotalPoints, 1e-9)
	req.True(board.Entries[2].HasStaking)
	// no profile record, falls back to the short address form
	req.Equal(domain.Address(whale.String()).ToLower().Short(), board.Entries[2].DisplayName)
}
