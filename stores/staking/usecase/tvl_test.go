package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	baseabi "github.com/inkmarket/goapi/base/abi"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/price"
	"github.com/inkmarket/goapi/domain/tvl"
)

var (
	stakingAddr = domain.Address("0x00000000000000000000000000000000000000f2")
	tokenAddr   = domain.Address("0x00000000000000000000000000000000000000e2")
	walletAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type filterCall struct {
	from, to uint64
}

type fakeChain struct {
	latest      uint64
	logs        []types.Log
	failWindows map[uint64]bool // keyed by window start
	calls       []filterCall
}

func (f *fakeChain) Call(c ctx.Ctx, chainId int32, addr common.Address, blk *big.Int, a abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	return nil, errors.New("unused")
}

func (f *fakeChain) BlockNumber(c ctx.Ctx, chainId int32) (uint64, error) {
	return f.latest, nil
}

func (f *fakeChain) HeaderByNumber(c ctx.Ctx, chainId int32, number *big.Int) (*types.Header, error) {
	return &types.Header{Time: number.Uint64() * 10}, nil
}

func (f *fakeChain) FilterLogs(c ctx.Ctx, chainId int32, q ethereum.FilterQuery) ([]types.Log, error) {
	from := q.FromBlock.Uint64()
	to := q.ToBlock.Uint64()
	f.calls = append(f.calls, filterCall{from, to})
	if f.failWindows[from] {
		return nil, errors.New("window too wide")
	}
	var out []types.Log
	for _, l := range f.logs {
		if l.BlockNumber >= from && l.BlockNumber <= to {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakePrice struct {
	usd decimal.Decimal
	err error
}

func (f *fakePrice) GetUsdPrice(c ctx.Ctx, token domain.Address) (*price.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &price.Quote{Token: token, Usd: f.usd, Source: "test"}, nil
}

func tokensWei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func transferLog(from, to common.Address, value *big.Int, block uint64, txIndex, logIndex uint) types.Log {
	return types.Log{
		Address: tokenAddr.ToCommon(),
		Topics: []common.Hash{
			baseabi.ERC20TokenABI.Events["Transfer"].ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data:        common.LeftPadBytes(value.Bytes(), 32),
		BlockNumber: block,
		TxIndex:     txIndex,
		Index:       logIndex,
	}
}

func newTvl(chain *fakeChain, p price.UseCase, startBlock, chunkSize uint64) *tvlImpl {
	return NewTvl(&TvlUseCaseCfg{
		Chain:           chain,
		ChainId:         57073,
		StakingContract: stakingAddr,
		Token:           tokenAddr,
		Price:           p,
		StartBlock:      startBlock,
		ChunkSize:       chunkSize,
	}).(*tvlImpl)
}

func TestReplayOrdersStrictly(t *testing.T) {
	req := require.New(t)
	staking := stakingAddr.ToCommon()

	// delivered out of order on purpose
	chain := &fakeChain{
		latest: 10,
		logs: []types.Log{
			transferLog(staking, walletAddr, tokensWei(30), 5, 0, 0), // unstake 30
			transferLog(walletAddr, staking, tokensWei(100), 2, 1, 3), // stake 100
			transferLog(walletAddr, staking, tokensWei(50), 2, 1, 1),  // stake 50, earlier log index
			transferLog(walletAddr, staking, tokensWei(10), 2, 0, 0),  // stake 10, earlier tx
		},
	}

	im := newTvl(chain, &fakePrice{usd: decimal.NewFromInt(2)}, 1, 100)
	series, err := im.History(ctx.Background())
	req.NoError(err)
	req.Equal([]float64{10, 60, 160, 130}, pointTokens(series.Points))
	req.Equal("chain", string(series.Source))

	// block 2 at time 20, block 5 at time 50, in milliseconds
	req.Equal(int64(20000), series.Points[0].Timestamp)
	req.Equal(int64(50000), series.Points[3].Timestamp)

	// usd value follows the token price
	req.InDelta(260.0, series.Points[3].Value, 1e-9)
}

func TestUnrelatedTransfersIgnored(t *testing.T) {
	req := require.New(t)
	other := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	chain := &fakeChain{
		latest: 10,
		logs: []types.Log{
			transferLog(walletAddr, other, tokensWei(7), 2, 0, 0),
			transferLog(walletAddr, stakingAddr.ToCommon(), tokensWei(5), 3, 0, 0),
		},
	}

	im := newTvl(chain, &fakePrice{usd: decimal.NewFromInt(1)}, 1, 100)
	series, err := im.History(ctx.Background())
	req.NoError(err)
	req.Equal([]float64{5}, pointTokens(series.Points))
}

func TestFailedWindowSkipped(t *testing.T) {
	req := require.New(t)
	staking := stakingAddr.ToCommon()

	chain := &fakeChain{
		latest: 20,
		logs: []types.Log{
			transferLog(walletAddr, staking, tokensWei(1), 5, 0, 0),
			transferLog(walletAddr, staking, tokensWei(2), 15, 0, 0),
		},
		failWindows: map[uint64]bool{1: true},
	}

	im := newTvl(chain, &fakePrice{usd: decimal.NewFromInt(1)}, 1, 10)
	series, err := im.History(ctx.Background())
	req.NoError(err)
	// first window lost, second window still contributes
	req.Equal([]float64{2}, pointTokens(series.Points))
	req.Equal([]filterCall{{1, 10}, {11, 20}}, chain.calls)
}

func TestPriceFailureDegradesToZeroValue(t *testing.T) {
	req := require.New(t)
	chain := &fakeChain{
		latest: 10,
		logs: []types.Log{
			transferLog(walletAddr, stakingAddr.ToCommon(), tokensWei(5), 2, 0, 0),
		},
	}

	im := newTvl(chain, &fakePrice{err: errors.New("all sources down")}, 1, 100)
	series, err := im.History(ctx.Background())
	req.NoError(err)
	req.Equal([]float64{5}, pointTokens(series.Points))
	req.Zero(series.Points[0].Value)
}

func TestSyntheticSeriesIsTagged(t *testing.T) {
	req := require.New(t)
	uc := NewSyntheticTvl(7, 1000, 2)
	series, err := uc.History(ctx.Background())
	req.NoError(err)
	req.Equal("synthetic", string(series.Source))
	req.Len(series.Points, 7)
	for _, p := range series.Points {
		req.Equal("sample data", p.Description)
	}
}

func pointTokens(points []tvl.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.TokensAmount
	}
	return out
}
