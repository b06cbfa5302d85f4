package usecase

import (
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	baseabi "github.com/inkmarket/goapi/base/abi"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/price"
	"github.com/inkmarket/goapi/domain/tvl"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
	"github.com/inkmarket/goapi/service/chain"
)

const (
	defaultChunkSize = 9900
	defaultTvlTtl    = time.Hour
)

var weiPerToken = decimal.New(1, 18)

type TvlUseCaseCfg struct {
	Chain           chain.Client
	ChainId         domain.ChainId
	StakingContract domain.Address
	// Token is the staked erc20 whose transfers are replayed
	Token      domain.Address
	Price      price.UseCase
	StartBlock uint64
	// ChunkSize bounds each eth_getLogs window, providers reject wide ones
	ChunkSize uint64
	CacheTtl  time.Duration
}

type tvlImpl struct {
	chain           chain.Client
	chainId         domain.ChainId
	stakingContract domain.Address
	token           domain.Address
	price           price.UseCase
	startBlock      uint64
	chunkSize       uint64
	cache           cache.Service
}

func NewTvl(cfg *TvlUseCaseCfg) tvl.UseCase {
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}
	ttl := cfg.CacheTtl
	if ttl == 0 {
		ttl = defaultTvlTtl
	}
	return &tvlImpl{
		chain:           cfg.Chain,
		chainId:         cfg.ChainId,
		stakingContract: cfg.StakingContract,
		token:           cfg.Token,
		price:           cfg.Price,
		startBlock:      cfg.StartBlock,
		chunkSize:       chunkSize,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxTvlHistory,
			Cache: primitive.NewPrimitive(keys.PfxTvlHistory, 16),
		}),
	}
}

func (im *tvlImpl) History(c ctx.Ctx) (*tvl.Series, error) {
	key := keys.CacheKey(im.stakingContract.ToLowerStr())
	series := tvl.Series{}
	if err := im.cache.GetByFunc(c, key, &series, func() (interface{}, error) {
		return im.replay(c)
	}); err != nil {
		return nil, err
	}
	return &series, nil
}

// stakeEvent is one staking-relevant token transfer. Ordering is strictly
// (blockNumber, txIndex, logIndex); replaying in any other order produces
// wrong intermediate balances.
type stakeEvent struct {
	blockNumber uint64
	txIndex     uint
	logIndex    uint
	delta       *big.Int
}

func (im *tvlImpl) replay(c ctx.Ctx) (*tvl.Series, error) {
	latest, err := im.chain.BlockNumber(c, int32(im.chainId))
	if err != nil {
		return nil, err
	}

	events := im.collect(c, latest)
	sortEvents(events)

	usd := decimal.Zero
	if quote, err := im.price.GetUsdPrice(c, im.token); err != nil {
		c.WithFields(log.Fields{
			"token": im.token,
			"err":   err,
		}).Warn("token price unavailable, tvl series carries zero usd values")
	} else {
		usd = quote.Usd
	}

	headers := map[uint64]int64{}
	balance := new(big.Int)
	points := make([]tvl.Point, 0, len(events))
	for _, ev := range events {
		balance.Add(balance, ev.delta)
		tokens, _ := decimal.NewFromBigInt(balance, 0).Div(weiPerToken).Float64()
		value, _ := decimal.NewFromBigInt(balance, 0).Div(weiPerToken).Mul(usd).Float64()
		points = append(points, tvl.Point{
			Timestamp:    im.blockTimestamp(c, headers, ev.blockNumber),
			Value:        value,
			TokensAmount: tokens,
			BlockNumber:  ev.blockNumber,
			TxIndex:      ev.txIndex,
		})
	}
	return &tvl.Series{Source: tvl.SourceChain, Points: points}, nil
}

// collect pulls token transfer logs in bounded windows. A failed window is
// skipped with a warning rather than failing the whole series.
func (im *tvlImpl) collect(c ctx.Ctx, latest uint64) []stakeEvent {
	transferTopic := baseabi.ERC20TokenABI.Events["Transfer"].ID
	staking := im.stakingContract.ToCommon()

	var events []stakeEvent
	for from := im.startBlock; from <= latest; from += im.chunkSize {
		to := from + im.chunkSize - 1
		if to > latest {
			to = latest
		}
		logs, err := im.chain.FilterLogs(c, int32(im.chainId), ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: []common.Address{im.token.ToCommon()},
			Topics:    [][]common.Hash{{transferTopic}},
		})
		if err != nil {
			c.WithFields(log.Fields{
				"from": from,
				"to":   to,
				"err":  err,
			}).Warn("log window failed, skipping")
			continue
		}
		for i := range logs {
			if ev := im.toEvent(c, &logs[i], staking); ev != nil {
				events = append(events, *ev)
			}
		}
	}
	return events
}

func (im *tvlImpl) toEvent(c ctx.Ctx, l *types.Log, staking common.Address) *stakeEvent {
	transfer, err := baseabi.ToErc20TransferLog(l)
	if err != nil {
		c.WithFields(log.Fields{
			"txHash": l.TxHash,
			"err":    err,
		}).Warn("undecodable transfer log")
		return nil
	}
	ev := &stakeEvent{
		blockNumber: l.BlockNumber,
		txIndex:     l.TxIndex,
		logIndex:    l.Index,
	}
	switch {
	case transfer.To == staking:
		ev.delta = transfer.Value
	case transfer.From == staking:
		ev.delta = new(big.Int).Neg(transfer.Value)
	default:
		return nil
	}
	return ev
}

func (im *tvlImpl) blockTimestamp(c ctx.Ctx, cache map[uint64]int64, blockNumber uint64) int64 {
	if ts, ok := cache[blockNumber]; ok {
		return ts
	}
	header, err := im.chain.HeaderByNumber(c, int32(im.chainId), new(big.Int).SetUint64(blockNumber))
	if err != nil {
		c.WithFields(log.Fields{
			"blockNumber": blockNumber,
			"err":         err,
		}).Warn("header fetch failed, point keeps a zero timestamp")
		cache[blockNumber] = 0
		return 0
	}
	ts := int64(header.Time) * 1000
	cache[blockNumber] = ts
	return ts
}

func sortEvents(events []stakeEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.blockNumber != b.blockNumber {
			return a.blockNumber < b.blockNumber
		}
		if a.txIndex != b.txIndex {
			return a.txIndex < b.txIndex
		}
		return a.logIndex < b.logIndex
	})
}
