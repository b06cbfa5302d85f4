package usecase

import (
	"math/big"
	"time"

	"github.com/viney-shih/goroutines"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
	"github.com/inkmarket/goapi/domain/metadata"
	"github.com/inkmarket/goapi/domain/nftitem"
	"github.com/inkmarket/goapi/service/chain/contract"
	"github.com/inkmarket/goapi/service/zns"
)

const (
	defaultRps         = 5
	defaultConcurrency = 4
	defaultRegistryTld = ".ink"
)

type ResolverCfg struct {
	Registry collection.Registry
	Erc721   contract.Erc721Contract
	Zns      zns.Client
	Metadata metadata.Repo
	// Rps caps ownerOf probes per second on the scan fallback
	Rps int
	// BatchInterval is the pause between probe batches, one second unless
	// shortened for tests
	BatchInterval time.Duration
}

type impl struct {
	registry collection.Registry
	erc721   contract.Erc721Contract
	zns      zns.Client
	metadata metadata.Repo
	rps      int
	interval time.Duration
}

func New(cfg *ResolverCfg) nftitem.Resolver {
	rps := cfg.Rps
	if rps <= 0 {
		rps = defaultRps
	}
	interval := cfg.BatchInterval
	if interval == 0 {
		interval = time.Second
	}
	return &impl{
		registry: cfg.Registry,
		erc721:   cfg.Erc721,
		zns:      cfg.Zns,
		metadata: cfg.Metadata,
		rps:      rps,
		interval: interval,
	}
}

// Resolve walks every configured collection. Collections fail independently,
// a dead contract must not blank out the whole wallet view.
func (im *impl) Resolve(c ctx.Ctx, owner domain.Address) ([]*nftitem.CollectionResult, error) {
	cfgs := im.registry.All()
	results := make([]*nftitem.CollectionResult, len(cfgs))

	b := goroutines.NewBatch(defaultConcurrency, goroutines.WithBatchSize(len(cfgs)))
	defer b.Close()
	for i := range cfgs {
		idx := i
		b.Queue(func() (interface{}, error) {
			cfg := &cfgs[idx]
			res := &nftitem.CollectionResult{Contract: cfg.Address.ToLower()}
			assets, err := im.ResolveCollection(c, cfg, owner)
			if err != nil {
				c.WithFields(log.Fields{
					"contract": cfg.Address,
					"owner":    owner,
					"err":      err,
				}).Error("ResolveCollection failed")
				res.Error = err.Error()
			} else {
				res.Assets = assets
			}
			results[idx] = res
			return nil, nil
		})
	}
	b.QueueComplete()
	for ret := range b.Results() {
		_ = ret
	}
	return results, nil
}

func (im *impl) ResolveCollection(c ctx.Ctx, cfg *collection.Config, owner domain.Address) ([]*nftitem.OwnedAsset, error) {
	if cfg.Registry {
		return im.resolveRegistry(c, cfg, owner)
	}
	return im.resolveOnChain(c, cfg, owner)
}

// resolveRegistry lists names through the registry's hosted api. The api
// returns bare names, the tld is appended before the metadata lookup. Names
// that match no metadata entry are kept and flagged, never dropped.
func (im *impl) resolveRegistry(c ctx.Ctx, cfg *collection.Config, owner domain.Address) ([]*nftitem.OwnedAsset, error) {
	record, err := im.zns.ResolveAddress(c, string(owner))
	if err != nil {
		return nil, err
	}

	tld := cfg.RegistryTld
	if tld == "" {
		tld = defaultRegistryTld
	}
	doc := im.document(c, cfg.Address)
	assets := make([]*nftitem.OwnedAsset, 0, len(record.Domains))
	for _, d := range record.Domains {
		name := d + tld
		asset := &nftitem.OwnedAsset{
			ChainId:         cfg.ChainId,
			ContractAddress: cfg.Address.ToLower(),
			TokenType:       cfg.TokenType,
			Owner:           owner.ToLower(),
			Source:          nftitem.SourceRegistry,
			Name:            name,
		}
		if entry := doc.ByName(name); entry != nil {
			asset.TokenId = domain.TokenId(entry.Id)
			asset.Metadata = &entry.Metadata
		} else {
			asset.Unindexed = true
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (im *impl) resolveOnChain(c ctx.Ctx, cfg *collection.Config, owner domain.Address) ([]*nftitem.OwnedAsset, error) {
	addr := cfg.Address.ToLowerStr()
	balance, err := im.erc721.BalanceOf(c, addr, string(owner))
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return []*nftitem.OwnedAsset{}, nil
	}

	var ids []*big.Int
	if enumerable, err := im.erc721.SupportsEnumerableInterface(c, addr); err == nil && enumerable {
		ids, err = im.enumerate(c, addr, string(owner), balance.Uint64())
		if err != nil {
			return nil, err
		}
	} else {
		ids, err = im.scan(c, addr, owner)
		if err != nil {
			return nil, err
		}
	}

	doc := im.document(c, cfg.Address)
	assets := make([]*nftitem.OwnedAsset, 0, len(ids))
	for _, id := range ids {
		asset := &nftitem.OwnedAsset{
			ChainId:         cfg.ChainId,
			ContractAddress: cfg.Address.ToLower(),
			TokenId:         domain.TokenIdFromBigInt(id),
			TokenType:       cfg.TokenType,
			Owner:           owner.ToLower(),
			Source:          nftitem.SourceOnChain,
		}
		if entry := doc.ById(asset.TokenId); entry != nil {
			asset.Metadata = &entry.Metadata
			asset.Name = entry.Metadata.Name
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// enumerate uses the erc721enumerable index. It issues exactly balance
// reads and probes nothing else.
func (im *impl) enumerate(c ctx.Ctx, addr, owner string, balance uint64) ([]*big.Int, error) {
	ids := make([]*big.Int, 0, balance)
	for i := uint64(0); i < balance; i++ {
		id, err := im.erc721.TokenOfOwnerByIndex(c, addr, owner, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scan is the fallback for contracts without enumeration: probe ownerOf over
// the whole id range, rps ids at a time with a pause in between so the rpc
// provider is not hammered. Every id is probed, the cost is the supply, not
// the wallet's balance. A failed probe reads as the zero address, burned and
// nonexistent ids land there anyway.
func (im *impl) scan(c ctx.Ctx, addr string, owner domain.Address) ([]*big.Int, error) {
	first, last, err := im.idRange(c, addr)
	if err != nil {
		return nil, err
	}

	var found []*big.Int
	chunks := chunkRange(first, last, uint64(im.rps))
	for ci, chunk := range chunks {
		owners := make([]domain.Address, len(chunk))
		b := goroutines.NewBatch(im.rps, goroutines.WithBatchSize(len(chunk)))
		for i := range chunk {
			idx := i
			b.Queue(func() (interface{}, error) {
				res, err := im.erc721.OwnerOf(c, addr, new(big.Int).SetUint64(chunk[idx]))
				if err != nil {
					owners[idx] = domain.EmptyAddress
					return nil, nil
				}
				owners[idx] = domain.Address(res)
				return nil, nil
			})
		}
		b.QueueComplete()
		for ret := range b.Results() {
			_ = ret
		}
		b.Close()

		for i, o := range owners {
			if o.Equals(owner) {
				found = append(found, new(big.Int).SetUint64(chunk[i]))
			}
		}
		if im.interval > 0 && ci < len(chunks)-1 {
			select {
			case <-c.Done():
				return nil, c.Err()
			case <-time.After(im.interval):
			}
		}
	}
	return found, nil
}

// idRange derives the scannable token id range from whatever supply
// introspection the contract offers.
func (im *impl) idRange(c ctx.Ctx, addr string) (uint64, uint64, error) {
	first := uint64(0)
	if start, err := im.erc721.StartTokenId(c, addr); err == nil {
		first = start.Uint64()
	}

	if supply, err := im.erc721.TotalSupply(c, addr); err == nil {
		if supply.Sign() == 0 {
			return first, first, nil
		}
		return first, first + supply.Uint64() - 1, nil
	}
	if next, err := im.erc721.NextTokenIdToMint(c, addr); err == nil {
		if next.Uint64() <= first {
			return first, first, nil
		}
		return first, next.Uint64() - 1, nil
	}
	return 0, 0, domain.ErrSupplyIntrospectionMissing
}

// document is the total-join helper: a missing or broken metadata document
// degrades to nil lookups, it never fails the resolution.
func (im *impl) document(c ctx.Ctx, contract domain.Address) *metadata.Document {
	doc, err := im.metadata.Get(c, contract)
	if err != nil {
		c.WithFields(log.Fields{
			"contract": contract,
			"err":      err,
		}).Warn("metadata document unavailable, assets go out without metadata")
		return nil
	}
	return doc
}

// chunkRange splits the inclusive id range [first, last] into consecutive
// chunks of at most size ids.
func chunkRange(first, last, size uint64) [][]uint64 {
	if last < first || size == 0 {
		return nil
	}
	var chunks [][]uint64
	for start := first; start <= last; start += size {
		end := start + size - 1
		if end > last {
			end = last
		}
		chunk := make([]uint64, 0, end-start+1)
		for id := start; id <= end; id++ {
			chunk = append(chunk, id)
		}
		chunks = append(chunks, chunk)
		if end == last {
			break
		}
	}
	return chunks
}
