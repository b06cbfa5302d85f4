package usecase

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/profile"
	"github.com/inkmarket/goapi/service/blockscout"
	"github.com/inkmarket/goapi/service/ens"
	"github.com/inkmarket/goapi/service/zns"
)

type ProfileUseCaseCfg struct {
	Repo       profile.Repo
	Zns        zns.Client
	Ens        ens.ENS
	Blockscout blockscout.Client
	// Freshness is how long a stored record is served without rebuilding
	Freshness time.Duration
}

type impl struct {
	repo       profile.Repo
	zns        zns.Client
	ens        ens.ENS
	blockscout blockscout.Client
	freshness  time.Duration
}

func New(cfg *ProfileUseCaseCfg) profile.UseCase {
	freshness := cfg.Freshness
	if freshness == 0 {
		freshness = time.Hour
	}
	return &impl{
		repo:       cfg.Repo,
		zns:        cfg.Zns,
		ens:        cfg.Ens,
		blockscout: cfg.Blockscout,
		freshness:  freshness,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*profile.Profile, error) {
	if p, err := im.repo.Get(c, address); err == nil {
		if time.Since(time.Unix(p.UpdatedAt, 0)) < im.freshness {
			return p, nil
		}
	}
	p := im.build(c, address)
	if err := im.repo.Store(c, p); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Warn("profile store failed")
	}
	return p, nil
}

// build resolves the display name through the chain of name services: the
// local registry's primary name wins, then an ens reverse record, then the
// shortened address.
func (im *impl) build(c ctx.Ctx, address domain.Address) *profile.Profile {
	p := &profile.Profile{
		Address:     address.ToLower(),
		DisplayName: address.ToLower().Short(),
		UpdatedAt:   time.Now().Unix(),
	}

	if record, err := im.zns.ResolveAddress(c, string(address)); err == nil && record.PrimaryDomain != "" {
		p.DisplayName = record.PrimaryDomain
	} else if name, err := im.ens.ReverseResolve(c, address); err == nil && name != "" {
		p.DisplayName = name
		if avatar, err := im.ens.Avatar(c, name); err == nil {
			p.Avatar = avatar
		}
	}

	if holdings, err := im.blockscout.GetNftHoldings(c, address.ToLowerStr()); err == nil {
		p.NftCount = len(holdings)
	} else {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Warn("explorer holdings unavailable, nft count stays zero")
	}
	return p
}
