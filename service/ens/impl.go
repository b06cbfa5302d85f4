package ens

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	goens "github.com/wealdtech/go-ens/v3"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/base/ptr"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/service/cache"
	compoundcache "github.com/inkmarket/goapi/service/cache/compoundCache"
	"github.com/inkmarket/goapi/service/cache/provider"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

type impl struct {
	client *ethclient.Client
	cache  cache.Service
}

// New dials an ethereum mainnet rpc. Ens lives on mainnet regardless of
// which chain the storefront serves. The persistent provider keeps
// resolutions across restarts, names rarely move.
func New(rpc string, persistent provider.Provider) ENS {
	client, err := ethclient.Dial(rpc)
	if err != nil {
		panic(err)
	}
	return &impl{
		client,
		compoundcache.NewCompoundCache([]cache.Service{
			cache.New(cache.ServiceConfig{
				Ttl:   30 * time.Second,
				Pfx:   "ensPfx",
				Cache: primitive.NewPrimitive("ens", 512),
			}),
			cache.New(cache.ServiceConfig{
				Ttl:   7 * 24 * time.Hour, // cache for 1 week
				Pfx:   "ensPfx",
				Cache: persistent,
			}),
		}),
	}
}

func (im *impl) Resolve(ctx ctx.Ctx, name string) (domain.Address, error) {
	res := domain.Address("")
	key := keys.CacheKey("resolve", name)
	err := im.cache.GetByFunc(ctx, key, &res, func() (interface{}, error) {
		addr, err := goens.Resolve(im.client, name)
		if fmt.Sprint(err) == "unregistered name" {
			val := domain.Address("")
			return &val, nil
		}
		if err != nil {
			ctx.WithFields(log.Fields{
				"err": err,
			}).Error("failed to goens.Resolve")
			return nil, err
		}
		val := domain.Address(addr.String())
		return &val, nil
	})

	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to cache.GetByFunc")
		return "", err
	}

	return res, nil
}

func (im *impl) Avatar(ctx ctx.Ctx, name string) (string, error) {
	res := ""
	key := keys.CacheKey("avatar", name)
	err := im.cache.GetByFunc(ctx, key, &res, func() (interface{}, error) {
		resolver, err := goens.NewResolver(im.client, name)
		if err != nil {
			// names without a resolver simply have no avatar
			return ptr.String(""), nil
		}
		avatar, err := resolver.Text("avatar")
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":  err,
				"name": name,
			}).Error("failed to resolver.Text")
			return nil, err
		}
		return &avatar, nil
	})

	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to cache.GetByFunc")
		return "", err
	}

	return res, nil
}

func (im *impl) ReverseResolve(ctx ctx.Ctx, address domain.Address) (string, error) {
	res := ""
	key := keys.CacheKey("reverse-resolve", address.ToLowerStr())
	err := im.cache.GetByFunc(ctx, key, &res, func() (interface{}, error) {
		name, err := goens.ReverseResolve(im.client, common.HexToAddress(string(address)))
		if fmt.Sprint(err) == "not a resolver" {
			return ptr.String(""), nil
		}
		if err != nil {
			ctx.WithFields(log.Fields{
				"err": err,
			}).Error("failed to goens.ReverseResolve")
			return nil, err
		}
		return &name, nil
	})

	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("failed to cache.GetByFunc")
		return "", err
	}

	return res, nil
}
