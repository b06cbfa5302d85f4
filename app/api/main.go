package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	bValidator "github.com/inkmarket/goapi/base/validator"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/tvl"
	mmiddleware "github.com/inkmarket/goapi/middleware"
	"github.com/inkmarket/goapi/service/blockscout"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider"
	"github.com/inkmarket/goapi/service/cache/provider/compound"
	"github.com/inkmarket/goapi/service/cache/provider/persistent"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
	"github.com/inkmarket/goapi/service/chain"
	"github.com/inkmarket/goapi/service/chain/contract"
	"github.com/inkmarket/goapi/service/coingecko"
	"github.com/inkmarket/goapi/service/dexscreener"
	"github.com/inkmarket/goapi/service/ens"
	"github.com/inkmarket/goapi/service/zns"
	collection_delivery "github.com/inkmarket/goapi/stores/collection/delivery/http"
	collection_repository "github.com/inkmarket/goapi/stores/collection/repository"
	ens_delivery "github.com/inkmarket/goapi/stores/ens/delivery/http"
	hc_delivery "github.com/inkmarket/goapi/stores/healthcheck/delivery/http"
	hc_usecase "github.com/inkmarket/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/inkmarket/goapi/stores/listing/delivery/http"
	listing_repository "github.com/inkmarket/goapi/stores/listing/repository"
	listing_usecase "github.com/inkmarket/goapi/stores/listing/usecase"
	metadata_repository "github.com/inkmarket/goapi/stores/metadata/repository"
	ownership_delivery "github.com/inkmarket/goapi/stores/ownership/delivery/http"
	ownership_usecase "github.com/inkmarket/goapi/stores/ownership/usecase"
	price_delivery "github.com/inkmarket/goapi/stores/price/delivery/http"
	price_usecase "github.com/inkmarket/goapi/stores/price/usecase"
	profile_delivery "github.com/inkmarket/goapi/stores/profile/delivery/http"
	profile_repository "github.com/inkmarket/goapi/stores/profile/repository"
	profile_usecase "github.com/inkmarket/goapi/stores/profile/usecase"
	staking_delivery "github.com/inkmarket/goapi/stores/staking/delivery/http"
	staking_usecase "github.com/inkmarket/goapi/stores/staking/usecase"
	tokenstatus_delivery "github.com/inkmarket/goapi/stores/tokenstatus/delivery/http"
	tokenstatus_usecase "github.com/inkmarket/goapi/stores/tokenstatus/usecase"
	zns_delivery "github.com/inkmarket/goapi/stores/zns/delivery/http"

	"github.com/ethereum/go-ethereum/common"
)

func init() {
	pflag.String("config", "infra/configs/config.yaml", "config file path")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	mmiddleware.SetupCache()

	// init persistent cache, the durable tier shared by profiles, name
	// resolution and listing status
	context.Info("init persistent cache")
	persistentCache := persistent.MustNewPersistent(viper.GetString("cache.dir"))
	// memory tier in front of the file-backed one, hot reads skip disk
	layeredCache := compound.NewCompound([]provider.Provider{
		primitive.NewPrimitive("layered", 16),
		persistentCache,
	})

	// init chain service
	context.Info("init chain service")
	chainId := domain.ChainId(viper.GetInt32("network.chainId"))
	rpcs := map[int32]string{
		int32(chainId): viper.GetString("network.rpcUrl"),
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:     rpcs,
		MaxInflight: viper.GetInt("network.maxInflight"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}

	marketplaceAddr := domain.Address(viper.GetString("marketplace.address")).ToLower()
	marketplaceService := contract.NewMarketplace(chainService, int32(chainId), common.HexToAddress(string(marketplaceAddr)))
	erc721Service := contract.NewErc721(chainService, int32(chainId))
	pairService := contract.NewPair(chainService, int32(chainId))
	stakingAddr := domain.Address(viper.GetString("staking.contract")).ToLower()
	stakingService := contract.NewStaking(chainService, int32(chainId), common.HexToAddress(string(stakingAddr)))

	// init external clients
	httpTimeout := viper.GetDuration("http.timeout")
	coinGecko := coingecko.NewClient(&coingecko.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
	})
	dexScreener := dexscreener.NewClient(&dexscreener.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
	})
	znsClient := zns.NewClient(&zns.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
		ChainId:    int32(chainId),
	})
	blockscoutClient := blockscout.NewClient(&blockscout.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    httpTimeout,
		BaseUrl:    viper.GetString("blockscout.baseUrl"),
	})
	// ens on ethereum
	ensService := ens.New(viper.GetString("ens.rpcUrl"), persistentCache)

	// collection registry from config
	var collectionCfgs []collection.Config
	if err := viper.UnmarshalKey("collections", &collectionCfgs); err != nil {
		panic(err)
	}
	registry := collection_repository.NewRegistry(collectionCfgs)

	// construct repository, usecase and delivery
	hc := hc_usecase.New(chainService, chainId)

	listingRepo := listing_repository.NewOnChain(marketplaceService, chainId)
	listing := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		Repo:     listingRepo,
		PageSize: viper.GetUint64("listing.pageSize"),
		CacheTtl: viper.GetDuration("listing.cacheTtl"),
	})

	metadataRepo := metadata_repository.NewFile(viper.GetString("metadata.dir"))
	resolver := ownership_usecase.New(&ownership_usecase.ResolverCfg{
		Registry: registry,
		Erc721:   erc721Service,
		Zns:      znsClient,
		Metadata: metadataRepo,
		Rps:      viper.GetInt("ownership.rps"),
	})

	reconciler := tokenstatus_usecase.New(&tokenstatus_usecase.ReconcilerCfg{
		Erc721:      erc721Service,
		Marketplace: marketplaceAddr,
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   viper.GetDuration("tokenstatus.ttl"),
			Pfx:   keys.PfxTokenStatus,
			Cache: layeredCache,
		}),
		Ttl:     viper.GetDuration("tokenstatus.ttl"),
		Workers: viper.GetInt("tokenstatus.workers"),
	})

	pools := make(map[domain.Address]string)
	for token, pool := range viper.GetStringMapString("price.pools") {
		pools[domain.Address(token)] = pool
	}
	price := price_usecase.New(&price_usecase.PriceUseCaseCfg{
		Dex:       dexScreener,
		Pair:      pairService,
		Coingecko: coinGecko,
		Pools:     pools,
	})

	profileRepo := profile_repository.NewPersistent(layeredCache, viper.GetDuration("profile.recordTtl"))
	profile := profile_usecase.New(&profile_usecase.ProfileUseCaseCfg{
		Repo:       profileRepo,
		Zns:        znsClient,
		Ens:        ensService,
		Blockscout: blockscoutClient,
		Freshness:  viper.GetDuration("profile.freshness"),
	})

	stakingToken := domain.Address(viper.GetString("staking.token")).ToLower()
	startBlock := viper.GetUint64("staking.startBlock")
	var tvlUC tvl.UseCase
	if viper.GetBool("tvl.synthetic") {
		// fabricated series for demo environments, never wired by default
		tvlUC = staking_usecase.NewSyntheticTvl(
			viper.GetInt("tvl.syntheticDays"),
			viper.GetFloat64("tvl.syntheticBaseTokens"),
			viper.GetFloat64("tvl.syntheticTokenUsd"),
		)
	} else {
		tvlUC = staking_usecase.NewTvl(&staking_usecase.TvlUseCaseCfg{
			Chain:           chainService,
			ChainId:         chainId,
			StakingContract: stakingAddr,
			Token:           stakingToken,
			Price:           price,
			StartBlock:      startBlock,
		})
	}
	staking := staking_usecase.New(&staking_usecase.StakingUseCaseCfg{
		Chain:           chainService,
		ChainId:         chainId,
		Staking:         stakingService,
		StakingContract: stakingAddr,
		NftContract:     domain.Address(viper.GetString("staking.nftContract")).ToLower(),
		Profile:         profile,
		StartBlock:      startBlock,
	})

	hc_delivery.New(e, hc)
	collection_delivery.New(e, registry)
	listing_delivery.New(e, listing, reconciler, metadataRepo)
	ownership_delivery.New(e, resolver, registry)
	tokenstatus_delivery.New(e, listing, reconciler)
	staking_delivery.New(e, staking, tvlUC)
	price_delivery.New(e, price)
	profile_delivery.New(e, profile)
	ens_delivery.New(e, ensService)
	zns_delivery.New(e, znsClient)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	reconciler.Close()
}
