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

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/database/redisclient"
	"github.com/x-xyz/nftmarket/base/env"
	"github.com/x-xyz/nftmarket/base/goroutine"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/base/metrics"
	bValidator "github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	hcdomain "github.com/x-xyz/nftmarket/domain/healthcheck"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/domain/whitelist"
	mmiddleware "github.com/x-xyz/nftmarket/middleware"
	"github.com/x-xyz/nftmarket/service/query"
	"github.com/x-xyz/nftmarket/service/redis"
	hc_delivery "github.com/x-xyz/nftmarket/stores/healthcheck/delivery/http"
	hc_repository "github.com/x-xyz/nftmarket/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/nftmarket/stores/healthcheck/usecase"
	ledger_repository "github.com/x-xyz/nftmarket/stores/ledger/repository"
	ledger_usecase "github.com/x-xyz/nftmarket/stores/ledger/usecase"
	listing_repository "github.com/x-xyz/nftmarket/stores/listing/repository"
	market_config "github.com/x-xyz/nftmarket/stores/market/config"
	market_delivery "github.com/x-xyz/nftmarket/stores/market/delivery/http"
	market_publisher "github.com/x-xyz/nftmarket/stores/market/publisher"
	market_usecase "github.com/x-xyz/nftmarket/stores/market/usecase"
	"github.com/x-xyz/nftmarket/stores/memory"
	offer_repository "github.com/x-xyz/nftmarket/stores/offer/repository"
	whitelist_repository "github.com/x-xyz/nftmarket/stores/whitelist/repository"
	whitelist_usecase "github.com/x-xyz/nftmarket/stores/whitelist/usecase"
)

var (
	configFile = pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	storage    = pflag.String("storage", "mongo", "backing store, mongo or memory")
)

// stores is everything the market engine settles against.
type stores struct {
	listings   listing.Repo
	offers     offer.Repo
	ledger     ledger.Ledger
	whitelists whitelist.Service
	transactor market.Transactor
	publisher  market.Publisher
	probes     []hcdomain.Probe
}

type seedBalance struct {
	Symbol  string
	Owner   string
	Amount  int64
	Approve int64
}

type seed struct {
	Tokens   []ledger.TokenInfo
	Balances []seedBalance
}

func init() {
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := log.Init(env.EnvName(), viper.GetString("log.level")); err != nil {
		panic(err)
	}
	metrics.Setup(viper.GetString("datadog.host"), viper.GetInt("datadog.port"))

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func mongoStores(context ctx.Ctx) *stores {
	context.Info("init mongo")
	mongoClient := mongoclient.MustConnect(mongoclient.Config{
		Uri:                viper.GetString("mongo.uri"),
		AuthDBName:         viper.GetString("mongo.authDBName"),
		DBName:             viper.GetString("mongo.dbName"),
		SSL:                viper.GetBool("mongo.enableSSL"),
		SetSafe:            true,
		PoolSizeMultiplier: viper.GetFloat64("mongo.poolMultiplier"),
	})
	q := query.New(mongoClient)

	context.Info("init redis")
	redisName := viper.GetString("redis.name")
	redisPool := redisclient.MustConnectRedis(viper.GetString("redis.uri"), viper.GetString("redis.password"), redisclient.RedisParam{
		PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
		Retry:          true,
	})
	redisService := redis.New(redisName, metrics.New(redisName), &redis.Pools{
		Src: redisPool,
	})

	return &stores{
		listings: listing_repository.New(q),
		offers:   offer_repository.New(q),
		ledger: ledger_usecase.New(&ledger_usecase.LedgerUseCaseCfg{
			Ledger:   ledger_repository.New(q),
			Redis:    redisService,
			CacheTtl: viper.GetDuration("ledger.tokenInfoTtl"),
		}),
		whitelists: whitelist_repository.New(q),
		transactor: q,
		publisher:  market_publisher.NewRedis(redisService, viper.GetInt("publisher.workers")),
		probes: []hcdomain.Probe{
			hc_repository.NewMongo(mongoClient),
			hc_repository.NewRedis(redisService),
		},
	}
}

func memoryStores(context ctx.Ctx, marketAddress domain.Address) *stores {
	context.Warn("running on the in-memory store, state is lost on exit")
	w := memory.New()

	s := seed{}
	if err := viper.UnmarshalKey("memory.seed", &s); err != nil {
		context.WithField("err", err).Panic("failed to read memory seed")
	}
	l := w.Ledger()
	for _, t := range s.Tokens {
		l.AddToken(t)
	}
	for _, b := range s.Balances {
		l.Mint(b.Symbol, domain.Address(b.Owner), b.Amount)
		if b.Approve > 0 {
			l.Approve(b.Symbol, domain.Address(b.Owner), marketAddress, b.Approve)
		}
	}

	return &stores{
		listings:   w.Listings(),
		offers:     w.Offers(),
		ledger:     ledger_usecase.New(&ledger_usecase.LedgerUseCaseCfg{Ledger: l}),
		whitelists: w.Whitelists(),
		transactor: w,
		publisher:  market_publisher.NewLog(),
	}
}

func main() {
	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	configProvider := market_config.NewViper(viper.GetViper(), "market")
	cfg, err := configProvider.GetConfig(context)
	if err != nil {
		context.WithField("err", err).Panic("invalid market config")
	}

	var st *stores
	switch *storage {
	case "mongo":
		st = mongoStores(context)
	case "memory":
		st = memoryStores(context, cfg.MarketAddress)
	default:
		context.WithField("storage", *storage).Panic("unknown storage")
	}

	gate := whitelist_usecase.NewGate(&whitelist_usecase.GateCfg{
		Whitelist: st.whitelists,
	})
	marketUseCase := market_usecase.New(&market_usecase.MarketUseCaseCfg{
		ListingRepo:    st.listings,
		OfferRepo:      st.offers,
		Ledger:         st.ledger,
		Gate:           gate,
		ConfigProvider: configProvider,
		Transactor:     st.transactor,
		Publisher:      st.publisher,
		Metrics:        metrics.New("market"),
	})

	hc_delivery.New(e, hc_usecase.New(st.probes...), *storage)
	market_delivery.New(e, marketUseCase)

	serverErr := goroutine.Go(context, "server", func() error {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case err := <-serverErr:
		log.Log().WithField("err", err).Error("server stopped")
	}

	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
