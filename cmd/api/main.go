package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"campaignstudio/internal/adapter/redislock"
	"campaignstudio/internal/adapter/repo"
	"campaignstudio/internal/campaign"
	"campaignstudio/internal/http/handlers"
	"campaignstudio/internal/http/httpapi"
	"campaignstudio/internal/imageref"
	"campaignstudio/internal/infra"
	"campaignstudio/internal/infra/credentials"
	"campaignstudio/internal/infra/geoip"
	"campaignstudio/internal/middleware"
	imageprovider "campaignstudio/internal/providers/image"
	"campaignstudio/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := infra.InitTracing(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracing")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	store, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	provider := newImageProvider(ctx, cfg, credentials.NewStore(sqlRunner), logger)

	var locker campaign.Locker
	rdb, err := infra.NewRedisClient(ctx, cfg)
	switch {
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to connect redis")
	case rdb != nil:
		defer rdb.Close()
		locker = redislock.New(rdb, cfg.CampaignLockTTL, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("campaign lock: redis")
	default:
		locker = campaign.NewMemoryLocker()
		logger.Info().Msg("campaign lock: in-process")
	}

	styles, err := campaign.LoadStyleCatalog(cfg.StyleCatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load style catalog")
	}

	svc, err := campaign.NewService(campaign.Deps{
		Businesses: repo.NewBusinessRepository(sqlRunner),
		Campaigns:  repo.NewCampaignRepository(sqlRunner),
		Jobs:       repo.NewJobRepository(sqlRunner),
		Assets:     repo.NewAssetRepository(sqlRunner),
		Store:      store,
		References: imageref.NewFetcher(&http.Client{Timeout: 30 * time.Second}, cfg.ReferenceMaxBytes, logger),
		Provider:   provider,
		Models:     imageprovider.NewModelSelector(cfg.GeminiModelStandard, cfg.GeminiModelPremium),
		Styles:     styles,
		Locker:     locker,
		Allowance: campaign.Allowance{
			Free:       cfg.FreeAnchorRegenerations,
			CreditCost: cfg.RegenerationCreditCost,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build campaign service")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	opts := httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   "en",
		CountryLookup:   lookup,
	}
	if cfg.ObjectStore == infra.ObjectStoreLocal {
		opts.StaticDir = cfg.StoragePath
	}
	router := httpapi.NewRouter(handlers.NewApp(svc, logger), opts)
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		// in-flight campaigns may run for minutes
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPWriteTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to flush traces")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}

// newImageProvider picks Gemini when an API key is available from the
// environment or the credential store, and the synthetic renderer otherwise.
func newImageProvider(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger zerolog.Logger) imageprovider.Provider {
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	key, err := creds.ResolveGeminiAPIKey(lookupCtx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini key lookup failed")
	}
	if key == "" {
		logger.Warn().Msg("no Gemini API key configured; using synthetic image provider")
		return imageprovider.Synthetic{}
	}
	gemini, err := imageprovider.NewGemini(ctx, key, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init gemini provider")
	}
	return gemini
}
