package services

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/app/pricing/queries/get_country_rule"
	"github.com/voyantra/pricing-engine/internal/app/pricing/queries/list_country_rules"
	"github.com/voyantra/pricing-engine/internal/app/pricing/repo"
	"github.com/voyantra/pricing-engine/internal/app/pricing/usecases/apply_bulk"
	"github.com/voyantra/pricing-engine/internal/app/pricing/usecases/build_breakdown"
	"github.com/voyantra/pricing-engine/internal/config"
	"github.com/voyantra/pricing-engine/internal/pkg/clock"
	"github.com/voyantra/pricing-engine/internal/pkg/committer"
	"github.com/voyantra/pricing-engine/internal/rates"
	transport "github.com/voyantra/pricing-engine/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	RedisClient   *redis.Client
	Router        http.Handler
	Logger        *zap.Logger
}

// NewServiceOptions creates and wires up all application dependencies.
// Redis is optional: without an address the converter runs on fallback
// rates alone, which is how staging environments operate.
func NewServiceOptions(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)

	ruleRepo := repo.NewRuleRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient)
	historyRepo := repo.NewRuleHistoryRepo(spannerClient)
	readModel := repo.NewReadModel(spannerClient)

	var redisClient *redis.Client
	var rateProvider contracts.RateProvider
	if cfg.RedisAddr != "" {
		redisClient, err = rates.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			spannerClient.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rateProvider = rates.NewRedisProvider(redisClient, logger)
	} else {
		logger.Warn("no redis address configured, conversions use fallback rates only")
		rateProvider = rates.NewStaticProvider(nil)
	}

	var defaults *domain.ConversionSettings
	if cfg.ConversionDefaultsPath != "" {
		defaults, err = config.LoadConversionDefaults(cfg.ConversionDefaultsPath)
		if err != nil {
			spannerClient.Close()
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, fmt.Errorf("failed to load conversion defaults: %w", err)
		}
	}

	breakdownUseCase := build_breakdown.NewInteractor(ruleRepo, rateProvider, defaults, clk)
	bulkUseCase := apply_bulk.NewInteractor(ruleRepo, ruleRepo, ruleRepo, historyRepo, outboxRepo, comm, clk)

	getRuleQuery := get_country_rule.NewQuery(readModel)
	listRulesQuery := list_country_rules.NewQuery(readModel)

	handler := transport.NewHandler(breakdownUseCase, bulkUseCase, getRuleQuery, listRulesQuery, logger)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		RedisClient:   redisClient,
		Router:        transport.NewRouter(handler, logger),
		Logger:        logger,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
}
