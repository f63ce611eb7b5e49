package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/adapter"
	"github.com/sells-group/account-intel/internal/catalog"
	"github.com/sells-group/account-intel/internal/research"
	"github.com/sells-group/account-intel/internal/store"
	anthropicpkg "github.com/sells-group/account-intel/pkg/anthropic"
	"github.com/sells-group/account-intel/pkg/tavily"
)

// researchEnv holds the initialized store, clients, and agent needed by the
// research and serve commands.
type researchEnv struct {
	Store store.Store
	Agent *research.Agent
}

// Close releases resources held by the environment.
func (re *researchEnv) Close() {
	if re.Store != nil {
		_ = re.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "account-intel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResearch sets up the store, search and LLM clients, and the research
// agent. Callers should defer env.Close().
func initResearch(ctx context.Context) (*researchEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (ACCOUNTINTEL_ANTHROPIC_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	enableSearch := cfg.Research.EnableWebSearch
	if cfg.Tavily.Key == "" && enableSearch {
		zap.L().Warn("ACCOUNTINTEL_TAVILY_KEY not set, web search disabled")
		enableSearch = false
	}

	searchClient := tavily.NewClient(cfg.Tavily.Key,
		tavily.WithBaseURL(cfg.Tavily.BaseURL),
		tavily.WithRateLimit(cfg.Tavily.RateLimit),
	)
	llmClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	ad := adapter.New(searchClient, llmClient, adapter.Config{
		Model:           cfg.Anthropic.Model,
		MaxTokens:       int64(cfg.Research.MaxTokens),
		CallTimeout:     time.Duration(cfg.Research.CallTimeoutSecs) * time.Second,
		EnableWebSearch: enableSearch,
	})

	opts := []research.AgentOption{}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zap.L().Warn("catalog load failed, recommendations disabled", zap.Error(err))
	} else if cat != nil {
		zap.L().Info("product catalog loaded", zap.Int("products", len(cat.Products)))
		opts = append(opts, research.WithCatalog(cat))
	}

	return &researchEnv{
		Store: st,
		Agent: research.NewAgent(ad, opts...),
	}, nil
}
