package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/genai"

	"github.com/nourai/nourai/db"
	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/config"
	"github.com/nourai/nourai/internal/corpus"
	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/rag"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, embedder, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g
	a.Embedder = embedder

	a.Corpus, err = provideCorpusStore(pool, embedder, cfg, logger)
	if err != nil {
		return nil, err
	}

	a.Chats, err = chat.NewStore(pool, logger)
	if err != nil {
		return nil, fmt.Errorf("creating chat store: %w", err)
	}

	generator, err := rag.NewModelGenerator(g, cfg.FullModelName())
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	a.Engine, err = rag.NewEngine(rag.Config{
		Searcher:    a.Corpus,
		Generator:   generator,
		Logger:      logger,
		Threshold:   cfg.SimilarityThreshold,
		DefaultTopK: cfg.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return a, nil
}

// provideDBPool runs migrations and creates the connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db.NewPool(ctx, cfg.PostgresConnectionString())
}

// provideGenkit initializes Genkit with the configured AI provider and
// returns the embedder registered by that provider.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, ai.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, nil, errors.New("initializing genkit with gemini provider")
		}

		embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
		if embedder == nil {
			return nil, nil, fmt.Errorf("embedder %q not found for gemini provider", cfg.EmbedderModel)
		}
		logger.Info("initialized genkit with gemini provider",
			"model", cfg.ModelName, "embedder", cfg.EmbedderModel)
		return g, embedder, nil

	default: // "ollama"
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, nil, errors.New("initializing genkit with ollama provider")
		}

		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)

		embedder := ollama.Embedder(g, cfg.OllamaHost)
		if embedder == nil {
			return nil, nil, fmt.Errorf("embedder %q not found for ollama provider", cfg.EmbedderModel)
		}
		logger.Info("initialized genkit with ollama provider",
			"model", cfg.ModelName, "embedder", cfg.EmbedderModel, "host", cfg.OllamaHost)
		return g, embedder, nil
	}
}

// provideCorpusStore creates the vector store. Gemini embedding models
// output more dimensions than our schema by default, so embed requests
// truncate to the schema's dimensionality.
func provideCorpusStore(pool *pgxpool.Pool, embedder ai.Embedder, cfg *config.Config, logger log.Logger) (*corpus.Store, error) {
	var opts []corpus.StoreOption
	if cfg.Provider == config.ProviderGemini {
		dim := corpus.VectorDimension
		opts = append(opts, corpus.WithEmbedOptions(&genai.EmbedContentConfig{
			OutputDimensionality: &dim,
		}))
	}

	store, err := corpus.NewStore(pool, embedder, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating corpus store: %w", err)
	}
	return store, nil
}
