// Package app assembles the application: configuration, database pool,
// Genkit AI provider, corpus and chat stores, and the answer engine.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/config"
	"github.com/nourai/nourai/internal/corpus"
	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/rag"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Corpus *corpus.Store
	Chats  *chat.Store
	Engine *rag.Engine
}

// Close releases all resources. Safe to call on a partially built App.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.DBPool != nil {
		a.DBPool.Close()
	}

	return nil
}
