// Package memorycypherfx provides an fx module for an in-memory cypher client.
// Useful for testing.
package memorycypherfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher"
	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/stats/logger"
	"github.com/50shades0fGraei/cypher/internal/store/memstore"
)

// Module provides an in-memory cypher client for testing.
// Requires a *zap.Logger to be provided. A *cypher.Dictionary may be
// supplied; the generated dictionary is used otherwise.
var Module = fx.Module("memorycypher",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("cypher.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger     *zap.Logger
	Collector  stats.Collector
	Store      *memstore.Store
	Dictionary *cypher.Dictionary `optional:"true"`
	Lifecycle  fx.Lifecycle
}

// Result holds the provided client. The *memstore.Store it writes to is
// provided by the module on its own, for test setup.
type Result struct {
	fx.Out

	Client *cypher.Client
}

func newClient(p Params) (Result, error) {
	opts := []cypher.Option{
		cypher.WithStore(p.Store),
		cypher.WithStats(p.Collector),
		cypher.WithLogger(p.Logger.Named("cypher")),
	}
	if p.Dictionary != nil {
		opts = append(opts, cypher.WithDictionary(p.Dictionary))
	}
	client, err := cypher.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
