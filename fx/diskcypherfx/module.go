// Package diskcypherfx provides an fx module for a cypher client backed by a
// data directory.
package diskcypherfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher"
	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/stats/logger"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/cachestrategy/lru"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/memory"
	"github.com/50shades0fGraei/cypher/internal/store/diskstore"
)

// DefaultCacheSize is the number of objects cached when Config.CacheSize is unset.
const DefaultCacheSize = 100

// Config holds configuration for the disk-backed cypher client.
type Config struct {
	// DataDir is a directory built by "cypher build". Archives are stored
	// there too.
	DataDir string

	// CacheSize is the number of objects (chunks and manifests) to cache
	// in memory. Default is 100.
	CacheSize int
}

// Module provides a disk-backed cypher client.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskcypher",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("cypher.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *cypher.Client
}

func newClient(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	baseStore, err := diskstore.New(p.Config.DataDir)
	if err != nil {
		return Result{}, err
	}

	lruStrategy, err := lru.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	st := cachedstore.New(baseStore, memory.New(lruStrategy, p.Collector))

	dataOpt, err := cypher.WithDataStore(context.Background(), st)
	if err != nil {
		return Result{}, err
	}

	client, err := cypher.New(
		dataOpt,
		cypher.WithStats(p.Collector),
		cypher.WithLogger(p.Logger.Named("cypher")),
	)
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
