package autem

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/zircuit-labs/autem/core"
	"github.com/zircuit-labs/autem/core/autem/autemlog"
	"github.com/zircuit-labs/autem/core/autem/indexer"
	"github.com/zircuit-labs/autem/core/autem/metrics"
	"github.com/zircuit-labs/autem/core/autem/ratelimiter"
	"github.com/zircuit-labs/autem/core/autem/storage"
	"github.com/zircuit-labs/autem/internal/ethapi"
)

const shutdownTimeout = 5 * time.Second

// Node is a devnet: a ledger with the Autem factory at genesis, the trust
// index fed from it and the JSON-RPC API on top.
type Node struct {
	config    Config
	chain     *core.BlockChain
	store     storage.Storage
	registry  *prometheus.Registry
	collector *metrics.Collector
	pool      pond.Pool
	indexer   *indexer.Indexer
	rpc       *rpc.Server
	jwt       []byte
	logger    log.Logger
}

// NewNode builds a node from cfg. A nil clock uses the wall clock.
func NewNode(ctx context.Context, cfg Config, clk clock.Clock) (*Node, error) {
	secret, err := cfg.HTTP.jwtSecret()
	if err != nil {
		return nil, err
	}
	genesis, err := cfg.Chain.Genesis()
	if err != nil {
		return nil, err
	}
	chain, err := core.NewBlockChain(genesis, clk, autemlog.NewWith("component", "chain"))
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		chain.Stop()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		_ = store.Close()
		chain.Stop()
		return nil, err
	}

	concurrency := cfg.Discovery.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConfig.Discovery.Concurrency
	}
	pool := pond.NewPool(concurrency)
	ix, err := indexer.New(chain, store, collector, pool, cfg.Discovery.Timeout.Std(), autemlog.NewWith("component", "indexer"))
	if err != nil {
		pool.StopAndWait()
		_ = store.Close()
		chain.Stop()
		return nil, err
	}

	server := rpc.NewServer()
	apis := ethapi.GetAPIs(chain, store, ix, collector, ethapi.Config{
		Accounts: cfg.Chain.Faucets,
		RateLimit: ratelimiter.Config{
			LimitPerSec: cfg.RateLimit.LimitPerSec,
			BurstPerSec: cfg.RateLimit.Burst,
		},
		Dev: true,
	})
	for _, api := range apis {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			server.Stop()
			pool.StopAndWait()
			_ = store.Close()
			chain.Stop()
			return nil, err
		}
	}

	return &Node{
		config:    cfg,
		chain:     chain,
		store:     store,
		registry:  registry,
		collector: collector,
		pool:      pool,
		indexer:   ix,
		rpc:       server,
		jwt:       secret,
		logger:    autemlog.NewWith("component", "node"),
	}, nil
}

// Chain returns the ledger of the node.
func (n *Node) Chain() *core.BlockChain {
	return n.chain
}

// Handler serves JSON-RPC on / and the Prometheus metrics on /metrics. With a
// JWT secret configured the RPC route requires a bearer token.
func (n *Node) Handler() http.Handler {
	var rpcHandler http.Handler = n.rpc
	if n.jwt != nil {
		rpcHandler = newJWTHandler(n.jwt, rpcHandler)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", rpcHandler)
	return newCorsHandler(mux, n.config.HTTP.CORS)
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// Start starts indexing the ledger.
func (n *Node) Start() {
	n.indexer.Start()
}

// Serve starts the node and serves HTTP until ctx is done.
func (n *Node) Serve(ctx context.Context) error {
	n.Start()

	srv := &http.Server{
		Addr:         n.config.HTTP.Addr(),
		Handler:      n.Handler(),
		ReadTimeout:  n.config.HTTP.ReadTimeout.Std(),
		WriteTimeout: n.config.HTTP.WriteTimeout.Std(),
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n.logger.Info("HTTP server started", "addr", srv.Addr, "chain", n.chain.ChainID(), "factory", n.chain.FactoryAddress())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		n.logger.Info("HTTP server stopping")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases every resource of the node.
func (n *Node) Close() {
	n.rpc.Stop()
	n.indexer.Stop()
	n.pool.StopAndWait()
	if err := n.store.Close(); err != nil {
		n.logger.Error("Failed to close storage", "err", err)
	}
	n.chain.Stop()
}
