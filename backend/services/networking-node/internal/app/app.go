package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libdb "ocppnode/backend/libs/db"
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/signature"
	"ocppnode/backend/libs/ocpp/ws"
	libredis "ocppnode/backend/libs/redis"
	"ocppnode/backend/services/networking-node/internal/auth"
	"ocppnode/backend/services/networking-node/internal/config"
	"ocppnode/backend/services/networking-node/internal/handlers"
	httpserver "ocppnode/backend/services/networking-node/internal/http"
	"ocppnode/backend/services/networking-node/internal/metrics"
	"ocppnode/backend/services/networking-node/internal/presence"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/repository"
	"ocppnode/backend/services/networking-node/internal/service"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	presenceTimeout = 2 * time.Second
)

// App wires networking-node dependencies.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	node     *node.Node
	manager  *ws.Manager
	wsServer *ws.Server
	upstream *ws.Client
	server   *httpserver.Server
	registry *registry.Registry
	presence presence.Store

	db          *sql.DB
	redisClient *redis.Client
	journal     *repository.Journal
}

// New constructs the application graph. Postgres and redis are optional: an
// empty DSN or address keeps the node in memory only.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(),
		presence: presence.NopStore{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var stations repository.StationStore = repository.NopStationStore{}
	if cfg.Database.DSN != "" {
		sqlDB, err := libdb.NewPostgresDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = sqlDB
		if err := libdb.Migrate(ctx, sqlDB, repository.Schema...); err != nil {
			a.Close()
			return nil, err
		}
		stations = repository.NewStationRepository(sqlDB)
		a.journal = repository.NewJournal(sqlDB, cfg.Node.ID, 0, logger)
	} else {
		logger.Info("postgres disabled, message journal and station records stay in memory")
	}

	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redisClient = client
		a.presence = presence.NewRedisStore(client, cfg.Redis.PresenceTTL)
	}

	var policy *signature.Policy
	if len(cfg.Signatures) > 0 {
		p, err := signature.BuildPolicy(logger, cfg.Signatures, nil)
		if err != nil {
			a.Close()
			return nil, err
		}
		policy = p
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(reg, func() node.Stats {
		if a.node == nil {
			return node.Stats{}
		}
		return a.node.Stats()
	})

	opts := node.Options{
		Policy:   policy,
		Logger:   logger,
		Observer: collector,
		Tracker: node.TrackerConfig{
			Timeout:     cfg.Commands.Timeout,
			MaxAttempts: cfg.Commands.MaxAttempts,
			MaxInFlight: cfg.Commands.MaxInFlight,
			Logger:      logger,
		},
		MaxHops:        cfg.Node.MaxHops,
		ForwardTimeout: cfg.Node.ForwardTimeout,
		RouteTTL:       cfg.Node.RouteTTL,
	}
	if a.journal != nil {
		opts.Journal = a.journal
	}
	if cfg.IsGateway() {
		opts.Upstream = ocpp.NodeID(cfg.Upstream.ID)
	}
	n, err := node.New(ocpp.NodeID(cfg.Node.ID), opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.node = n

	for _, r := range cfg.Node.Routes {
		n.AddRoute(ocpp.NodeID(r.Destination), ocpp.NodeID(r.NextHop), r.Priority)
	}

	transactions := service.NewTransactionStore()
	if !cfg.IsGateway() {
		handlers.Register(n, &handlers.Deps{
			Registry:          a.registry,
			Stations:          stations,
			Transactions:      transactions,
			AllowedTokens:     cfg.Authorization.AllowedTokens,
			HeartbeatInterval: cfg.HeartbeatIntervalSeconds(),
			Logger:            logger,
		})
	}

	connCfg := ws.ConnectionConfig{
		WriteTimeout: cfg.WebSocket.WriteTimeout,
		PingInterval: cfg.WebSocket.PingInterval,
		SendBuffer:   cfg.WebSocket.SendBuffer,
	}
	a.manager = ws.NewManager(cfg.WebSocket.PingInterval, logger)
	a.manager.OnChange(collector.SetConnections)

	serverOpts := ws.ServerOptions{
		Connection:   connCfg,
		OnConnect:    a.connected,
		OnDisconnect: a.disconnected,
	}
	if len(cfg.Auth.Stations) > 0 {
		hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
		if err != nil {
			a.Close()
			return nil, err
		}
		hashes := make(map[string]string, len(cfg.Auth.Stations))
		for _, s := range cfg.Auth.Stations {
			hashes[s.ID] = s.PasswordHash
		}
		authenticator := auth.NewStationAuthenticator(hashes, hasher)
		for _, id := range authenticator.Outdated(hasher) {
			logger.Warn("station password hash below configured bcrypt cost",
				zap.String("station_id", string(id)),
				zap.Int("bcrypt_cost", hasher.Cost()),
			)
		}
		serverOpts.Authenticator = authenticator
	} else {
		logger.Warn("no station credentials configured, accepting every node")
	}
	a.wsServer = ws.NewServer(n, a.manager, serverOpts, logger)

	if cfg.IsGateway() {
		client, err := ws.NewClient(n, a.manager, ws.ClientOptions{
			URL:        cfg.Upstream.URL,
			ID:         ocpp.NodeID(cfg.Node.ID),
			Peer:       ocpp.NodeID(cfg.Upstream.ID),
			Password:   cfg.Upstream.Password,
			Mode:       node.Overlay,
			Connection: connCfg,
			MinBackoff: cfg.Upstream.MinBackoff,
			MaxBackoff: cfg.Upstream.MaxBackoff,
			OnConnect:  func(*ws.Connection) { a.announceUpstream() },
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.upstream = client
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if !tokens.Enabled() {
		logger.Warn("jwt secret not set, management api is unauthenticated")
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Node:              n,
		Registry:          a.registry,
		Transactions:      transactions,
		Tokens:            tokens,
		WebSocket:         a.wsServer,
		Gatherer:          reg,
		OnCommandFinished: collector.CommandFinished,
		Logger:            logger,
	})
	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger)
	return a, nil
}

// Run serves until ctx is done, then shuts the links down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("networking node starting", zap.String("role", a.cfg.Node.Role))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.manager.Start(gctx)
		return nil
	})
	g.Go(func() error {
		a.maintain(gctx)
		return nil
	})
	if a.upstream != nil {
		g.Go(func() error {
			a.upstream.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		return a.server.Run(gctx)
	})

	<-gctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.wsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("websocket shutdown incomplete", zap.Error(err))
	}
	if err := a.node.Close(); err != nil {
		a.logger.Warn("node close", zap.Error(err))
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// maintain prunes finished commands and expired routes and refreshes the
// presence TTL of attached peers.
func (a *App) maintain(ctx context.Context) {
	interval := a.cfg.Redis.PresenceTTL / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := a.node.PruneCommands(a.cfg.Node.CommandRetention)
			expired := a.node.RoutingTable().Purge()
			if pruned > 0 || expired > 0 {
				a.logger.Debug("maintenance",
					zap.Int("commands_pruned", pruned),
					zap.Int("routes_expired", expired),
				)
			}
			for _, peer := range a.manager.Peers() {
				if conn, ok := a.manager.Get(peer); ok {
					a.savePresence(conn)
				}
			}
		}
	}
}

func (a *App) connected(conn *ws.Connection) {
	a.registry.SetConnected(string(conn.Peer()), true, time.Now().UTC())
	a.savePresence(conn)
	if a.upstream != nil {
		a.announceUpstream()
	}
}

func (a *App) disconnected(conn *ws.Connection) {
	peer := string(conn.Peer())
	a.registry.SetConnected(peer, false, time.Now().UTC())
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := a.presence.Delete(ctx, peer); err != nil {
		a.logger.Warn("presence delete failed", zap.String("peer", peer), zap.Error(err))
	}
	if a.upstream != nil {
		a.announceUpstream()
	}
}

func (a *App) savePresence(conn *ws.Connection) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	entry := presence.Entry{
		PeerID:      string(conn.Peer()),
		NodeID:      a.cfg.Node.ID,
		Mode:        conn.Mode().String(),
		ConnectedAt: conn.ConnectedAt(),
	}
	if err := a.presence.Save(ctx, entry); err != nil {
		a.logger.Warn("presence save failed", zap.String("peer", entry.PeerID), zap.Error(err))
	}
}

// announceUpstream tells the CSMS which nodes sit behind this gateway.
func (a *App) announceUpstream() {
	peer := ocpp.NodeID(a.cfg.Upstream.ID)
	if _, err := a.node.AnnounceTopology(peer); err != nil && !errors.Is(err, node.ErrClosed) {
		a.logger.Warn("topology announcement failed", zap.String("peer", string(peer)), zap.Error(err))
	}
}

// Close releases resources. The node is closed first so nothing is journaled
// after the journal drains.
func (a *App) Close() {
	if a.node != nil {
		_ = a.node.Close()
	}
	if a.journal != nil {
		a.journal.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
