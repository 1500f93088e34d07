package main

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonboulle/clockwork"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/events"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/gateway"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/matchapi"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/roster"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/session"
	"github.com/Twenty2Eleven78/matchtrack/go/internal/store"
)

// Services holds the wired application graph.
type Services struct {
	Session   *session.App
	Gateway   *gateway.ConnectionManager
	WSHandler *gateway.WebSocketHandler
	MatchAPI  *matchapi.Service
	Roster    *roster.Service
	Publisher events.Publisher
}

func setupServices(ctx context.Context, db *badger.DB, cfg *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Store layer → Repository layer → App layer → Service layer

	publisher, err := setupPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Session engine
	sessionRepo := store.NewSessionRepository(db)
	sessionApp := session.NewApp(sessionRepo, clockwork.NewRealClock(), cfg.refreshInterval(), publisher)

	// Gateway: renderers get the current snapshot on connect and on
	// every mutation/refresh.
	connectionManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig(), sessionApp.Snapshot)
	sessionApp.SetBroadcaster(connectionManager)
	wsHandler := gateway.NewWebSocketHandler(connectionManager)

	// Reconcile persisted state, resuming the clock if it was left
	// running. Must happen after wiring, before serving.
	sessionApp.LoadSession()

	// Roster: independent of the session engine.
	rosterRepo := roster.NewRepository(db)
	rosterApp := roster.NewApp(rosterRepo)
	rosterService := roster.NewService(rosterApp)

	matchService := matchapi.NewService(sessionApp, cfg.Share.URLTemplate)

	return &Services{
		Session:   sessionApp,
		Gateway:   connectionManager,
		WSHandler: wsHandler,
		MatchAPI:  matchService,
		Roster:    rosterService,
		Publisher: publisher,
	}, nil
}

func setupPublisher(ctx context.Context, cfg *Config) (events.Publisher, error) {
	if !cfg.NATS.Enabled {
		return events.NopPublisher{}, nil
	}

	jsCfg := events.DefaultJetStreamConfig()
	jsCfg.URL = cfg.NATS.URL
	jsCfg.StreamName = cfg.NATS.StreamName
	jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix

	publisher, err := events.NewJetStreamPublisher(ctx, jsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up event publisher: %w", err)
	}
	return publisher, nil
}
