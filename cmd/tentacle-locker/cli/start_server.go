package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tentaclefi/tentacle-locker/internal/api"
	"github.com/tentaclefi/tentacle-locker/internal/clients/authority"
	"github.com/tentaclefi/tentacle-locker/internal/clients/derivative"
	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/db"
	dbmodel "github.com/tentaclefi/tentacle-locker/internal/db/model"
	"github.com/tentaclefi/tentacle-locker/internal/locker"
	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/observability/tracing"
	"github.com/tentaclefi/tentacle-locker/internal/queue"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the tentacle locker server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up locker db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	var authorityClient authority.AuthorityInterface
	authorityClient = authority.NewClient(&cfg.Authority)
	authorityClient = authority.NewClientWithMetrics(authorityClient)

	derivativeClient := derivative.NewClientWithMetrics(derivative.NewClient(&cfg.Derivative))

	queueManager, err := queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating queue manager")
	}
	defer queueManager.Shutdown()

	service := locker.NewService(cfg, dbClient, authorityClient, derivativeClient, derivativeClient)

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	service.StartLockedPositionsPoller(ctx)

	go func() {
		if err := queueManager.Start(ctx, service); err != nil {
			log.Error().Err(err).Msg("hook queue consumer stopped")
		}
	}()

	apiServer := api.New(&cfg.Server, service, dbClient)
	return apiServer.Start()
}
