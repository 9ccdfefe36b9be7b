package model

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tentaclefi/tentacle-locker/internal/config"
)

const connectionTimeout = 10 * time.Second

var collections = []string{
	OutstandingClaimsCollection,
	ClaimTypesCollection,
}

// Setup connects to MongoDB and makes sure every collection exists. Both
// collections are keyed by _id only, so no secondary indexes are created.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	database := client.Database(cfg.DbName)
	existing, err := database.ListCollectionNames(ctx, map[string]any{})
	if err != nil {
		return err
	}

	existingSet := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		existingSet[name] = struct{}{}
	}

	for _, name := range collections {
		if _, ok := existingSet[name]; ok {
			continue
		}
		if err := database.CreateCollection(ctx, name); err != nil {
			return err
		}
		log.Info().Str("collection", name).Msg("created collection")
	}

	return client.Disconnect(ctx)
}
