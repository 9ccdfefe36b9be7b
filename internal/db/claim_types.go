package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tentaclefi/tentacle-locker/internal/db/model"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

func (db *Database) claimTypes() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(model.ClaimTypesCollection)
}

func (db *Database) SaveClaimTypeConfig(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	cfg types.ClaimTypeConfig,
	defaultHelper types.Ref,
) (bool, error) {
	doc := model.NewClaimTypeDocument(claimTypeID, cfg, defaultHelper)

	res, err := db.claimTypes().ReplaceOne(
		ctx,
		bson.M{"_id": doc.ClaimTypeID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (db *Database) GetClaimTypeConfig(
	ctx context.Context, claimTypeID types.ClaimTypeID,
) (types.ClaimTypeConfig, types.Ref, error) {
	var doc model.ClaimTypeDocument
	err := db.claimTypes().FindOne(ctx, bson.M{"_id": int32(claimTypeID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Unconfigured claim types read as the zero-value sentinel.
			return types.ClaimTypeConfig{}, "", nil
		}
		return types.ClaimTypeConfig{}, "", err
	}
	return doc.Config(), types.Ref(doc.DefaultHelper), nil
}
