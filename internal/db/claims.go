package db

import (
	"errors"
	"fmt"

	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tentaclefi/tentacle-locker/internal/db/model"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// bitLocation maps a claim-type id onto its word field, the bit position
// within that word, and the corresponding int64 mask.
func bitLocation(claimTypeID types.ClaimTypeID) (field string, bitPos int64, mask int64) {
	word := int(claimTypeID) / 64
	bitPos = int64(claimTypeID) % 64
	// Bit 63 makes the mask negative; the pattern is what matters.
	mask = int64(uint64(1) << uint(bitPos))
	return model.WordFields[word], bitPos, mask
}

func (db *Database) claims() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(model.OutstandingClaimsCollection)
}

func (db *Database) GetOutstandingClaims(
	ctx context.Context, positionID types.PositionID,
) (types.ClaimBitmap, error) {
	var doc model.OutstandingClaimsDocument
	err := db.claims().FindOne(ctx, bson.M{"_id": string(positionID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Never-written positions read as the empty bitmap.
			return types.ClaimBitmap{}, nil
		}
		return types.ClaimBitmap{}, err
	}
	return doc.Bitmap(), nil
}

func (db *Database) MarkOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	field, bitPos, mask := bitLocation(claimTypeID)

	// Conditional transition: only a clear flag may be set. Bit-position
	// queries avoid signedness issues with masks touching bit 63.
	filter := bson.M{
		"_id": string(positionID),
		field: bson.M{"$bitsAllClear": bson.A{bitPos}},
	}
	update := bson.M{
		"$bit": bson.M{field: bson.M{"or": mask}},
	}

	res, err := db.claims().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// No match: the document may not exist yet. Insert it with the flag set;
	// a duplicate key means the document landed concurrently (or the flag is
	// already set), so the conditional update is retried against it rather
	// than inferring a conflict from mere document existence.
	bitmap := types.ClaimBitmap{}.Set(claimTypeID)
	_, err = db.claims().InsertOne(ctx, model.NewOutstandingClaimsDocument(positionID, bitmap))
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	// Documents are never deleted, so the retry settles the question: no
	// match now means the flag is genuinely set.
	res, err = db.claims().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &StateConflictError{
			Key:     string(positionID),
			Message: fmt.Sprintf("claim type %d already outstanding for position %s", claimTypeID, positionID),
		}
	}
	return nil
}

func (db *Database) ClearOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	field, bitPos, mask := bitLocation(claimTypeID)

	// Conditional transition: only a set flag may be cleared.
	filter := bson.M{
		"_id": string(positionID),
		field: bson.M{"$bitsAllSet": bson.A{bitPos}},
	}
	update := bson.M{
		"$bit": bson.M{field: bson.M{"and": ^mask}},
	}

	res, err := db.claims().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &StateConflictError{
			Key:     string(positionID),
			Message: fmt.Sprintf("claim type %d not outstanding for position %s", claimTypeID, positionID),
		}
	}
	return nil
}

func (db *Database) CountLockedPositions(ctx context.Context) (int64, error) {
	nonZero := make(bson.A, 0, len(model.WordFields))
	for _, field := range model.WordFields {
		nonZero = append(nonZero, bson.M{field: bson.M{"$ne": int64(0)}})
	}
	return db.claims().CountDocuments(ctx, bson.M{"$or": nonZero})
}
