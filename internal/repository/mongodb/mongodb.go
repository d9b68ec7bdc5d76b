// Package mongodb implements the domain repositories on a MongoDB database.
package mongodb

import (
	"context"
	"errors"

	domainRepo "mediconnect/internal/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	doctorCollection      = "doctors"
	patientCollection     = "patients"
	appointmentCollection = "appointments"
	oneTimeCodeCollection = "one_time_codes"
	auditLogCollection    = "audit_logs"
)

// EnsureIndexes creates the unique and lookup indexes every collection relies on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		doctorCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "doctor_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "location", Value: 1}, {Key: "specialization", Value: 1}}},
		},
		patientCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		appointmentCollection: {
			{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		oneTimeCodeCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "code", Value: 1}}},
		},
		auditLogCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func translateError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domainRepo.ErrDuplicateKey
	}
	return err
}

// decodeOne decodes a FindOne result, mapping no documents to (nil, nil)
func decodeOne[T any](result *mongo.SingleResult) (*T, error) {
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	var out T
	if err := result.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
