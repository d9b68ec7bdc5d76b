package mongodb

import (
	"context"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type oneTimeCodeMongoRepository struct {
	db *mongo.Database
}

func NewOneTimeCodeRepository(db *mongo.Database) domainRepo.OneTimeCodeRepository {
	return &oneTimeCodeMongoRepository{db: db}
}

func (r *oneTimeCodeMongoRepository) Create(ctx context.Context, code *entity.OneTimeCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	_, err := r.db.Collection(oneTimeCodeCollection).InsertOne(ctx, code)
	return err
}

func (r *oneTimeCodeMongoRepository) FindUnverified(ctx context.Context, email, code string) (*entity.OneTimeCode, error) {
	return decodeOne[entity.OneTimeCode](r.db.Collection(oneTimeCodeCollection).FindOne(ctx, bson.M{
		"email":    email,
		"code":     code,
		"verified": false,
	}))
}

func (r *oneTimeCodeMongoRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	result, err := r.db.Collection(oneTimeCodeCollection).UpdateOne(ctx,
		bson.M{"_id": id, "verified": false},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (r *oneTimeCodeMongoRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.Collection(oneTimeCodeCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *oneTimeCodeMongoRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.Collection(oneTimeCodeCollection).DeleteMany(ctx, bson.M{"email": email})
	return err
}
