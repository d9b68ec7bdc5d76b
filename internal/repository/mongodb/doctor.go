package mongodb

import (
	"context"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type doctorMongoRepository struct {
	db *mongo.Database
}

func NewDoctorRepository(db *mongo.Database) domainRepo.DoctorRepository {
	return &doctorMongoRepository{db: db}
}

func (r *doctorMongoRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	now := time.Now()
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now

	_, err := r.db.Collection(doctorCollection).InsertOne(ctx, doctor)
	return translateError(err)
}

func (r *doctorMongoRepository) FindByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	return decodeOne[entity.Doctor](r.db.Collection(doctorCollection).FindOne(ctx, bson.M{"email": email}))
}

func (r *doctorMongoRepository) FindByDoctorID(ctx context.Context, doctorID string) (*entity.Doctor, error) {
	return decodeOne[entity.Doctor](r.db.Collection(doctorCollection).FindOne(ctx, bson.M{"doctor_id": doctorID}))
}

func (r *doctorMongoRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(doctorCollection).Find(ctx, doctorQuery(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	doctors := []entity.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorMongoRepository) Count(ctx context.Context, filter entity.DoctorFilter) (int64, error) {
	return r.db.Collection(doctorCollection).CountDocuments(ctx, doctorQuery(filter))
}

func (r *doctorMongoRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	doctor.UpdatedAt = time.Now()
	_, err := r.db.Collection(doctorCollection).ReplaceOne(ctx, bson.M{"_id": doctor.ID}, doctor)
	return translateError(err)
}

func (r *doctorMongoRepository) DeleteByDoctorID(ctx context.Context, doctorID string) error {
	_, err := r.db.Collection(doctorCollection).DeleteOne(ctx, bson.M{"doctor_id": doctorID})
	return err
}

func doctorQuery(filter entity.DoctorFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.Specialization != "" {
		query["specialization"] = filter.Specialization
	}
	return query
}
