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

type patientMongoRepository struct {
	db *mongo.Database
}

func NewPatientRepository(db *mongo.Database) domainRepo.PatientRepository {
	return &patientMongoRepository{db: db}
}

func (r *patientMongoRepository) Create(ctx context.Context, patient *entity.Patient) error {
	now := time.Now()
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = now
	}
	patient.UpdatedAt = now

	_, err := r.db.Collection(patientCollection).InsertOne(ctx, patient)
	return translateError(err)
}

func (r *patientMongoRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	return decodeOne[entity.Patient](r.db.Collection(patientCollection).FindOne(ctx, bson.M{"_id": id}))
}

func (r *patientMongoRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	return decodeOne[entity.Patient](r.db.Collection(patientCollection).FindOne(ctx, bson.M{"email": email}))
}

func (r *patientMongoRepository) FindByPhone(ctx context.Context, phone string) (*entity.Patient, error) {
	return decodeOne[entity.Patient](r.db.Collection(patientCollection).FindOne(ctx, bson.M{"phone": phone}))
}

func (r *patientMongoRepository) Update(ctx context.Context, patient *entity.Patient) error {
	patient.UpdatedAt = time.Now()
	_, err := r.db.Collection(patientCollection).ReplaceOne(ctx, bson.M{"_id": patient.ID}, patient)
	return translateError(err)
}
