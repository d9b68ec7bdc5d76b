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

type appointmentMongoRepository struct {
	db *mongo.Database
}

func NewAppointmentRepository(db *mongo.Database) domainRepo.AppointmentRepository {
	return &appointmentMongoRepository{db: db}
}

func (r *appointmentMongoRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	now := time.Now()
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = now
	}
	appointment.UpdatedAt = now

	_, err := r.db.Collection(appointmentCollection).InsertOne(ctx, appointment)
	return err
}

func (r *appointmentMongoRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	return decodeOne[entity.Appointment](r.db.Collection(appointmentCollection).FindOne(ctx, bson.M{"_id": id}))
}

func (r *appointmentMongoRepository) FindByIDAndDoctor(ctx context.Context, id, doctorID string) (*entity.Appointment, error) {
	return decodeOne[entity.Appointment](r.db.Collection(appointmentCollection).FindOne(ctx, bson.M{
		"_id":       id,
		"doctor_id": doctorID,
	}))
}

func (r *appointmentMongoRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]entity.Appointment, error) {
	return r.find(ctx, bson.M{"doctor_id": doctorID})
}

func (r *appointmentMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]entity.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *appointmentMongoRepository) find(ctx context.Context, query bson.M) ([]entity.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(appointmentCollection).Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []entity.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentMongoRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	appointment.UpdatedAt = time.Now()
	_, err := r.db.Collection(appointmentCollection).ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment)
	return err
}
