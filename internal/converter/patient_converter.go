package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

// PatientToIdentity converts a Patient to the fields a patient session carries
func PatientToIdentity(patient *entity.Patient) *dto.PatientIdentityResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientIdentityResponse{
		ID:    patient.ID,
		Name:  patient.Name,
		Email: patient.EmailValue(),
	}
}
