package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// The password hash and storage public ids are never copied.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		DoctorID:          doctor.DoctorID,
		Name:              doctor.Name,
		Email:             doctor.Email,
		Phone:             doctor.Phone,
		Gender:            doctor.Gender,
		Status:            string(doctor.Status),
		Specialization:    doctor.Specialization,
		Location:          doctor.Location,
		HospitalName:      doctor.HospitalName,
		MedicalLicenseURL: doctor.MedicalLicenseURL,
		LicenseUploadedAt: doctor.LicenseUploadedAt,
		LicenseVerified:   doctor.LicenseVerified,
		LicenseNotes:      doctor.LicenseNotes,
		ProfilePicture:    doctor.ProfilePicture,
		CreatedAt:         doctor.CreatedAt,
		UpdatedAt:         doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// DoctorsToSummaries converts doctors to the public listing shape
func DoctorsToSummaries(doctors []entity.Doctor) []dto.DoctorSummaryResponse {
	summaries := make([]dto.DoctorSummaryResponse, len(doctors))
	for i, doctor := range doctors {
		summaries[i] = dto.DoctorSummaryResponse{
			DoctorID:       doctor.DoctorID,
			Name:           doctor.Name,
			Gender:         doctor.Gender,
			Specialization: doctor.Specialization,
			Location:       doctor.Location,
			HospitalName:   doctor.HospitalName,
			ProfilePicture: doctor.ProfilePicture,
		}
	}
	return summaries
}
