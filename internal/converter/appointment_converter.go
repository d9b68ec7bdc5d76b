package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                  appointment.ID,
		DoctorID:            appointment.DoctorID,
		PatientID:           appointment.PatientID,
		PatientName:         appointment.PatientName,
		PatientEmail:        appointment.PatientEmail,
		PatientPhone:        appointment.PatientPhone,
		PatientAge:          appointment.PatientAge,
		PatientGender:       appointment.PatientGender,
		PatientAddress:      appointment.PatientAddress,
		UrgencyLevel:        string(appointment.UrgencyLevel),
		Description:         appointment.Description,
		Status:              string(appointment.Status),
		TimeSlot:            appointment.TimeSlot,
		AppointmentDate:     appointment.AppointmentDate,
		ConfirmationMessage: appointment.ConfirmationMessage,
		CreatedAt:           appointment.CreatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
