package dto

type AdminDashboardResponse struct {
	PendingDoctors  []DoctorResponse `json:"pending_doctors"`
	ApprovedDoctors []DoctorResponse `json:"approved_doctors"`
	ApprovedCount   int64            `json:"approved_count"`
	RejectedCount   int64            `json:"rejected_count"`
	TotalCount      int64            `json:"total_count"`
}
