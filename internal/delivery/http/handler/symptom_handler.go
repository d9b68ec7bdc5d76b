package handler

import (
	"encoding/json"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"
)

type SymptomHandler struct {
	symptomUsecase usecase.SymptomUsecase
	validator      *validator.CustomValidator
}

func NewSymptomHandler(symptomUsecase usecase.SymptomUsecase, validator *validator.CustomValidator) *SymptomHandler {
	return &SymptomHandler{
		symptomUsecase: symptomUsecase,
		validator:      validator,
	}
}

func (h *SymptomHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SymptomSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.symptomUsecase.Search(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrEmptyQuery:
			response.BadRequest(w, err.Error())
		case usecase.ErrUpstreamUnavailable:
			response.BadGateway(w, "The symptom checker is unavailable, please try again later")
		default:
			response.InternalServerError(w, "Failed to process your question")
		}
		return
	}

	response.Success(w, http.StatusOK, "Response generated", result)
}
