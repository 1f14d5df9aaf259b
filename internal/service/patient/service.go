package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type PatientService interface {
	Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a patient with nested emergency contacts. A
// duplicate patient number surfaces as a Conflict from the store's
// unique constraint.
func (s *Service) Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient, err := s.buildPatient(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if apperrors.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	if filters != nil && filters.Stage != "" {
		stage, ok := model.NormalizeStage(string(filters.Stage))
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("unknown dementia stage %q", filters.Stage))
		}
		return s.repo.FilterByStage(ctx, stage)
	}
	if filters != nil && filters.SearchTerm != "" {
		return s.repo.Search(ctx, filters.SearchTerm)
	}
	return s.repo.List(ctx)
}

func (s *Service) buildPatient(req *model.CreatePatientRequest) (*model.Patient, error) {
	if strings.TrimSpace(req.PatientNumber) == "" {
		return nil, apperrors.Validation("patient number is required")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, apperrors.Validation("first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, apperrors.Validation("last name is required")
	}

	stage := model.DementiaStage("")
	if req.DementiaStage != "" {
		normalized, ok := model.NormalizeStage(req.DementiaStage)
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("unknown dementia stage %q", req.DementiaStage))
		}
		stage = normalized
	}

	residence := req.ResidenceType
	if residence == "" {
		residence = "Care Home"
	}

	patient := &model.Patient{
		Base:                model.Base{ID: uuid.New()},
		PatientNumber:       strings.TrimSpace(req.PatientNumber),
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		DateOfBirth:         req.DateOfBirth,
		Gender:              req.Gender,
		RoomNumber:          req.RoomNumber,
		DementiaType:        req.DementiaType,
		DementiaStage:       stage,
		ResidenceType:       residence,
		Address:             req.Address,
		GPName:              req.GPName,
		GPPhone:             req.GPPhone,
		GPPractice:          req.GPPractice,
		Allergies:           req.Allergies,
		MedicalConditions:   req.MedicalConditions,
		Mobility:            req.Mobility,
		DietaryRequirements: req.DietaryRequirements,
		CareNotes:           req.CareNotes,
	}

	primarySeen := false
	for _, c := range req.EmergencyContacts {
		if strings.TrimSpace(c.Name) == "" {
			return nil, apperrors.Validation("emergency contact name is required")
		}
		isPrimary := c.IsPrimary && !primarySeen
		if isPrimary {
			primarySeen = true
		}
		patient.EmergencyContacts = append(patient.EmergencyContacts, &model.EmergencyContact{
			ID:           uuid.New(),
			Name:         strings.TrimSpace(c.Name),
			Relationship: c.Relationship,
			Phone:        c.Phone,
			Email:        c.Email,
			IsPrimary:    isPrimary,
		})
	}

	return patient, nil
}
