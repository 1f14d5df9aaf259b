package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oakfield/care-api/internal/email"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	pkgauth "github.com/oakfield/care-api/pkg/auth"
	apperrors "github.com/oakfield/care-api/pkg/errors"
	"github.com/oakfield/care-api/pkg/security"
)

type AuthService interface {
	RegisterCarer(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	InviteFamily(ctx context.Context, req *model.InviteFamilyRequest) (*model.User, error)
}

type Service struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	hasher      security.PasswordHasher
	jwt         pkgauth.JWTService
	email       email.Service
	tokenTTL    int
	logger      zerolog.Logger
}

func NewService(
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	hasher security.PasswordHasher,
	jwt pkgauth.JWTService,
	emailSvc email.Service,
	tokenTTLHours int,
	logger zerolog.Logger,
) *Service {
	if tokenTTLHours <= 0 {
		tokenTTLHours = 24
	}
	return &Service{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		hasher:      hasher,
		jwt:         jwt,
		email:       emailSvc,
		tokenTTL:    tokenTTLHours,
		logger:      logger,
	}
}

func (s *Service) RegisterCarer(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleCarer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendWelcome(ctx, user.Email, user.DisplayName()); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("welcome email not sent")
		}
	}
	return user, nil
}

// Login returns a generic unauthorized error for both unknown email and
// wrong password so the response does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   s.tokenTTL * 3600,
		Role:        user.Role,
	}, nil
}

// InviteFamily creates a family account with a temporary password,
// links it to the patient and emails the invite. Inviting an email that
// already has a family account only adds the link.
func (s *Service) InviteFamily(ctx context.Context, req *model.InviteFamilyRequest) (*model.User, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	inviteEmail := strings.ToLower(strings.TrimSpace(req.Email))
	tempPassword := ""

	user, err := s.userRepo.GetByEmail(ctx, inviteEmail)
	switch {
	case err == nil:
		if user.Role != model.RoleFamily {
			return nil, apperrors.Conflict("email belongs to a carer account")
		}
	case apperrors.IsNotFound(err):
		tempPassword, err = security.GenerateTempPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		hash, err := s.hasher.Hash(tempPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user = &model.User{
			Base:         model.Base{ID: uuid.New()},
			Email:        inviteEmail,
			PasswordHash: hash,
			Role:         model.RoleFamily,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	link := &model.FamilyLink{UserID: user.ID, PatientID: patient.ID}
	if err := s.userRepo.CreateFamilyLink(ctx, link); err != nil {
		return nil, err
	}

	if s.email != nil && tempPassword != "" {
		if err := s.email.SendFamilyInvite(ctx, user.Email, patient.DisplayName(), tempPassword); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("invite email not sent")
		}
	}
	return user, nil
}
