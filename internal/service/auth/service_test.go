package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository/mocks"
	pkgauth "github.com/oakfield/care-api/pkg/auth"
	apperrors "github.com/oakfield/care-api/pkg/errors"
	"github.com/oakfield/care-api/pkg/security"
)

type sentMail struct {
	to      string
	subject string
}

type fakeEmail struct {
	sent []sentMail
}

func (f *fakeEmail) SendFamilyInvite(ctx context.Context, to, patientName, tempPassword string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: "invite"})
	return nil
}

func (f *fakeEmail) SendWelcome(ctx context.Context, to, name string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: "welcome"})
	return nil
}

type fixture struct {
	svc      *Service
	users    *mocks.UserRepository
	patients *mocks.PatientRepository
	mail     *fakeEmail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := mocks.NewUserRepository()
	patients := mocks.NewPatientRepository()
	mail := &fakeEmail{}

	svc := NewService(
		users,
		patients,
		security.NewBcryptHasher(4),
		pkgauth.NewJWTService("test-secret", 1),
		mail,
		1,
		zerolog.Nop(),
	)
	return &fixture{svc: svc, users: users, patients: patients, mail: mail}
}

func (f *fixture) registerCarer(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.svc.RegisterCarer(context.Background(), &model.RegisterRequest{
		Email:     email,
		Password:  "letmein-please",
		FirstName: "Priya",
		LastName:  "Patel",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCarer(t *testing.T) {
	f := newFixture(t)

	user := f.registerCarer(t, "Priya.Patel@Example.com")
	assert.Equal(t, model.RoleCarer, user.Role)
	assert.Equal(t, "priya.patel@example.com", user.Email)
	assert.NotEqual(t, "letmein-please", user.PasswordHash)
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "welcome", f.mail.sent[0].subject)

	_, err := f.svc.RegisterCarer(context.Background(), &model.RegisterRequest{
		Email:     "priya.patel@example.com",
		Password:  "letmein-please",
		FirstName: "Priya",
		LastName:  "Patel",
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterCarerRejectsShortPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterCarer(context.Background(), &model.RegisterRequest{
		Email:     "priya@example.com",
		Password:  "short",
		FirstName: "Priya",
		LastName:  "Patel",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerCarer(t, "priya@example.com")

	resp, err := f.svc.Login(ctx, &model.LoginRequest{Email: "priya@example.com", Password: "letmein-please"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, model.RoleCarer, resp.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// Wrong password and unknown email fail identically.
	_, err = f.svc.Login(ctx, &model.LoginRequest{Email: "priya@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = f.svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "letmein-please"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestInviteFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: "P001",
		FirstName:     "Margaret",
		LastName:      "Hughes",
	}
	require.NoError(t, f.patients.Create(ctx, patient))

	user, err := f.svc.InviteFamily(ctx, &model.InviteFamilyRequest{
		Email:     "Sarah.Hughes@Example.com",
		PatientID: patient.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleFamily, user.Role)
	assert.Equal(t, "sarah.hughes@example.com", user.Email)

	linked, err := f.users.HasFamilyLink(ctx, user.ID, patient.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "invite", f.mail.sent[0].subject)
	assert.Equal(t, "sarah.hughes@example.com", f.mail.sent[0].to)

	// Re-inviting the same address only adds the link, no new account
	// and no second invite email.
	again, err := f.svc.InviteFamily(ctx, &model.InviteFamilyRequest{
		Email:     "sarah.hughes@example.com",
		PatientID: patient.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, f.mail.sent, 1)
}

func TestInviteFamilyErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.InviteFamily(ctx, &model.InviteFamilyRequest{
		Email:     "sarah@example.com",
		PatientID: uuid.New(),
	})
	assert.True(t, apperrors.IsNotFound(err))

	patient := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: "P001",
		FirstName:     "Margaret",
		LastName:      "Hughes",
	}
	require.NoError(t, f.patients.Create(ctx, patient))
	f.registerCarer(t, "carer@example.com")

	_, err = f.svc.InviteFamily(ctx, &model.InviteFamilyRequest{
		Email:     "carer@example.com",
		PatientID: patient.ID,
	})
	assert.True(t, apperrors.IsConflict(err))
}
