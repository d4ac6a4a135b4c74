package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockAuthRepo struct {
	accountByEmail   *models.Account
	accountByID      *models.Account
	emailTaken       bool
	findByEmailErr   error
	findByIDErr      error
	createErr        error
	refreshTokens    map[string]*models.RefreshToken
	createRefreshErr error
	auditLogs        []*models.AuditLog
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.accountByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.accountByID != nil {
		return m.accountByID, nil
	}
	return m.accountByEmail, nil
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, account *models.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	account.ID = "acc-1"
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.createRefreshErr != nil {
		return m.createRefreshErr
	}
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) RevokeAccountRefreshTokens(ctx context.Context, accountID string) error {
	for _, token := range m.refreshTokens {
		if token.AccountID == accountID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "school-api",
	})
}

func TestAuthServiceRegisterSuccess(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "admin@example.com",
		Password:  "password",
		FirstName: "Ada",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", info.ID)
	assert.Equal(t, models.RoleAdmin, info.Role)
	assert.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionRegister, repo.auditLogs[0].Action)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{emailTaken: true}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "admin@example.com",
		Password:  "password",
		FirstName: "Ada",
		Role:      models.RoleAdmin,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{accountByEmail: &models.Account{ID: "acc-1", Email: "user@example.com", PasswordHash: string(password), Active: true, Role: models.RoleManager}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.NotEmpty(t, repo.refreshTokens)
	assert.Len(t, repo.auditLogs, 1)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{accountByEmail: &models.Account{ID: "acc-1", Email: "user@example.com", PasswordHash: string(password), Active: true}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{accountByEmail: &models.Account{ID: "acc-1", Email: "user@example.com", PasswordHash: string(password), Active: false}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceLogoutMissingToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})

	err := svc.Logout(context.Background(), models.LogoutRequest{}, "acc-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrMissingToken.Code, appErr.Code)
}

func TestAuthServiceLogoutUnknownToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{}})

	err := svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "nope"}, "acc-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestAuthServiceLogoutRevokedToken(t *testing.T) {
	repo := &mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{
		"token": {ID: "rt-1", AccountID: "acc-1", Token: "token", Revoked: true},
	}}
	svc := newAuthService(repo)

	err := svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "token"}, "acc-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestAuthServiceLogoutForeignToken(t *testing.T) {
	repo := &mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{
		"token": {ID: "rt-1", AccountID: "acc-2", Token: "token", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthService(repo)

	err := svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "token"}, "acc-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceLogoutSuccess(t *testing.T) {
	repo := &mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{
		"token": {ID: "rt-1", AccountID: "acc-1", Token: "token", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthService(repo)

	err := svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "token"}, "acc-1")
	require.NoError(t, err)
	assert.True(t, repo.refreshTokens["token"].Revoked)
	assert.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogout, repo.auditLogs[0].Action)
}

func TestAuthServiceRefreshTokenRotation(t *testing.T) {
	account := &models.Account{ID: "acc-1", Email: "user@example.com", Active: true, Role: models.RoleAdmin}
	repo := &mockAuthRepo{
		accountByID: account,
		refreshTokens: map[string]*models.RefreshToken{
			"token": {ID: "rt-1", AccountID: account.ID, Token: "token", ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	svc := newAuthService(repo)

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "token"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEqual(t, "token", res.RefreshToken)
	assert.True(t, repo.refreshTokens["token"].Revoked)
}

func TestAuthServiceRefreshTokenExpired(t *testing.T) {
	repo := &mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{
		"token": {ID: "rt-1", AccountID: "acc-1", Token: "token", ExpiresAt: time.Now().Add(-time.Hour)},
	}}
	svc := newAuthService(repo)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "token"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})
	account := &models.Account{ID: "acc-1", Email: "user@example.com", Role: models.RoleManager}

	token, err := svc.generateAccessToken(account)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestAuthServiceValidateTokenBadSignature(t *testing.T) {
	issuer := newAuthService(&mockAuthRepo{})
	token, err := issuer.generateAccessToken(&models.Account{ID: "acc-1"})
	require.NoError(t, err)

	verifier := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), AuthConfig{AccessTokenSecret: "other", AccessTokenExpiry: time.Hour, RefreshTokenExpiry: time.Hour})
	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}
