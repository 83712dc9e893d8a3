package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/mailer"
	"github.com/RoveStack/travel_service/internal/repository"
)

const (
	testSecret  = "service-test-secret"
	testBaseURL = "http://localhost:3000/"
)

// mockUserRepo implements repository.UserRepository. Each method field can be
// overridden per test case; unset methods fail the test when called.
type mockUserRepo struct {
	t                 *testing.T
	createUserFn      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	findUserByIDFn    func(ctx context.Context, userID uint) (*domain.User, error)
	updateUserByIDFn  func(ctx context.Context, userID uint, fields map[string]interface{}) (*domain.User, error)
	updatePasswordFn  func(ctx context.Context, email, passwordHash string) (int64, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.createUserFn == nil {
		m.t.Fatal("unexpected CreateUser call")
	}
	return m.createUserFn(ctx, user)
}

func (m *mockUserRepo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findUserByEmailFn == nil {
		m.t.Fatal("unexpected FindUserByEmail call")
	}
	return m.findUserByEmailFn(ctx, email)
}

func (m *mockUserRepo) FindUserByID(ctx context.Context, userID uint) (*domain.User, error) {
	if m.findUserByIDFn == nil {
		m.t.Fatal("unexpected FindUserByID call")
	}
	return m.findUserByIDFn(ctx, userID)
}

func (m *mockUserRepo) UpdateUserByID(ctx context.Context, userID uint, fields map[string]interface{}) (*domain.User, error) {
	if m.updateUserByIDFn == nil {
		m.t.Fatal("unexpected UpdateUserByID call")
	}
	return m.updateUserByIDFn(ctx, userID, fields)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error) {
	if m.updatePasswordFn == nil {
		m.t.Fatal("unexpected UpdatePassword call")
	}
	return m.updatePasswordFn(ctx, email, passwordHash)
}

// mockMailer records every send and answers with canned results.
type mockMailer struct {
	verifications []mailer.VerificationMail
	resets        []mailer.ResetMail
	verifyResult  bool
	resetResult   bool
}

func (m *mockMailer) SendVerificationMail(_ context.Context, mail mailer.VerificationMail) bool {
	m.verifications = append(m.verifications, mail)
	return m.verifyResult
}

func (m *mockMailer) SendResetMail(_ context.Context, mail mailer.ResetMail) bool {
	m.resets = append(m.resets, mail)
	return m.resetResult
}

func testAuthHelper() helper.Auth {
	return helper.SetupAuth(testSecret, time.Hour)
}

func newTestAuthService(repo *mockUserRepo, mail *mockMailer) AuthService {
	return NewAuthService(repo, mail, testAuthHelper(), testBaseURL)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := testAuthHelper().HashPassword(plain)
	require.NoError(t, err)
	return hashed
}

func strPtr(s string) *string { return &s }

// =========================
// SignUp
// =========================

func TestSignUp_Success(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.createUserFn = func(_ context.Context, user *domain.User) (*domain.User, error) {
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.NotEqual(t, "password1", user.PasswordHash)
		assert.NoError(t, testAuthHelper().VerifyPassword("password1", user.PasswordHash))

		user.ID = 7
		return user, nil
	}
	mail := &mockMailer{verifyResult: true}

	svc := newTestAuthService(repo, mail)
	resp, err := svc.SignUp(context.Background(), dto.RegisterRequest{
		Email:     "Alice@Example.COM",
		Password:  "password1",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.True(t, resp.EmailSent)
	assert.Equal(t, uint(7), resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	require.NotEmpty(t, resp.User.Token)

	claims, err := testAuthHelper().VerifyToken(resp.User.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)

	require.Len(t, mail.verifications, 1)
	assert.Equal(t, uint(7), mail.verifications[0].UserID)
	assert.Equal(t, "alice@example.com", mail.verifications[0].Email)
	assert.Equal(t, "Alice", mail.verifications[0].FirstName)
}

func TestSignUp_MailFailureIsNotFatal(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.createUserFn = func(_ context.Context, user *domain.User) (*domain.User, error) {
		user.ID = 8
		return user, nil
	}
	mail := &mockMailer{verifyResult: false}

	resp, err := newTestAuthService(repo, mail).SignUp(context.Background(), dto.RegisterRequest{
		Email:     "bob@example.com",
		Password:  "password1",
		FirstName: "Bob",
	})
	require.NoError(t, err)
	assert.False(t, resp.EmailSent)
	assert.NotEmpty(t, resp.User.Token)
}

func TestSignUp_Validation(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{})

	_, err := svc.SignUp(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "password1"})
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Please provide valid inputs", apiErr.Message)

	_, err = svc.SignUp(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "short", FirstName: "A"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "password must be at least 6 characters", apiErr.Message)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.createUserFn = func(context.Context, *domain.User) (*domain.User, error) {
		return nil, repository.ErrDuplicateEmail
	}

	_, err := newTestAuthService(repo, &mockMailer{}).SignUp(context.Background(), dto.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "password1",
		FirstName: "Taken",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

// =========================
// Login
// =========================

func TestLogin_Success(t *testing.T) {
	hashed := mustHash(t, "password1")
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		assert.Equal(t, "alice@example.com", email)
		return &domain.User{ID: 7, Email: email, PasswordHash: hashed, Role: domain.RoleUser}, nil
	}

	user, err := newTestAuthService(repo, &mockMailer{}).Login(context.Background(), dto.UserLogin{
		Email:    "Alice@Example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, user.Token)
}

func TestLogin_UnknownEmailAndWrongPassword(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(context.Context, string) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}
	svc := newTestAuthService(repo, &mockMailer{})

	_, err := svc.Login(context.Background(), dto.UserLogin{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// same failure for a bad password, the caller cannot tell the cases apart
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 1, Email: email, PasswordHash: mustHash(t, "correct-pass")}, nil
	}
	_, err = svc.Login(context.Background(), dto.UserLogin{Email: "alice@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_EmptyInputs(t *testing.T) {
	_, err := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{}).Login(context.Background(), dto.UserLogin{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// =========================
// SocialLogin
// =========================

func TestSocialLogin_RequiresVerifiedEmail(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{})

	_, err := svc.SocialLogin(context.Background(), dto.SocialIdentity{
		Provider: "google",
		Email:    "alice@example.com",
		Verified: false,
	})
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSocialLogin_NoAccount(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(context.Context, string) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}

	_, err := newTestAuthService(repo, &mockMailer{}).SocialLogin(context.Background(), dto.SocialIdentity{
		Provider: "google",
		Subject:  "g-123",
		Email:    "new@example.com",
		Verified: true,
	})
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "You need to signup to use this feature", apiErr.Message)
}

func TestSocialLogin_LinksSubjectOnFirstLogin(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 7, Email: email, Role: domain.RoleUser}, nil
	}
	linked := false
	repo.updateUserByIDFn = func(_ context.Context, userID uint, fields map[string]interface{}) (*domain.User, error) {
		linked = true
		assert.Equal(t, uint(7), userID)
		assert.Equal(t, "g-123", fields["google_sub"])
		return &domain.User{ID: 7, Email: "alice@example.com", Role: domain.RoleUser, GoogleSub: strPtr("g-123")}, nil
	}

	user, err := newTestAuthService(repo, &mockMailer{}).SocialLogin(context.Background(), dto.SocialIdentity{
		Provider: "google",
		Subject:  "g-123",
		Email:    "alice@example.com",
		Verified: true,
	})
	require.NoError(t, err)
	assert.True(t, linked)
	assert.NotEmpty(t, user.Token)
}

func TestSocialLogin_RejectsForeignSubject(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 7, Email: email, GoogleSub: strPtr("g-original")}, nil
	}

	_, err := newTestAuthService(repo, &mockMailer{}).SocialLogin(context.Background(), dto.SocialIdentity{
		Provider: "google",
		Subject:  "g-intruder",
		Email:    "alice@example.com",
		Verified: true,
	})
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

// =========================
// VerifyEmail
// =========================

func TestVerifyEmail_Success(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(helper.TokenClaims{UserID: 7, Email: "alice@example.com"}, 0)
	require.NoError(t, err)

	repo := &mockUserRepo{t: t}
	repo.updateUserByIDFn = func(_ context.Context, userID uint, fields map[string]interface{}) (*domain.User, error) {
		assert.Equal(t, uint(7), userID)
		assert.Equal(t, true, fields["is_verified"])
		return &domain.User{ID: 7, IsVerified: true}, nil
	}

	assert.NoError(t, newTestAuthService(repo, &mockMailer{}).VerifyEmail(context.Background(), token))
}

func TestVerifyEmail_BadTokens(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{})

	err := svc.VerifyEmail(context.Background(), "garbage")
	assert.ErrorIs(t, err, helper.ErrTokenInvalid)

	expired, genErr := helper.SetupAuth(testSecret, -time.Minute).
		GenerateToken(helper.TokenClaims{UserID: 7, Email: "alice@example.com"}, 0)
	require.NoError(t, genErr)
	err = svc.VerifyEmail(context.Background(), expired)
	assert.ErrorIs(t, err, helper.ErrTokenExpired)
}

func TestVerifyEmail_UserGone(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(helper.TokenClaims{UserID: 9, Email: "gone@example.com"}, 0)
	require.NoError(t, err)

	repo := &mockUserRepo{t: t}
	repo.updateUserByIDFn = func(context.Context, uint, map[string]interface{}) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}

	err = newTestAuthService(repo, &mockMailer{}).VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// =========================
// Password reset handshake
// =========================

func TestSendResetPasswordEmail_Success(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 7, Email: email, FirstName: "Alice"}, nil
	}
	mail := &mockMailer{resetResult: true}

	err := newTestAuthService(repo, mail).SendResetPasswordEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.Len(t, mail.resets, 1)
	sent := mail.resets[0]
	assert.Equal(t, "alice@example.com", sent.Email)
	assert.Equal(t, "Alice", sent.FirstName)

	const linkPrefix = "http://localhost:3000/api/user/reset-password?token="
	require.True(t, strings.HasPrefix(sent.ResetLink, linkPrefix), "unexpected link %q", sent.ResetLink)

	claims, err := testAuthHelper().VerifyToken(strings.TrimPrefix(sent.ResetLink, linkPrefix))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(helper.ResetTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestSendResetPasswordEmail_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(context.Context, string) (*domain.User, error) {
		return nil, repository.ErrNotFound
	}

	err := newTestAuthService(repo, &mockMailer{}).SendResetPasswordEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSendResetPasswordEmail_MailFailure(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 7, Email: email}, nil
	}

	err := newTestAuthService(repo, &mockMailer{resetResult: false}).
		SendResetPasswordEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, ErrMailNotSent)
}

func TestVerifyPasswordResetLink(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(
		helper.TokenClaims{UserID: 7, Email: "alice@example.com"}, helper.ResetTokenTTL)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{})

	resp, err := svc.VerifyPasswordResetLink(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)
	expected := fmt.Sprintf("http://localhost:3000/api/user/reset-password/alice@example.com?token=%s", token)
	assert.Equal(t, expected, resp.ResetURL)

	_, err = svc.VerifyPasswordResetLink(context.Background(), "garbage")
	assert.ErrorIs(t, err, helper.ErrTokenInvalid)
}

func TestResetPassword_Success(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(
		helper.TokenClaims{UserID: 7, Email: "Alice@Example.com"}, helper.ResetTokenTTL)
	require.NoError(t, err)

	repo := &mockUserRepo{t: t}
	repo.updatePasswordFn = func(_ context.Context, email, passwordHash string) (int64, error) {
		assert.Equal(t, "alice@example.com", email)
		assert.NoError(t, testAuthHelper().VerifyPassword("newpassword", passwordHash))
		return 1, nil
	}

	// token subject and path email differ only in case
	err = newTestAuthService(repo, &mockMailer{}).ResetPassword(context.Background(), "alice@example.com",
		dto.ResetPasswordRequest{Token: token, Password: "newpassword"})
	assert.NoError(t, err)
}

func TestResetPassword_EmailMismatch(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(
		helper.TokenClaims{UserID: 7, Email: "alice@example.com"}, helper.ResetTokenTTL)
	require.NoError(t, err)

	err = newTestAuthService(&mockUserRepo{t: t}, &mockMailer{}).ResetPassword(context.Background(), "mallory@example.com",
		dto.ResetPasswordRequest{Token: token, Password: "newpassword"})
	assert.ErrorIs(t, err, helper.ErrTokenInvalid)
}

func TestResetPassword_AccountVanished(t *testing.T) {
	token, err := testAuthHelper().GenerateToken(
		helper.TokenClaims{UserID: 7, Email: "alice@example.com"}, helper.ResetTokenTTL)
	require.NoError(t, err)

	repo := &mockUserRepo{t: t}
	repo.updatePasswordFn = func(context.Context, string, string) (int64, error) {
		return 0, nil
	}

	err = newTestAuthService(repo, &mockMailer{}).ResetPassword(context.Background(), "alice@example.com",
		dto.ResetPasswordRequest{Token: token, Password: "newpassword"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	err := newTestAuthService(&mockUserRepo{t: t}, &mockMailer{}).ResetPassword(context.Background(), "alice@example.com",
		dto.ResetPasswordRequest{Token: "irrelevant", Password: "short"})
	var apiErr *helper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "password must be at least 6 characters", apiErr.Message)
}

// =========================
// CurrentUser
// =========================

func TestCurrentUser(t *testing.T) {
	repo := &mockUserRepo{t: t}
	repo.findUserByIDFn = func(_ context.Context, userID uint) (*domain.User, error) {
		if userID != 7 {
			return nil, repository.ErrNotFound
		}
		return &domain.User{ID: 7, Email: "alice@example.com", Role: domain.RoleUser}, nil
	}
	svc := newTestAuthService(repo, &mockMailer{})

	user, err := svc.CurrentUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Token)

	_, err = svc.CurrentUser(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
