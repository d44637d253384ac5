package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/tigraytip/storefront-backend/pkg/auth"
	"github.com/tigraytip/storefront-backend/pkg/auth/session"
	"github.com/tigraytip/storefront-backend/pkg/config"
	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/security"
)

type fakeUserRepo struct {
	createFn         func(ctx context.Context, user *models.User) error
	findByEmailFn    func(ctx context.Context, email string) (models.User, error)
	findByIDFn       func(ctx context.Context, id uuid.UUID) (models.User, error)
	updateNameFn     func(ctx context.Context, id uuid.UUID, name string) (models.User, error)
	updatePasswordFn func(ctx context.Context, id uuid.UUID, passwordHash string) error
	touchFn          func(ctx context.Context, id uuid.UUID, at time.Time) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	user.ID = uuid.New()
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) (models.User, error) {
	if f.updateNameFn != nil {
		return f.updateNameFn(ctx, id, name)
	}
	return models.User{ID: id, Name: name}, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.touchFn != nil {
		return f.touchFn(ctx, id, at)
	}
	return nil
}

type fakeSessions struct {
	generateFn func(ctx context.Context, accessID string) (string, error)
	rotateFn   func(ctx context.Context, oldAccessID, provided string) (string, string, error)
	revokeFn   func(ctx context.Context, accessID string) error
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(ctx, accessID)
	}
	return "refresh-token", nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateFn != nil {
		return f.rotateFn(ctx, oldAccessID, provided)
	}
	return session.NewAccessID(), "rotated-refresh", nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	if f.revokeFn != nil {
		return f.revokeFn(ctx, accessID)
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessions, admin config.AdminConfig) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Sessions: sessions,
		JWT:      testJWTConfig(),
		Password: testPasswordConfig(),
		Admin:    admin,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	var created models.User
	repo := &fakeUserRepo{
		createFn: func(_ context.Context, user *models.User) error {
			user.ID = uuid.New()
			created = *user
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{})

	pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Sara@Example.COM ",
		Password: "long-enough-pass",
		Name:     "Sara T",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Email != "sara@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != enums.RoleCustomer {
		t.Fatalf("expected customer role, got %s", created.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", pair)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("claims user mismatch: %s vs %s", claims.UserID, created.ID)
	}
}

func TestRegisterPromotesAdminEmail(t *testing.T) {
	var created models.User
	repo := &fakeUserRepo{
		createFn: func(_ context.Context, user *models.User) error {
			user.ID = uuid.New()
			created = *user
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{Email: "Admin@Shop.com"})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "admin@shop.com",
		Password: "long-enough-pass",
		Name:     "Owner",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", created.Role)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := &fakeUserRepo{
		createFn: func(context.Context, *models.User) error {
			return &duplicateErr{}
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "sara@example.com",
		Password: "long-enough-pass",
		Name:     "Sara",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type duplicateErr struct{}

func (*duplicateErr) Error() string {
	return `pq: duplicate key value violates unique constraint "idx_users_email"`
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{}, &fakeSessions{}, config.AdminConfig{})
	cases := []RegisterInput{
		{Email: "no-at-sign", Password: "long-enough-pass", Name: "x"},
		{Email: "a@b.com", Password: "short", Name: "x"},
		{Email: "a@b.com", Password: "long-enough-pass", Name: "   "},
	}
	for i, input := range cases {
		_, err := svc.Register(context.Background(), input)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	hash, err := security.HashPassword("correct-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{ID: uuid.New(), Email: "sara@example.com", PasswordHash: hash, Role: enums.RoleCustomer}
	touched := false
	repo := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, email string) (models.User, error) {
			if email != "sara@example.com" {
				t.Fatalf("expected normalized email lookup, got %q", email)
			}
			return user, nil
		},
		touchFn: func(context.Context, uuid.UUID, time.Time) error {
			touched = true
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{})

	pair, err := svc.Login(context.Background(), LoginInput{Email: " SARA@example.com ", Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.User.ID != user.ID || !touched {
		t.Fatalf("unexpected login result %+v touched=%v", pair.User, touched)
	}

	_, err = svc.Login(context.Background(), LoginInput{Email: "sara@example.com", Password: "wrong"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{}, &fakeSessions{}, config.AdminConfig{})
	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "sara@example.com", Role: enums.RoleCustomer}
	oldAccessID := session.NewAccessID()

	access, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	var rotatedFrom string
	sessions := &fakeSessions{
		rotateFn: func(_ context.Context, old, provided string) (string, string, error) {
			rotatedFrom = old
			if provided != "refresh-1" {
				t.Fatalf("unexpected provided token %q", provided)
			}
			return session.NewAccessID(), "refresh-2", nil
		},
	}
	repo := &fakeUserRepo{
		findByIDFn: func(_ context.Context, id uuid.UUID) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestService(t, repo, sessions, config.AdminConfig{})

	pair, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: access, RefreshToken: "refresh-1"})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotatedFrom != oldAccessID {
		t.Fatalf("expected rotation from %q, got %q", oldAccessID, rotatedFrom)
	}
	if pair.RefreshToken != "refresh-2" || pair.AccessToken == "" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestRefreshInvalidTokenUnauthorized(t *testing.T) {
	user := models.User{ID: uuid.New(), Role: enums.RoleCustomer}
	access, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	sessions := &fakeSessions{
		rotateFn: func(context.Context, string, string) (string, string, error) {
			return "", "", session.ErrInvalidRefreshToken
		},
	}
	svc := newTestService(t, &fakeUserRepo{}, sessions, config.AdminConfig{})

	_, err = svc.Refresh(context.Background(), RefreshInput{AccessToken: access, RefreshToken: "stale"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	var revoked string
	sessions := &fakeSessions{
		revokeFn: func(_ context.Context, accessID string) error {
			revoked = accessID
			return nil
		},
	}
	svc := newTestService(t, &fakeUserRepo{}, sessions, config.AdminConfig{})

	if err := svc.Logout(context.Background(), "jti-123"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if revoked != "jti-123" {
		t.Fatalf("expected revoke for jti-123, got %q", revoked)
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	hash, err := security.HashPassword("old-password-1", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{ID: uuid.New(), PasswordHash: hash}
	var storedHash string
	repo := &fakeUserRepo{
		findByIDFn: func(context.Context, uuid.UUID) (models.User, error) {
			return user, nil
		},
		updatePasswordFn: func(_ context.Context, _ uuid.UUID, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{})

	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-1",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	ok, err := security.VerifyPassword("new-password-1", storedHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify new password: ok=%v err=%v", ok, err)
	}
}

func TestUpdateProfileTrimsName(t *testing.T) {
	repo := &fakeUserRepo{
		updateNameFn: func(_ context.Context, id uuid.UUID, name string) (models.User, error) {
			return models.User{ID: id, Name: name}, nil
		},
	}
	svc := newTestService(t, repo, &fakeSessions{}, config.AdminConfig{})

	dto, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: uuid.New(), Name: "  Sara T  "})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if dto.Name != "Sara T" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
}
