package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/auth"
	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/testutil"
	"github.com/jhoicas/atelier-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(store *testutil.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "atelier-test"})
}

func TestRegisterYLogin(t *testing.T) {
	store := testutil.NewStore()
	uc := newAuth(store)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Atelie.Test ", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@atelie.test", u.Email)
	assert.Equal(t, entity.RoleStaff, u.Role)
	assert.Equal(t, "ana@atelie.test", u.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@atelie.test", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@atelie.test", Password: "segredo123"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleStaff, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@atelie.test", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ninguem@atelie.test", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_Validacion(t *testing.T) {
	uc := newAuth(testutil.NewStore())
	ctx := context.Background()

	for _, in := range []dto.RegisterRequest{
		{Email: "", Password: "segredo123"},
		{Email: "sem-arroba", Password: "segredo123"},
		{Email: "a@b.c", Password: "curta"},
		{Email: "a@b.c", Password: "segredo123", Role: "root"},
	} {
		_, err := uc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	store := testutil.NewStore()
	uc := newAuth(store)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "bia@atelie.test", Password: "segredo123", Role: "admin"})
	require.NoError(t, err)
	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	stored.Status = "inactive"
	store.AddUser(*stored)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bia@atelie.test", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
