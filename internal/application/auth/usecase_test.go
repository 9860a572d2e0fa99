package auth_test

import (
	"testing"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/auth"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(store *apptest.Store) *auth.UseCase {
	return auth.NewUseCase(store.UserRepo(), auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "saif-api-test",
	})
}

func TestLogin_TokenValido(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.RegisterUser(dto.CreateUserRequest{
		Email:    "quimico@farmacia.test",
		Password: "secreta-123",
		Nombre:   "Ana",
		Rol:      "farmaceutico",
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "quimico@farmacia.test", Password: "secreta-123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "quimico@farmacia.test", resp.User.Email)

	userID, role, err := jwt.Parse("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "farmaceutico", role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.RegisterUser(dto.CreateUserRequest{
		Email:    "quimico@farmacia.test",
		Password: "secreta-123",
		Nombre:   "Ana",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "quimico@farmacia.test", Password: "otra"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@farmacia.test", Password: "x"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.RegisterUser(dto.CreateUserRequest{Email: "a@b.test", Password: "12345678", Nombre: "A"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.CreateUserRequest{Email: "a@b.test", Password: "12345678", Nombre: "B"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	resp, err := uc.RegisterUser(dto.CreateUserRequest{Email: "a@b.test", Password: "12345678", Nombre: "A"})
	require.NoError(t, err)
	store.Users[resp.ID].Active = false

	_, err = uc.Login(dto.LoginRequest{Email: "a@b.test", Password: "12345678"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
