package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubTokenVerifier struct {
	token *auth.Token
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return s.token, s.err
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	userRepo.On("GetUserByEmail", "ana@example.com").
		Return(&models.User{ID: 1, Email: "ana@example.com"}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret123"}`, 0)

	err := h.Register(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestRegisterShortPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"abc"}`, 0)

	err := h.Register(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestRegisterCreatesUserAndToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	userRepo.On("GetUserByEmail", "ana@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
		// The stored credential must be a hash, never the raw password
		return u.Email == "ana@example.com" && u.Password != "secret123" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil
	})).Return(nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret123"}`, 0)

	err := h.Register(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "token")
	assert.Contains(t, resp, "user")
	userRepo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	userRepo.On("GetUserByEmail", "ana@example.com").
		Return(&models.User{ID: 1, Email: "ana@example.com", Password: string(hash)}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"wrong-password"}`, 0)

	loginErr := h.Login(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(loginErr, rec))
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	userRepo.On("GetUserByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`, 0)

	err := h.Login(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestLoginSuccess(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := NewAuthHandler(userRepo, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	userRepo.On("GetUserByEmail", "ana@example.com").
		Return(&models.User{ID: 1, Email: "ana@example.com", Password: string(hash)}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`, 0)

	loginErr := h.Login(c)
	assert.NoError(t, loginErr)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
}

func TestFirebaseLoginResolvesByProviderUID(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifier := &stubTokenVerifier{token: &auth.Token{
		UID:    "g-123",
		Claims: map[string]interface{}{"email": "new@example.com", "name": "Ana"},
	}}
	h := NewAuthHandler(userRepo, verifier)

	// The account keeps its old email locally; the UID lookup must win and
	// the email fallback must never run
	userRepo.On("GetUserByGoogleUID", "g-123").
		Return(&models.User{ID: 1, Email: "old@example.com", Name: "Ana", GoogleUID: "g-123"}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/firebase",
		`{"idToken":"some-token"}`, 0)

	err := h.FirebaseLogin(c)
	assert.Equal(t, http.StatusOK, httpStatus(err, rec))
	userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestFirebaseLoginAdoptsUIDOnEmailFallback(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifier := &stubTokenVerifier{token: &auth.Token{
		UID:    "g-456",
		Claims: map[string]interface{}{"email": "ana@example.com", "name": "Ana"},
	}}
	h := NewAuthHandler(userRepo, verifier)

	userRepo.On("GetUserByGoogleUID", "g-456").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("GetUserByEmail", "ana@example.com").
		Return(&models.User{ID: 1, Email: "ana@example.com", Name: "Ana"}, nil)
	userRepo.On("UpdateUser", mock.MatchedBy(func(u *models.User) bool {
		return u.GoogleUID == "g-456"
	})).Return(nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/firebase",
		`{"idToken":"some-token"}`, 0)

	err := h.FirebaseLogin(c)
	assert.Equal(t, http.StatusOK, httpStatus(err, rec))
	userRepo.AssertExpectations(t)
}
