package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netgrid/backend/internal/core"
	"github.com/netgrid/backend/internal/model"
)

type fakeUsers struct {
	users []model.User
}

func (f *fakeUsers) LoadAll() ([]model.User, error) { return f.users, nil }

func (f *fakeUsers) Save(u model.User) (model.User, error) {
	if u.ID == model.UnassignedUserID {
		u.ID = len(f.users)
	}
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = u
			return u, nil
		}
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsers) Delete(id int, username string) error {
	for i := range f.users {
		if f.users[i].ID == id && f.users[i].Username == username {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return errors.New("no such user")
}

func (f *fakeUsers) EnsureBuiltins() error { return nil }

func testRouter(t *testing.T, bypassTokens []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fakeUsers{users: []model.User{
		{ID: 0, Username: "admin", Password: "moxa", Role: model.RoleAdmin},
		{ID: 1, Username: "viewer", Password: "moxa", Role: model.RoleUser},
	}}
	c := core.New(users, nil, nil, core.Options{
		JWTSecret:          "test-secret",
		HardTimeoutMinutes: 60,
		ScratchDir:         t.TempDir(),
	})

	r := gin.New()
	authHandler := NewAuthHandler(c)
	userHandler := NewUserHandler(c)
	r.POST("/api/v1/auth/login", authHandler.Login)
	authed := r.Group("/api/v1", Authenticate(c, bypassTokens))
	authed.GET("/auth/verify", authHandler.Verify)
	authed.GET("/users", RequireSupervisor(), userHandler.List)
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandlerValidation(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginThenVerify(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "moxa"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("expected a token, got %q (err %v)", w.Body.String(), err)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/auth/verify", resp.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodGet, "/api/v1/users", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareTokenlessCallerIsAdmin(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodGet, "/api/v1/users", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMiddlewareBypassTokenIsAdmin(t *testing.T) {
	r := testRouter(t, []string{"builtin-automation"})

	w := doJSON(r, http.MethodGet, "/api/v1/users", "builtin-automation", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMiddlewareDeniesUserRole(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{Username: "viewer", Password: "moxa"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/users", resp.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
