package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/repositories/mock"
	"quill/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	router *mux.Router
	users  *mock.UserRepository
	posts  *mock.PostRepository
	tokens *auth.TokenService
	userSv *services.UserService
}

// setupTestApp wires the controllers without the auth middleware. Requests
// carry an identity only when the test attaches one.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	passwords, err := auth.NewCredentialVerifier(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("controller-secret", time.Hour)
	require.NoError(t, err)

	logger := logging.Discard()
	users := mock.NewUserRepository()
	posts := mock.NewPostRepository(users)
	userService := services.NewUserService(users, passwords)
	authService := services.NewAuthService(users, passwords, tokens, logger)
	postService := services.NewPostService(posts)

	ac := NewAuthController(authService, userService, logger)
	uc := NewUserController(userService, logger)
	pc := NewPostController(postService, logger)

	router := mux.NewRouter()
	router.HandleFunc("/auth/login", ac.Login).Methods("POST")
	router.HandleFunc("/auth/me", ac.Me).Methods("GET")
	router.HandleFunc("/users", uc.Create).Methods("POST")
	router.HandleFunc("/users", uc.Index).Methods("GET")
	router.HandleFunc("/users/{id}", uc.Show).Methods("GET")
	router.HandleFunc("/posts", pc.Create).Methods("POST")
	router.HandleFunc("/posts", pc.Index).Methods("GET")
	router.HandleFunc("/posts/author/{authorId}", pc.ByAuthor).Methods("GET")
	router.HandleFunc("/posts/{id}", pc.Show).Methods("GET")
	router.HandleFunc("/posts/{id}", pc.Update).Methods("PATCH")
	router.HandleFunc("/posts/{id}", pc.Delete).Methods("DELETE")

	return &testApp{
		router: router,
		users:  users,
		posts:  posts,
		tokens: tokens,
		userSv: userService,
	}
}

func (a *testApp) do(method, path, body string, as *auth.Identity) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), as))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, email string) *auth.Identity {
	t.Helper()
	user, err := a.userSv.Register(context.Background(), &models.RegisterRequest{
		Email:    email,
		Name:     "Writer",
		Password: "secret123",
	})
	require.NoError(t, err)
	return auth.IdentityFromUser(user)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
