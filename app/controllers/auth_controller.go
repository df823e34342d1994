package controllers

import (
	"net/http"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/services"
)

// AuthController handles login and the current-user lookup
type AuthController struct {
	responder
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, userService *services.UserService, logger logging.Logger) *AuthController {
	return &AuthController{
		responder:   responder{logger: logger},
		authService: authService,
		userService: userService,
	}
}

// Login exchanges an email and password for an access token
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ac.fail(w, r, err)
		return
	}

	resp, err := ac.authService.Login(r.Context(), &req)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		ac.fail(w, r, auth.ErrUnauthenticated)
		return
	}

	user, err := ac.userService.GetUser(r.Context(), id.UserID)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, user)
}
