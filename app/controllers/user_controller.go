package controllers

import (
	"net/http"

	"quill/app/logging"
	"quill/app/models"
	"quill/app/services"

	"github.com/gorilla/mux"
)

// UserController handles HTTP requests for users
type UserController struct {
	responder
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger logging.Logger) *UserController {
	return &UserController{
		responder:   responder{logger: logger},
		userService: userService,
	}
}

// Create registers a new user
func (uc *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		uc.fail(w, r, err)
		return
	}

	user, err := uc.userService.Register(r.Context(), &req)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusCreated, user)
}

// Index lists all users
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := uc.userService.ListUsers(r.Context())
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, users)
}

// Show returns a single user
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := uc.userService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, user)
}
