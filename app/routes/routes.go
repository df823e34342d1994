package routes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"quill/app/auth"
	"quill/app/controllers"
	"quill/app/logging"
	"quill/app/middleware"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/gorilla/mux"
)

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Users     repositories.UserRepository
	Posts     repositories.PostRepository
	Passwords *auth.CredentialVerifier
	Tokens    *auth.TokenService
	Logger    logging.Logger
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = controllers.NotFoundHandler()
	router.MethodNotAllowedHandler = controllers.MethodNotAllowedHandler()

	// Apply global middleware
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recoverer(deps.Logger))
	router.Use(middleware.ContentTypeJSON)

	userService := services.NewUserService(deps.Users, deps.Passwords)
	authService := services.NewAuthService(deps.Users, deps.Passwords, deps.Tokens, deps.Logger)
	postService := services.NewPostService(deps.Posts)

	authController := controllers.NewAuthController(authService, userService, deps.Logger)
	userController := controllers.NewUserController(userService, deps.Logger)
	postController := controllers.NewPostController(postService, deps.Logger)

	guard := middleware.Authenticate(deps.Tokens, deps.Users, deps.Logger)
	protected := func(h http.HandlerFunc) http.Handler {
		return guard(h)
	}

	// Auth endpoints
	router.HandleFunc("/auth/login", authController.Login).Methods("POST")
	router.Handle("/auth/me", protected(authController.Me)).Methods("GET")

	// Users endpoints. Every route sits on the root router so a method
	// mismatch on /users or /posts is reported as 405, not 404.
	router.HandleFunc("/users", userController.Create).Methods("POST")
	router.Handle("/users", protected(userController.Index)).Methods("GET")
	router.Handle("/users/{id}", protected(userController.Show)).Methods("GET")

	// Posts endpoints
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.Handle("/posts", protected(postController.Create)).Methods("POST")
	router.HandleFunc("/posts/author/{authorId}", postController.ByAuthor).Methods("GET")
	router.HandleFunc("/posts/{id}", postController.Show).Methods("GET")
	router.Handle("/posts/{id}", protected(postController.Update)).Methods("PATCH")
	router.Handle("/posts/{id}", protected(postController.Delete)).Methods("DELETE")

	return router
}

// StartServer serves router on addr until ctx is cancelled, then shuts the
// server down gracefully.
func StartServer(ctx context.Context, addr string, router http.Handler, logger logging.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serve(ctx, listener, router, logger)
}

func serve(ctx context.Context, listener net.Listener, router http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting HTTP server", "address", listener.Addr().String())
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-stopped
		return fmt.Errorf("http server error: %w", err)
	}
	return <-stopped
}
