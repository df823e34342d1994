package controllers

import (
	"net/http"
	"strconv"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for posts
type PostController struct {
	responder
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger logging.Logger) *PostController {
	return &PostController{
		responder:   responder{logger: logger},
		postService: postService,
	}
}

// Index lists posts newest first. Without per_page every post is returned.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 0
	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}

	posts, err := pc.postService.ListPosts(r.Context(), page, perPage)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, posts)
}

// ByAuthor lists the posts of one author
func (pc *PostController) ByAuthor(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListByAuthor(r.Context(), mux.Vars(r)["authorId"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, posts)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post owned by the caller
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pc.fail(w, r, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), auth.IdentityFromContext(r.Context()), &req)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post)
}

// Update handles a partial update of a post by its owner
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pc.fail(w, r, err)
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), auth.IdentityFromContext(r.Context()), mux.Vars(r)["id"], &req)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post by its owner
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	err := pc.postService.DeletePost(r.Context(), auth.IdentityFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
