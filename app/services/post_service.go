package services

import (
	"context"
	"fmt"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
)

// PostService handles business logic for posts. Mutations of an existing
// post look it up first, then check ownership, and only then write.
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost stores a new post owned by author
func (s *PostService) CreatePost(ctx context.Context, author *auth.Identity, req *models.CreatePostRequest) (*models.Post, error) {
	if author == nil || author.UserID == "" {
		return nil, auth.ErrUnauthenticated
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  author.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID with its author
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts retrieves posts newest first. A perPage below 1 returns every
// post.
func (s *PostService) ListPosts(ctx context.Context, page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return s.postRepo.List(ctx, 0, 0)
	}

	offset := (page - 1) * perPage
	return s.postRepo.List(ctx, perPage, offset)
}

// ListByAuthor retrieves every post of one author, newest first
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

// UpdatePost applies req to the post if subject owns it
func (s *PostService) UpdatePost(ctx context.Context, subject *auth.Identity, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.authorize(ctx, subject, id, "update")
	if err != nil {
		return nil, err
	}

	post.Apply(req)
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post if subject owns it
func (s *PostService) DeletePost(ctx context.Context, subject *auth.Identity, id string) error {
	if _, err := s.authorize(ctx, subject, id, "delete"); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

// authorize loads the post and checks ownership, in that order, so a missing
// post is reported as missing whoever asks.
func (s *PostService) authorize(ctx context.Context, subject *auth.Identity, id, action string) (*models.Post, error) {
	if subject == nil || subject.UserID == "" {
		return nil, auth.ErrUnauthenticated
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = auth.AuthorizeOwner(auth.OwnershipRequest{
		Subject:  subject,
		OwnerID:  post.AuthorID,
		Resource: fmt.Sprintf("post:%s", id),
		Action:   action,
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}
