package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"quill/app/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix       = "user:"
	UserEmailKeyPrefix  = "user_email:"
	PostKeyPrefix       = "post:"
	PostAuthorKeyPrefix = "post_author:"
)

func userKey(id string) []byte         { return []byte(UserKeyPrefix + id) }
func userEmailKey(email string) []byte { return []byte(UserEmailKeyPrefix + email) }
func postKey(id string) []byte         { return []byte(PostKeyPrefix + id) }

func postAuthorPrefix(authorID string) []byte {
	return []byte(PostAuthorKeyPrefix + authorID + ":")
}

func postAuthorKey(authorID, postID string) []byte {
	return []byte(PostAuthorKeyPrefix + authorID + ":" + postID)
}

// userRecord is the stored form of a user. Unlike models.User it
// serializes the password hash.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func newUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRecord) model() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// postRecord is the stored form of a post. The author is stored by id only.
type postRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPostRecord(p *models.Post) *postRecord {
	return &postRecord{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *postRecord) model() *models.Post {
	return &models.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Published: r.Published,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SortNewestFirst orders posts by creation time, newest first, breaking ties
// by id so pages are stable.
func SortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// Paginate slices posts by limit and offset. A non-positive limit means no
// limit.
func Paginate(posts []*models.Post, limit, offset int) []*models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end]
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
