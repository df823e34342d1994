// Package mock provides in-memory repositories for tests.
package mock

import (
	"context"
	"sync"

	"quill/app/models"
	"quill/app/repositories"

	"github.com/google/uuid"
)

type UserRepository struct {
	users   map[string]*models.User
	byEmail map[string]string
	mutex   sync.RWMutex

	// Err, when set, is returned by every method.
	Err error
}

type PostRepository struct {
	posts map[string]*models.Post
	users *UserRepository
	mutex sync.RWMutex

	Err error
	// Writes counts successful Create, Update and Delete calls.
	Writes int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// NewPostRepository returns a post repository that resolves authors through
// users.
func NewPostRepository(users *UserRepository) *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
		users: users,
	}
}

func (m *UserRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.users = make(map[string]*models.User)
	m.byEmail = make(map[string]string)
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	user.ID = uuid.NewString()
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return repositories.ErrEmailTaken
	}
	stored := *user
	m.users[user.ID] = &stored
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mutex.RLock()
	id, exists := m.byEmail[models.NormalizeEmail(email)]
	err := m.Err
	m.mutex.RUnlock()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *UserRepository) List(_ context.Context) ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	users := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if m.Err != nil {
		return m.Err
	}
	author, err := m.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = uuid.NewString()
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	if err := post.SetAuthor(author); err != nil {
		return err
	}
	stored := *post
	m.posts[post.ID] = &stored
	m.Writes++
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mutex.RLock()
	post, exists := m.posts[id]
	m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.populate(ctx, post)
}

func (m *PostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts, err := m.filter(ctx, func(*models.Post) bool { return true })
	if err != nil {
		return nil, err
	}
	return repositories.Paginate(posts, limit, offset), nil
}

func (m *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return m.filter(ctx, func(p *models.Post) bool { return p.AuthorID == authorID })
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	stored := *post
	stored.AuthorID = existing.AuthorID
	stored.CreatedAt = existing.CreatedAt
	m.posts[post.ID] = &stored
	m.Writes++
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	m.Writes++
	return nil
}

func (m *PostRepository) filter(ctx context.Context, keep func(*models.Post) bool) ([]*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	var matched []*models.Post
	for _, post := range m.posts {
		if keep(post) {
			matched = append(matched, post)
		}
	}
	m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(matched))
	for _, post := range matched {
		populated, err := m.populate(ctx, post)
		if err != nil {
			return nil, err
		}
		posts = append(posts, populated)
	}
	repositories.SortNewestFirst(posts)
	return posts, nil
}

func (m *PostRepository) populate(ctx context.Context, post *models.Post) (*models.Post, error) {
	clone := *post
	author, err := m.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := clone.SetAuthor(author); err != nil {
		return nil, err
	}
	return &clone, nil
}
