package repositories

import (
	"context"
	"errors"
	"fmt"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns an id to post and stores it together with its author index
// entry. The author must exist.
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	post.ID = uuid.NewString()
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}

	data, err := marshalEntity(newPostRecord(post))
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		author, err := getUser(txn, post.AuthorID)
		if err != nil {
			return fmt.Errorf("failed to load author %s: %w", post.AuthorID, err)
		}
		if err := txn.Set(postKey(post.ID), data); err != nil {
			return err
		}
		if err := txn.Set(postAuthorKey(post.AuthorID, post.ID), nil); err != nil {
			return err
		}
		return post.SetAuthor(author)
	})
}

// GetByID retrieves a post by ID with its author populated
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = getPost(txn, id, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves a page of posts, newest first
func (r *BadgerPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		authors := map[string]*models.User{}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec postRecord
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %v", err)
			}
			post, err := withAuthor(txn, &rec, authors)
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortNewestFirst(posts)
	return Paginate(posts, limit, offset), nil
}

// ListByAuthor retrieves every post owned by authorID, newest first
func (r *BadgerPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		authors := map[string]*models.User{}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := postAuthorPrefix(authorID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			postID := string(it.Item().Key()[len(prefix):])
			post, err := getPost(txn, postID, authors)
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortNewestFirst(posts)
	return posts, nil
}

// Update updates an existing post. The stored owner is kept regardless of
// post.AuthorID.
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		existing, err := getPostRecord(txn, post.ID)
		if err != nil {
			return err
		}

		rec := newPostRecord(post)
		rec.AuthorID = existing.AuthorID
		rec.CreatedAt = existing.CreatedAt

		data, err := marshalEntity(rec)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		existing, err := getPostRecord(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(postAuthorKey(existing.AuthorID, id)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
}

func getPostRecord(txn *badger.Txn, id string) (*postRecord, error) {
	item, err := txn.Get(postKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec postRecord
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &rec)
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func getPost(txn *badger.Txn, id string, authors map[string]*models.User) (*models.Post, error) {
	rec, err := getPostRecord(txn, id)
	if err != nil {
		return nil, err
	}
	return withAuthor(txn, rec, authors)
}

// withAuthor converts rec and attaches its owner, consulting authors first
// when it is non-nil. A post whose owner is missing is an integrity failure,
// not a missing post.
func withAuthor(txn *badger.Txn, rec *postRecord, authors map[string]*models.User) (*models.Post, error) {
	post := rec.model()
	author, ok := authors[rec.AuthorID]
	if !ok {
		var err error
		author, err = getUser(txn, rec.AuthorID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("post %s references missing author %s", rec.ID, rec.AuthorID)
		}
		if err != nil {
			return nil, err
		}
		if authors != nil {
			authors[rec.AuthorID] = author
		}
	}
	if err := post.SetAuthor(author); err != nil {
		return nil, err
	}
	return post, nil
}
