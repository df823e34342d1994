package repositories

import (
	"context"
	"errors"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerUserRepository implements UserRepository using BadgerDB. Emails are
// kept unique through a secondary index key pointing at the user id.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create assigns an id to user and stores it. It fails with ErrEmailTaken
// when the normalized email is already registered.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	user.ID = uuid.NewString()
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}

	data, err := marshalEntity(newUserRecord(user))
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(userEmailKey(user.Email))
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(userEmailKey(user.Email), []byte(user.ID))
	})
	// The only key read above is the email index, so a conflict means a
	// concurrent registration claimed the same address.
	if errors.Is(err, badger.ErrConflict) {
		return ErrEmailTaken
	}
	return err
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user *models.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email. The lookup is normalized the same way
// registration is.
func (r *BadgerUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user *models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(models.NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = getUser(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves all users
func (r *BadgerUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := []*models.User{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(UserKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec userRecord
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &rec)
			})
			if err != nil {
				return err
			}
			users = append(users, rec.model())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func getUser(txn *badger.Txn, id string) (*models.User, error) {
	item, err := txn.Get(userKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec userRecord
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &rec)
	}); err != nil {
		return nil, err
	}
	return rec.model(), nil
}
