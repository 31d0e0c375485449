package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fefrre/ferweb/internal/db"
	"github.com/fefrre/ferweb/internal/models"
)

const UsersCollection = "_ferweb_users"

var errNoInsertID = errors.New("insert response carried no id")

// UserRepo holds admin accounts for the oxidb backend. Callers pass emails
// already lowercased.
type UserRepo struct {
	pool *db.Pool
}

func NewUserRepo(pool *db.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	return r.pool.Get().CreateUniqueIndex(ctx, UsersCollection, "email")
}

// FindByEmail returns nil, nil when no user matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, map[string]any{"email": email})
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, map[string]any{"_id": toNumericID(id)})
}

func (r *UserRepo) findOne(ctx context.Context, query map[string]any) (*models.User, error) {
	doc, err := r.pool.Get().FindOne(ctx, UsersCollection, query)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.User](doc, "_id")
}

// Create inserts user and returns the id OxiDB assigned. A taken email fails
// on the unique index.
func (r *UserRepo) Create(ctx context.Context, user *models.User) (string, error) {
	doc, err := toDoc(user, "_id")
	if err != nil {
		return "", err
	}
	result, err := r.pool.Get().Insert(ctx, UsersCollection, doc)
	if err != nil {
		return "", fmt.Errorf("create user %s: %w", user.Email, err)
	}
	id := extractID(result)
	if id == "" {
		return "", fmt.Errorf("create user %s: %w", user.Email, errNoInsertID)
	}
	return id, nil
}
