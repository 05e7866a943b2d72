package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matthew8541/YelpCamp/internal/model"
)

// UserRepository persists user records in PostgreSQL.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO users (id, username, password_hash, created_at)
        VALUES (:id, :username, :password_hash, :created_at)
    `, u)
	if err != nil {
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("UserRepository.FindByID: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = $1`, username); err != nil {
		return nil, fmt.Errorf("UserRepository.FindByUsername: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByUsername: %w", err)
	}
	return exists, nil
}
