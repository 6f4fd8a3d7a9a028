package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/storage/db"
)

type ListUsersParams struct {
	Skip  int
	Limit int
}

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context, params ListUsersParams) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, created_at`

func (r userRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", uniqueUserErr(err))
	}

	return nil
}

func (r userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id)

	return scanUser(row)
}

func (r userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username)

	return scanUser(row)
}

func (r userRepository) ListUsers(ctx context.Context, params ListUsersParams) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at
		OFFSET $1 LIMIT $2
	`, params.Skip, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r userRepository) UpdateUser(ctx context.Context, user model.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("update user: %w", uniqueUserErr(err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.UserNotFoundErr
	}

	return nil
}

func (r userRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.UserNotFoundErr
	}

	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apperr.UserNotFoundErr
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}

	return u, nil
}

// uniqueUserErr maps unique-constraint violations to the matching domain
// error so callers can answer 409 with the offending field.
func uniqueUserErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return apperr.UsernameTakenErr
		case "users_email_key":
			return apperr.EmailTakenErr
		}
	}
	return err
}
