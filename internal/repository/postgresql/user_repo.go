package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/repository"

	"github.com/jmoiron/sqlx"
)

type pgUserRepository struct {
	db *sqlx.DB
}

func NewPgUserRepository(db *sqlx.DB) repository.UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `uid, email, name, phone_number, profile_image_url, role, created_at, last_login_at`

func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES (:uid, :email, :name, :phone_number, :profile_image_url, :role, :created_at, :last_login_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %q", repository.ErrDuplicateEntry, user.UID)
		}
		return nil, fmt.Errorf("UserRepository.Create: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	if err := r.db.GetContext(ctx, user, query, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("UserRepository.FindByUID: %w", err)
	}
	normalizeUser(user)
	return user, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `UPDATE users SET email = :email, name = :name, phone_number = :phone_number,
	          profile_image_url = :profile_image_url, role = :role, last_login_at = :last_login_at
	          WHERE uid = :uid`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Update: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE uid = $2`, at, uid)
	if err != nil {
		return fmt.Errorf("UserRepository.UpdateLastLogin: %w", err)
	}
	return expectOneRow(res)
}

func (r *pgUserRepository) Delete(ctx context.Context, uid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("UserRepository.Delete: %w", err)
	}
	return expectOneRow(res)
}

func normalizeUser(u *domain.User) {
	u.CreatedAt = u.CreatedAt.In(time.UTC)
	if u.LastLoginAt.Valid {
		u.LastLoginAt.Time = u.LastLoginAt.Time.In(time.UTC)
	}
}

// expectOneRow turns an update or delete that matched nothing into ErrNotFound.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
