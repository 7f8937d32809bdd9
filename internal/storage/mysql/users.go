package mysql

import (
	"context"
	"database/sql"

	"hotel_booking/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName)
	if isDuplicate(err) {
		return domain.ErrUserExists
	}
	return err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, getUserByEmailSQL, email)
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, getUserByIDSQL, id)
}

func (r *Repo) getUser(ctx context.Context, query, arg string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}
