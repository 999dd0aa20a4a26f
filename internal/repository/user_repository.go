package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

// UserRepo stores accounts in the MySQL 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, role model.Role, cost int) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Account{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role) VALUES (?,?,?,?)",
		email, name, hash, string(role))
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return model.Account{}, ErrEmailExists
		}
		return model.Account{}, err
	}
	if _, err := res.LastInsertId(); err != nil {
		return model.Account{}, err
	}
	return r.GetByEmail(ctx, email)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		u    model.Account
		role string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,password_hash,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}
