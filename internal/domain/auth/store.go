package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindActiveAccountByEmail(ctx context.Context, email string) (Account, error) {
	var account Account
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, first_name, last_name, role
    FROM employees
    WHERE lower(email) = lower($1) AND is_active = true
  `, email).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.FirstName, &account.LastName, &account.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
