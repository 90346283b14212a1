package mysql

import (
	"broker-app/internal/storage"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = `name, full_name, password_hash, api_key, api_secret_hash, enabled, created_at`

func scanUser(row rowScanner) (*storage.User, error) {
	var (
		u                 storage.User
		apiKey, apiSecret sql.NullString
	)
	err := row.Scan(&u.Name, &u.FullName, &u.PasswordHash, &apiKey, &apiSecret, &u.Enabled, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.APIKey = apiKey.String
	u.APISecretHash = apiSecret.String
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *storage.User) error {
	const op = "storage.mysql.CreateUser"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, full_name, password_hash, enabled) VALUES (?, ?, ?, ?)`,
		u.Name, u.FullName, u.PasswordHash, u.Enabled,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %q: %w", op, u.Name, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetUser(ctx context.Context, name string) (*storage.User, error) {
	const op = "storage.mysql.GetUser"

	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE name = ?`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: пользователь %q не найден: %w", op, name, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) GetUserByAPIKey(ctx context.Context, apiKey string) (*storage.User, error) {
	const op = "storage.mysql.GetUserByAPIKey"

	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE api_key = ?`, apiKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// SetAPICredentials сохраняет ключ и хэш секрета пользователя.
func (s *Storage) SetAPICredentials(ctx context.Context, name, apiKey, secretHash string) error {
	const op = "storage.mysql.SetAPICredentials"

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET api_key = ?, api_secret_hash = ? WHERE name = ?`, apiKey, secretHash, name,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: пользователь %q не найден: %w", op, name, storage.ErrNotFound)
	}

	return nil
}
