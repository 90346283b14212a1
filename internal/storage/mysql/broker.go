package mysql

import (
	"broker-app/internal/storage"
	"context"
	"fmt"
)

func (s *Storage) CreateBroker(ctx context.Context, b *storage.Broker) error {
	const op = "storage.mysql.CreateBroker"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO brokers (name, broker_name, item_name, item_rate, taxes, vehicle_number, docstatus)
		VALUES (UUID(), ?, ?, ?, ?, ?, ?)`,
		b.BrokerName, b.ItemName, b.ItemRate, b.Taxes, b.VehicleNumber, b.DocStatus,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	name := fmt.Sprintf("BRK-%05d", id)
	if _, err := tx.ExecContext(ctx, `UPDATE brokers SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM brokers WHERE id = ?`, id).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	b.Name = name

	return nil
}

func (s *Storage) ListBrokers(ctx context.Context, start, limit int) ([]storage.Broker, error) {
	const op = "storage.mysql.ListBrokers"

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, broker_name, item_name, item_rate, taxes, vehicle_number, docstatus, created_at
		FROM brokers
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var brokers []storage.Broker
	for rows.Next() {
		var b storage.Broker
		err := rows.Scan(&b.Name, &b.BrokerName, &b.ItemName, &b.ItemRate, &b.Taxes, &b.VehicleNumber, &b.DocStatus, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		brokers = append(brokers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return brokers, nil
}

func (s *Storage) CountBrokers(ctx context.Context) (int, error) {
	const op = "storage.mysql.CountBrokers"

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM brokers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
