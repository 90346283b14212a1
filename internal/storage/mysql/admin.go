package mysql

import (
	"broker-app/internal/storage"
	"context"
	"fmt"
)

func (s *Storage) GetAllItemPricesAdmin(ctx context.Context, priceList string) ([]*storage.ItemPriceAdmin, error) {
	const op = "storage.mysql.GetAllItemPricesAdmin"

	stmt := `SELECT id, item_code, price_list, price_list_rate FROM item_prices`
	var args []any
	if priceList != "" {
		stmt += ` WHERE price_list = ?`
		args = append(args, priceList)
	}
	stmt += ` ORDER BY price_list, item_code`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения цен: %w", op, err)
	}
	defer rows.Close()

	prices := []*storage.ItemPriceAdmin{}

	for rows.Next() {
		p := &storage.ItemPriceAdmin{}

		if err := rows.Scan(&p.ID, &p.ItemCode, &p.PriceList, &p.Rate); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки цены: %w", op, err)
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return prices, nil
}

// UpsertItemPricesAdmin сохраняет цены пачкой: новая пара (item_code,
// price_list) добавляется, существующая обновляется.
func (s *Storage) UpsertItemPricesAdmin(ctx context.Context, prices []storage.ItemPriceAdmin) error {
	const op = "storage.mysql.UpsertItemPricesAdmin"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO item_prices (item_code, price_list, price_list_rate)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE price_list_rate = VALUES(price_list_rate)
	`)
	if err != nil {
		return fmt.Errorf("%s: не удалось подготовить запрос: %w", op, err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.ItemCode, p.PriceList, p.Rate); err != nil {
			return fmt.Errorf("%s: ошибка сохранения цены %s/%s: %w", op, p.ItemCode, p.PriceList, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

func (s *Storage) GetAllPartiesAdmin(ctx context.Context) ([]*storage.Party, error) {
	const op = "storage.mysql.GetAllPartiesAdmin"

	rows, err := s.db.QueryContext(ctx, `SELECT name, party_name, is_party FROM parties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения контрагентов: %w", op, err)
	}
	defer rows.Close()

	parties := []*storage.Party{}

	for rows.Next() {
		p := &storage.Party{}
		if err := rows.Scan(&p.Name, &p.PartyName, &p.IsParty); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		parties = append(parties, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return parties, nil
}

func (s *Storage) UpdatePartiesAdmin(ctx context.Context, parties []storage.Party) error {
	const op = "storage.mysql.UpdatePartiesAdmin"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: ошибка при создании транзакции: %w", op, err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE parties SET party_name = ?, is_party = ? WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("%s: ошибка при подготовке запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, p := range parties {
		if _, err := stmt.ExecContext(ctx, p.PartyName, p.IsParty, p.Name); err != nil {
			return fmt.Errorf("%s: ошибка при обновлении контрагента %q: %w", op, p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

func (s *Storage) CreatePartyAdmin(ctx context.Context, p storage.Party) error {
	const op = "storage.mysql.CreatePartyAdmin"

	_, err := s.db.ExecContext(ctx, `INSERT INTO parties (name, party_name, is_party) VALUES (?, ?, ?)`,
		p.Name, p.PartyName, p.IsParty)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: контрагент %q: %w", op, p.Name, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: ошибка сохранения контрагента: %w", op, err)
	}

	return nil
}

func (s *Storage) CreateItemAdmin(ctx context.Context, item storage.ItemAdmin) error {
	const op = "storage.mysql.CreateItemAdmin"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (item_code, item_name, item_group, stock_uom, is_purchase_item, disabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ItemCode, item.ItemName, item.ItemGroup, item.StockUOM, item.IsPurchaseItem, item.Disabled,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: товар %q: %w", op, item.ItemCode, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: ошибка сохранения товара: %w", op, err)
	}

	return nil
}
