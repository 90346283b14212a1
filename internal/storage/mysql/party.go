package mysql

import (
	"broker-app/internal/storage"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// поля, по которым разрешено фильтровать контрагентов
var partyFilterColumns = map[string]string{
	"name":       "name",
	"party_name": "party_name",
	"is_party":   "is_party",
}

func (s *Storage) GetParties(ctx context.Context, filters map[string]any) ([]storage.Party, error) {
	const op = "storage.mysql.GetParties"

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		conds []string
		args  []any
	)
	for _, k := range keys {
		col, ok := partyFilterColumns[k]
		if !ok {
			return nil, fmt.Errorf("%s: неизвестный фильтр %q", op, k)
		}
		conds = append(conds, col+" = ?")
		args = append(args, filters[k])
	}

	stmt := `SELECT name, party_name, is_party FROM parties`
	if len(conds) > 0 {
		stmt += ` WHERE ` + strings.Join(conds, " AND ")
	}
	stmt += ` ORDER BY party_name`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	parties := []storage.Party{}
	for rows.Next() {
		var p storage.Party
		if err := rows.Scan(&p.Name, &p.PartyName, &p.IsParty); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		parties = append(parties, p)
	}

	return parties, rows.Err()
}

// GetServiceItem возвращает первую активную закупочную услугу из справочника.
func (s *Storage) GetServiceItem(ctx context.Context) (*storage.ServiceItem, error) {
	const op = "storage.mysql.GetServiceItem"

	stmt := `
		SELECT item_code, item_name, stock_uom
		FROM items
		WHERE item_group = ? AND is_purchase_item = TRUE AND disabled = FALSE
		ORDER BY item_code
		LIMIT 1`

	var item storage.ServiceItem
	err := s.db.QueryRowContext(ctx, stmt, storage.ItemGroupServices).Scan(&item.ItemCode, &item.ItemName, &item.StockUOM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &item, nil
}

// GetItemPrice возвращает 0, если цены в прайс-листе нет.
func (s *Storage) GetItemPrice(ctx context.Context, itemCode string, priceList string) (float64, error) {
	const op = "storage.mysql.GetItemPrice"

	var rate sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT price_list_rate FROM item_prices WHERE item_code = ? AND price_list = ? LIMIT 1`,
		itemCode, priceList,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return rate.Float64, nil
}
