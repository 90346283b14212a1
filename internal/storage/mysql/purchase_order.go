package mysql

import (
	"broker-app/internal/storage"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func insertPurchaseOrder(ctx context.Context, tx *sql.Tx, po *storage.PurchaseOrder) error {
	stmt := `
		INSERT INTO purchase_orders (
			name, supplier, supplier_name, supplier_quotation, company, transaction_date, schedule_date,
			status, docstatus, total_qty, total, grand_total, freight, loading_charges
		) VALUES (UUID(), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, stmt,
		po.Supplier, po.SupplierName, po.SupplierQuotation, po.Company, po.TransactionDate, po.ScheduleDate,
		po.Status, po.DocStatus, po.TotalQty, po.Total, po.GrandTotal, po.Freight, po.LoadingCharges,
	)
	if err != nil {
		return fmt.Errorf("ошибка вставки заказа: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	name := docName("PUR-ORD", po.TransactionDate.Year(), id)
	if _, err := tx.ExecContext(ctx, `UPDATE purchase_orders SET name = ? WHERE id = ?`, name, id); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", name, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("ошибка присвоения номера заказа: %w", err)
	}

	itemStmt := `
		INSERT INTO purchase_order_items (
			parent, idx, item_code, item_name, description, qty, rate, amount, uom, schedule_date,
			supplier_quotation, supplier_quotation_item
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, it := range po.Items {
		var sqItem sql.NullInt64
		if it.SupplierQuotationItem != nil {
			sqItem = sql.NullInt64{Int64: *it.SupplierQuotationItem, Valid: true}
		}

		_, err := tx.ExecContext(ctx, itemStmt,
			name, i+1, it.ItemCode, it.ItemName, it.Description, it.Qty, it.Rate, it.Amount, it.UOM, it.ScheduleDate,
			it.SupplierQuotation, sqItem,
		)
		if err != nil {
			return fmt.Errorf("ошибка вставки строки заказа %d: %w", i+1, err)
		}
	}

	po.Name = name

	return nil
}

func (s *Storage) CreatePurchaseOrder(ctx context.Context, po *storage.PurchaseOrder) error {
	const op = "storage.mysql.CreatePurchaseOrder"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if po.SupplierQuotation != "" && po.DocStatus == 0 {
		if err := ensureNoDraft(ctx, tx, po.SupplierQuotation); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := insertPurchaseOrder(ctx, tx, po); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// ensureNoDraft блокирует заявку и проверяет, что черновика заказа по ней ещё нет.
func ensureNoDraft(ctx context.Context, tx *sql.Tx, quotationName string) error {
	var locked string
	err := tx.QueryRowContext(ctx,
		`SELECT name FROM supplier_quotations WHERE name = ? FOR UPDATE`, quotationName,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%q: %w", quotationName, storage.ErrNotFound)
		}
		return err
	}

	var drafts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchase_orders WHERE supplier_quotation = ? AND docstatus = 0`, quotationName,
	).Scan(&drafts)
	if err != nil {
		return err
	}
	if drafts > 0 {
		return fmt.Errorf("черновик заказа по %q уже есть: %w", quotationName, storage.ErrAlreadyExists)
	}

	return nil
}

// ConvertQuotation в одной транзакции сохраняет заказы по заявке и помечает
// заявку как переведённую в заказ.
func (s *Storage) ConvertQuotation(ctx context.Context, quotationName string, pos []*storage.PurchaseOrder) error {
	const op = "storage.mysql.ConvertQuotation"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	// блокируем заявку, чтобы не создать заказы дважды
	var poCreated bool
	err = tx.QueryRowContext(ctx,
		`SELECT po_created FROM supplier_quotations WHERE name = ? FOR UPDATE`, quotationName,
	).Scan(&poCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %q: %w", op, quotationName, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if poCreated {
		return fmt.Errorf("%s: заказы по %q уже созданы: %w", op, quotationName, storage.ErrAlreadyExists)
	}

	for _, po := range pos {
		if err := insertPurchaseOrder(ctx, tx, po); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE supplier_quotations
		SET po_created = TRUE, workflow_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?`, storage.StateConvertedToPO, quotationName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

const purchaseOrderColumns = `
	name, supplier, supplier_name, supplier_quotation, company, transaction_date, schedule_date,
	status, docstatus, total_qty, total, grand_total, freight, loading_charges, created_at`

func scanPurchaseOrder(row rowScanner) (*storage.PurchaseOrder, error) {
	var po storage.PurchaseOrder
	err := row.Scan(
		&po.Name, &po.Supplier, &po.SupplierName, &po.SupplierQuotation, &po.Company, &po.TransactionDate, &po.ScheduleDate,
		&po.Status, &po.DocStatus, &po.TotalQty, &po.Total, &po.GrandTotal, &po.Freight, &po.LoadingCharges, &po.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (s *Storage) GetPurchaseOrder(ctx context.Context, name string) (*storage.PurchaseOrder, error) {
	const op = "storage.mysql.GetPurchaseOrder"

	po, err := scanPurchaseOrder(s.db.QueryRowContext(ctx,
		`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE name = ?`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: заказ %q не найден: %w", op, name, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.purchaseOrderItems(ctx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	po.Items = items[name]

	return po, nil
}

func purchaseOrderWhere(filter storage.PurchaseOrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Supplier != "" {
		conds = append(conds, "supplier = ?")
		args = append(args, filter.Supplier)
	}
	if filter.SupplierQuotation != "" {
		conds = append(conds, "supplier_quotation = ?")
		args = append(args, filter.SupplierQuotation)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) ListPurchaseOrders(ctx context.Context, filter storage.PurchaseOrderFilter) ([]*storage.PurchaseOrder, error) {
	const op = "storage.mysql.ListPurchaseOrders"

	where, args := purchaseOrderWhere(filter)
	stmt := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders` + where +
		` ORDER BY transaction_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageLength, filter.Start)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		orders []*storage.PurchaseOrder
		names  []string
	)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		orders = append(orders, po)
		names = append(names, po.Name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(names) == 0 {
		return orders, nil
	}

	items, err := s.purchaseOrderItems(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, po := range orders {
		po.Items = items[po.Name]
	}

	return orders, nil
}

func (s *Storage) CountPurchaseOrders(ctx context.Context, filter storage.PurchaseOrderFilter) (int, error) {
	const op = "storage.mysql.CountPurchaseOrders"

	where, args := purchaseOrderWhere(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchase_orders`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) SubmitPurchaseOrder(ctx context.Context, name string) error {
	const op = "storage.mysql.SubmitPurchaseOrder"

	res, err := s.db.ExecContext(ctx,
		`UPDATE purchase_orders SET docstatus = 1, status = ? WHERE name = ? AND docstatus = 0`,
		storage.POStatusToReceive, name,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: черновик %q не найден: %w", op, name, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) purchaseOrderItems(ctx context.Context, parents []string) (map[string][]storage.PurchaseOrderItem, error) {
	stmt := `
		SELECT parent, item_code, item_name, description, qty, rate, amount, uom, schedule_date,
		       supplier_quotation, supplier_quotation_item
		FROM purchase_order_items
		WHERE parent IN (` + placeholders(len(parents)) + `)
		ORDER BY parent, idx`

	args := make([]any, len(parents))
	for i, p := range parents {
		args[i] = p
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения строк заказов: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]storage.PurchaseOrderItem, len(parents))
	for rows.Next() {
		var (
			it     storage.PurchaseOrderItem
			parent string
			sqItem sql.NullInt64
		)
		err := rows.Scan(&parent, &it.ItemCode, &it.ItemName, &it.Description, &it.Qty, &it.Rate, &it.Amount,
			&it.UOM, &it.ScheduleDate, &it.SupplierQuotation, &sqItem)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строк заказов: %w", err)
		}
		if sqItem.Valid {
			id := sqItem.Int64
			it.SupplierQuotationItem = &id
		}
		out[parent] = append(out[parent], it)
	}

	return out, rows.Err()
}
