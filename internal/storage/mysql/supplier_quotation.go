package mysql

import (
	"broker-app/internal/storage"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const quotationColumns = `
	id, name, supplier, supplier_name, company, transaction_date, valid_till,
	freight, loading_charges, distance_km, location, remarks, party_name,
	workflow_state, po_created, freight_per_unit, labour_per_unit,
	total_qty, total_freight_cost, labour_total_cost, total, grand_total,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row rowScanner) (*storage.SupplierQuotation, int64, error) {
	var (
		sq             storage.SupplierQuotation
		id             int64
		validTill      sql.NullTime
		distance       sql.NullFloat64
		freightPerUnit sql.NullFloat64
		labourPerUnit  sql.NullFloat64
	)

	err := row.Scan(
		&id, &sq.Name, &sq.Supplier, &sq.SupplierName, &sq.Company, &sq.TransactionDate, &validTill,
		&sq.Freight, &sq.LoadingCharges, &distance, &sq.Location, &sq.Remarks, &sq.PartyName,
		&sq.WorkflowState, &sq.POCreated, &freightPerUnit, &labourPerUnit,
		&sq.TotalQty, &sq.TotalFreightCost, &sq.LabourTotalCost, &sq.Total, &sq.GrandTotal,
		&sq.CreatedAt, &sq.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	sq.ValidTill = timePtr(validTill)
	sq.DistanceKM = floatPtr(distance)
	sq.FreightPerUnit = floatPtr(freightPerUnit)
	sq.LabourPerUnit = floatPtr(labourPerUnit)

	return &sq, id, nil
}

func (s *Storage) CreateSupplierQuotation(ctx context.Context, sq *storage.SupplierQuotation) error {
	const op = "storage.mysql.CreateSupplierQuotation"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO supplier_quotations (
			name, supplier, supplier_name, company, transaction_date, valid_till,
			freight, loading_charges, distance_km, location, remarks, party_name,
			workflow_state, po_created, freight_per_unit, labour_per_unit,
			total_qty, total_freight_cost, labour_total_cost, total, grand_total
		) VALUES (UUID(), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, stmt,
		sq.Supplier, sq.SupplierName, sq.Company, sq.TransactionDate, nullTime(sq.ValidTill),
		sq.Freight, sq.LoadingCharges, nullFloat(sq.DistanceKM), sq.Location, sq.Remarks, sq.PartyName,
		sq.WorkflowState, sq.POCreated, nullFloat(sq.FreightPerUnit), nullFloat(sq.LabourPerUnit),
		sq.TotalQty, sq.TotalFreightCost, sq.LabourTotalCost, sq.Total, sq.GrandTotal,
	)
	if err != nil {
		return fmt.Errorf("%s: ошибка вставки заявки: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	name := docName("PUR-SQTN", sq.TransactionDate.Year(), id)
	if _, err := tx.ExecContext(ctx, `UPDATE supplier_quotations SET name = ? WHERE id = ?`, name, id); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %s: %w", op, name, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: ошибка присвоения номера: %w", op, err)
	}

	if err := insertQuotationItems(ctx, tx, name, sq.Items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	sq.Name = name

	return nil
}

func insertQuotationItems(ctx context.Context, tx *sql.Tx, parent string, items []storage.SupplierQuotationItem) error {
	stmt := `
		INSERT INTO supplier_quotation_items
			(parent, idx, item_code, item_name, description, item_group, qty, rate, amount, uom)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i := range items {
		it := &items[i]
		res, err := tx.ExecContext(ctx, stmt,
			parent, it.Idx, it.ItemCode, it.ItemName, it.Description, it.ItemGroup, it.Qty, it.Rate, it.Amount, it.UOM,
		)
		if err != nil {
			return fmt.Errorf("ошибка вставки строки %d: %w", it.Idx, err)
		}

		if it.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) GetSupplierQuotation(ctx context.Context, name string) (*storage.SupplierQuotation, error) {
	const op = "storage.mysql.GetSupplierQuotation"

	stmt := `SELECT ` + quotationColumns + ` FROM supplier_quotations WHERE name = ?`

	sq, _, err := scanQuotation(s.db.QueryRowContext(ctx, stmt, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: заявка %q не найдена: %w", op, name, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.quotationItems(ctx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sq.Items = items[name]
	if sq.Items == nil {
		sq.Items = []storage.SupplierQuotationItem{}
	}

	return sq, nil
}

// UpdateSupplierQuotation перезаписывает шапку и табличную часть заявки.
func (s *Storage) UpdateSupplierQuotation(ctx context.Context, sq *storage.SupplierQuotation) error {
	const op = "storage.mysql.UpdateSupplierQuotation"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	stmt := `
		UPDATE supplier_quotations SET
			freight = ?, loading_charges = ?, distance_km = ?, location = ?, remarks = ?, party_name = ?,
			freight_per_unit = ?, labour_per_unit = ?,
			total_qty = ?, total_freight_cost = ?, labour_total_cost = ?, total = ?, grand_total = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE name = ?`

	res, err := tx.ExecContext(ctx, stmt,
		sq.Freight, sq.LoadingCharges, nullFloat(sq.DistanceKM), sq.Location, sq.Remarks, sq.PartyName,
		nullFloat(sq.FreightPerUnit), nullFloat(sq.LabourPerUnit),
		sq.TotalQty, sq.TotalFreightCost, sq.LabourTotalCost, sq.Total, sq.GrandTotal,
		sq.Name,
	)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления заявки: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM supplier_quotations WHERE name = ?)`, sq.Name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %q: %w", op, sq.Name, storage.ErrNotFound)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM supplier_quotation_items WHERE parent = ?`, sq.Name); err != nil {
		return fmt.Errorf("%s: ошибка удаления строк: %w", op, err)
	}

	if err := insertQuotationItems(ctx, tx, sq.Name, sq.Items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateWorkflowState(ctx context.Context, name string, state string) error {
	const op = "storage.mysql.UpdateWorkflowState"

	res, err := s.db.ExecContext(ctx,
		`UPDATE supplier_quotations SET workflow_state = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		state, name,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %q: %w", op, name, storage.ErrNotFound)
	}

	return nil
}

func quotationWhere(filter storage.QuotationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Supplier != "" {
		conds = append(conds, "supplier = ?")
		args = append(args, filter.Supplier)
	}
	if filter.WorkflowState != "" {
		conds = append(conds, "workflow_state = ?")
		args = append(args, filter.WorkflowState)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) ListSupplierQuotations(ctx context.Context, filter storage.QuotationFilter) ([]*storage.SupplierQuotation, error) {
	const op = "storage.mysql.ListSupplierQuotations"

	where, args := quotationWhere(filter)
	stmt := `SELECT ` + quotationColumns + ` FROM supplier_quotations` + where +
		` ORDER BY transaction_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageLength, filter.Start)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения заявок: %w", op, err)
	}
	defer rows.Close()

	var (
		quotations []*storage.SupplierQuotation
		names      []string
	)
	for rows.Next() {
		sq, _, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		quotations = append(quotations, sq)
		names = append(names, sq.Name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(names) == 0 {
		return quotations, nil
	}

	// все строки одним запросом
	items, err := s.quotationItems(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, sq := range quotations {
		sq.Items = items[sq.Name]
		if sq.Items == nil {
			sq.Items = []storage.SupplierQuotationItem{}
		}
	}

	return quotations, nil
}

func (s *Storage) CountSupplierQuotations(ctx context.Context, filter storage.QuotationFilter) (int, error) {
	const op = "storage.mysql.CountSupplierQuotations"

	where, args := quotationWhere(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supplier_quotations`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) quotationItems(ctx context.Context, parents []string) (map[string][]storage.SupplierQuotationItem, error) {
	stmt := `
		SELECT id, parent, idx, item_code, item_name, description, item_group, qty, rate, amount, uom
		FROM supplier_quotation_items
		WHERE parent IN (` + placeholders(len(parents)) + `)
		ORDER BY parent, idx`

	args := make([]any, len(parents))
	for i, p := range parents {
		args[i] = p
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения строк заявок: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]storage.SupplierQuotationItem, len(parents))
	for rows.Next() {
		var (
			it     storage.SupplierQuotationItem
			parent string
		)
		err := rows.Scan(&it.ID, &parent, &it.Idx, &it.ItemCode, &it.ItemName, &it.Description, &it.ItemGroup,
			&it.Qty, &it.Rate, &it.Amount, &it.UOM)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строк заявок: %w", err)
		}
		out[parent] = append(out[parent], it)
	}

	return out, rows.Err()
}

func (s *Storage) GetQuotationCharges(ctx context.Context, filter storage.ReportFilter) ([]storage.QuotationChargesRow, error) {
	const op = "storage.mysql.GetQuotationCharges"

	stmt := `
		SELECT name, supplier, transaction_date, freight, total_qty,
		       COALESCE(freight_per_unit, 0), total_freight_cost,
		       COALESCE(labour_per_unit, 0), labour_total_cost,
		       loading_charges, grand_total
		FROM supplier_quotations
		WHERE transaction_date >= ? AND transaction_date <= ?`
	args := []any{filter.From, filter.To}

	if filter.Supplier != "" {
		stmt += ` AND supplier = ?`
		args = append(args, filter.Supplier)
	}
	if len(filter.States) > 0 {
		stmt += ` AND workflow_state IN (` + placeholders(len(filter.States)) + `)`
		for _, st := range filter.States {
			args = append(args, st)
		}
	}
	stmt += ` ORDER BY transaction_date, id`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []storage.QuotationChargesRow
	for rows.Next() {
		var r storage.QuotationChargesRow
		err := rows.Scan(&r.Name, &r.Supplier, &r.TransactionDate, &r.Freight, &r.TotalQty,
			&r.FreightPerUnit, &r.TotalFreightCost, &r.LabourPerUnit, &r.LabourTotalCost,
			&r.LoadingCharges, &r.GrandTotal)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк: %w", op, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
