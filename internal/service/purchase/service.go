package purchase

import (
	"broker-app/internal/service/charges"
	"broker-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"time"
)

var (
	ErrNoServiceItem          = errors.New("no active service item found in item master")
	ErrMissingFreightRate     = errors.New("freight item rate is missing")
	ErrNoMaterialItems        = errors.New("supplier quotation has no material items")
	ErrLoadingChargesRequired = errors.New("loading charges must be greater than 0 when freight is exclusive")
	ErrAlreadySubmitted       = errors.New("purchase order already submitted")
	ErrQuotationNotApproved   = errors.New("supplier quotation is not approved")
)

const defaultPageLength = 20

type FreightTerms interface {
	FreightTerms() (freight string, loadingCharges float64)
}

// ValidateFreightRules: при раздельном фрахте погрузка обязательна.
func ValidateFreightRules(doc FreightTerms) error {
	freight, loading := doc.FreightTerms()
	if freight == storage.FreightExclusive && loading <= 0 {
		return ErrLoadingChargesRequired
	}
	return nil
}

type PurchaseStorage interface {
	GetServiceItem(ctx context.Context) (*storage.ServiceItem, error)
	GetItemPrice(ctx context.Context, itemCode string, priceList string) (float64, error)
	ConvertQuotation(ctx context.Context, quotationName string, pos []*storage.PurchaseOrder) error
	CreatePurchaseOrder(ctx context.Context, po *storage.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, name string) (*storage.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter storage.PurchaseOrderFilter) ([]*storage.PurchaseOrder, error)
	CountPurchaseOrders(ctx context.Context, filter storage.PurchaseOrderFilter) (int, error)
	SubmitPurchaseOrder(ctx context.Context, name string) error
	GetSupplierQuotation(ctx context.Context, name string) (*storage.SupplierQuotation, error)
	UpdateWorkflowState(ctx context.Context, name string, state string) error
}

type Service struct {
	log       *slog.Logger
	storage   PurchaseStorage
	priceList string
	now       func() time.Time
}

func NewService(log *slog.Logger, storage PurchaseStorage, priceList string) *Service {
	return &Service{
		log:       log,
		storage:   storage,
		priceList: priceList,
		now:       time.Now,
	}
}

type ListResult struct {
	Data       []*storage.PurchaseOrder `json:"data"`
	TotalCount int                      `json:"total_count"`
	Start      int                      `json:"start"`
	PageLength int                      `json:"page_length"`
}

// CreateFromQuotation создаёт заказ на материалы и, если фрахт не включён
// в цену, отдельный заказ на транспорт. Оба заказа проводятся сразу.
func (s *Service) CreateFromQuotation(ctx context.Context, sq *storage.SupplierQuotation) ([]*storage.PurchaseOrder, error) {
	const op = "service.purchase.CreateFromQuotation"

	if err := ValidateFreightRules(sq); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, sq.Name, err)
	}

	material, err := s.materialOrder(sq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pos := []*storage.PurchaseOrder{material}

	if sq.Freight != storage.FreightInclusive {
		transport, err := s.transportOrder(ctx, sq)
		if err != nil {
			s.log.Error("transport purchase order failed",
				slog.String("op", op),
				slog.String("supplier_quotation", sq.Name),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pos = append(pos, transport)
	}

	if err := s.storage.ConvertQuotation(ctx, sq.Name, pos); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pos, nil
}

// CreateDraft создаёт непроведённый заказ по утверждённой заявке. Заявка
// переходит в "Converted to PO" только при проведении заказа.
func (s *Service) CreateDraft(ctx context.Context, quotationName string) (*storage.PurchaseOrder, error) {
	const op = "service.purchase.CreateDraft"

	sq, err := s.storage.GetSupplierQuotation(ctx, quotationName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if sq.WorkflowState != storage.StateApproved {
		return nil, fmt.Errorf("%s: %s in state %q: %w", op, sq.Name, sq.WorkflowState, ErrQuotationNotApproved)
	}

	po, err := s.materialOrder(sq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	po.DocStatus = 0
	po.Status = storage.POStatusDraft

	// второй черновик по той же заявке хранилище отклоняет с ErrAlreadyExists
	if err := s.storage.CreatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return po, nil
}

func (s *Service) newOrder(sq *storage.SupplierQuotation) *storage.PurchaseOrder {
	today := s.now().Truncate(24 * time.Hour)

	return &storage.PurchaseOrder{
		Supplier:          sq.Supplier,
		SupplierName:      sq.SupplierName,
		SupplierQuotation: sq.Name,
		Company:           sq.Company,
		TransactionDate:   today,
		ScheduleDate:      today,
		Status:            storage.POStatusToReceive,
		DocStatus:         1,
		Freight:           sq.Freight,
		LoadingCharges:    sq.LoadingCharges,
	}
}

func (s *Service) materialOrder(sq *storage.SupplierQuotation) (*storage.PurchaseOrder, error) {
	po := s.newOrder(sq)

	for _, item := range sq.Items {
		if item.ItemGroup == storage.ItemGroupServices {
			continue
		}

		id := item.ID
		po.Items = append(po.Items, storage.PurchaseOrderItem{
			ItemCode:              item.ItemCode,
			ItemName:              item.ItemName,
			Description:           item.Description,
			Qty:                   item.Qty,
			Rate:                  item.Rate,
			UOM:                   item.UOM,
			ScheduleDate:          po.ScheduleDate,
			SupplierQuotation:     sq.Name,
			SupplierQuotationItem: &id,
		})
	}

	if len(po.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", sq.Name, ErrNoMaterialItems)
	}

	charges.PurchaseOrderTotals(po)

	return po, nil
}

func (s *Service) transportOrder(ctx context.Context, sq *storage.SupplierQuotation) (*storage.PurchaseOrder, error) {
	item, err := s.storage.GetServiceItem(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoServiceItem
		}
		return nil, err
	}

	rate, err := s.storage.GetItemPrice(ctx, item.ItemCode, s.priceList)
	if err != nil {
		return nil, err
	}
	if rate == 0 {
		return nil, fmt.Errorf("%s: %w", item.ItemCode, ErrMissingFreightRate)
	}

	po := s.newOrder(sq)
	po.Items = []storage.PurchaseOrderItem{{
		ItemCode:          item.ItemCode,
		ItemName:          item.ItemName,
		Description:       fmt.Sprintf("Transport Charges for %s", sq.Name),
		Qty:               1,
		Rate:              rate,
		UOM:               item.StockUOM,
		ScheduleDate:      po.ScheduleDate,
		SupplierQuotation: sq.Name,
	}}

	charges.PurchaseOrderTotals(po)

	return po, nil
}

func (s *Service) Get(ctx context.Context, name string) (*storage.PurchaseOrder, error) {
	const op = "service.purchase.Get"

	po, err := s.storage.GetPurchaseOrder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return po, nil
}

func (s *Service) List(ctx context.Context, filter storage.PurchaseOrderFilter) (*ListResult, error) {
	const op = "service.purchase.List"

	if filter.PageLength <= 0 {
		filter.PageLength = defaultPageLength
	}
	if filter.Start < 0 {
		filter.Start = 0
	}

	var (
		orders []*storage.PurchaseOrder
		total  int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.storage.ListPurchaseOrders(gCtx, filter)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.storage.CountPurchaseOrders(gCtx, filter)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if orders == nil {
		orders = []*storage.PurchaseOrder{}
	}

	return &ListResult{
		Data:       orders,
		TotalCount: total,
		Start:      filter.Start,
		PageLength: filter.PageLength,
	}, nil
}

// Submit проводит заказ и переводит связанные заявки в "Converted to PO".
func (s *Service) Submit(ctx context.Context, name string) (*storage.PurchaseOrder, error) {
	const op = "service.purchase.Submit"

	po, err := s.storage.GetPurchaseOrder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if po.DocStatus == 1 {
		return nil, fmt.Errorf("%s: %s: %w", op, name, ErrAlreadySubmitted)
	}

	if err := ValidateFreightRules(po); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, name, err)
	}

	if err := s.storage.SubmitPurchaseOrder(ctx, name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	po.DocStatus = 1
	po.Status = storage.POStatusToReceive

	if err := s.updateQuotationStatus(ctx, po); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return po, nil
}

func (s *Service) updateQuotationStatus(ctx context.Context, po *storage.PurchaseOrder) error {
	seen := make(map[string]bool)

	for _, item := range po.Items {
		if item.SupplierQuotation == "" || seen[item.SupplierQuotation] {
			continue
		}
		seen[item.SupplierQuotation] = true

		sq, err := s.storage.GetSupplierQuotation(ctx, item.SupplierQuotation)
		if err != nil {
			return fmt.Errorf("supplier quotation %s: %w", item.SupplierQuotation, err)
		}

		if sq.WorkflowState == storage.StateConvertedToPO {
			continue
		}

		if err := s.storage.UpdateWorkflowState(ctx, sq.Name, storage.StateConvertedToPO); err != nil {
			return fmt.Errorf("supplier quotation %s: %w", sq.Name, err)
		}

		s.log.Info("supplier quotation converted to PO",
			slog.String("supplier_quotation", sq.Name),
			slog.String("purchase_order", po.Name),
		)
	}

	return nil
}
