package quotation

import (
	"broker-app/internal/form"
	"broker-app/internal/service/purchase"
	"broker-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"time"
)

var (
	ErrNotEditable       = errors.New("supplier quotation is not editable")
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrValidation        = errors.New("validation failed")
)

const defaultPageLength = 20

// переходы workflow: из состояния → допустимые состояния
var transitions = map[string][]string{
	storage.StateDraft:           {storage.StatePendingApproval},
	storage.StatePendingApproval: {storage.StateApproved, storage.StateRejected, storage.StateDraft},
	storage.StateApproved:        {storage.StateConvertedToPO},
	storage.StateRejected:        {storage.StateDraft},
}

type QuotationStorage interface {
	CreateSupplierQuotation(ctx context.Context, sq *storage.SupplierQuotation) error
	GetSupplierQuotation(ctx context.Context, name string) (*storage.SupplierQuotation, error)
	UpdateSupplierQuotation(ctx context.Context, sq *storage.SupplierQuotation) error
	ListSupplierQuotations(ctx context.Context, filter storage.QuotationFilter) ([]*storage.SupplierQuotation, error)
	CountSupplierQuotations(ctx context.Context, filter storage.QuotationFilter) (int, error)
	UpdateWorkflowState(ctx context.Context, name string, state string) error
	GetParties(ctx context.Context, filters map[string]any) ([]storage.Party, error)
}

type PurchaseOrderCreator interface {
	CreateFromQuotation(ctx context.Context, sq *storage.SupplierQuotation) ([]*storage.PurchaseOrder, error)
}

type Service struct {
	log       *slog.Logger
	storage   QuotationStorage
	purchases PurchaseOrderCreator
	registry  *form.Registry
	validate  *validator.Validate
	now       func() time.Time
}

func NewService(log *slog.Logger, storage QuotationStorage, purchases PurchaseOrderCreator) *Service {
	reg := form.NewRegistry()
	RegisterFormScript(reg)

	return &Service{
		log:       log,
		storage:   storage,
		purchases: purchases,
		registry:  reg,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

type CreateItem struct {
	ItemCode    string   `json:"item_code" validate:"required"`
	ItemName    string   `json:"item_name"`
	Description string   `json:"description"`
	ItemGroup   string   `json:"item_group"`
	Qty         *float64 `json:"qty" validate:"omitempty,gte=0"`
	Rate        *float64 `json:"rate" validate:"omitempty,gte=0"`
	UOM         string   `json:"uom"`
}

type CreateRequest struct {
	Supplier        string       `json:"supplier" validate:"required"`
	SupplierName    string       `json:"supplier_name"`
	Company         string       `json:"company"`
	TransactionDate string       `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
	ValidTill       string       `json:"valid_till" validate:"omitempty,datetime=2006-01-02"`
	Freight         string       `json:"freight" validate:"required,oneof=Inclusive Exclusive"`
	LoadingCharges  *float64     `json:"loading_charges" validate:"omitempty,gte=0"`
	FreightPerUnit  *float64     `json:"freight_per_unit" validate:"omitempty,gte=0"`
	LabourPerUnit   *float64     `json:"labour_per_unit" validate:"omitempty,gte=0"`
	DistanceKM      *float64     `json:"distance_km"`
	Location        string       `json:"location"`
	Remarks         string       `json:"remarks"`
	PartyName       string       `json:"party_name"`
	Items           []CreateItem `json:"items" validate:"required,min=1,dive"`
	Submit          bool         `json:"submit"`
}

// Event: изменение, пришедшее из формы. Idx > 0 адресует строку таблицы.
type Event struct {
	Event string                         `json:"event" validate:"required"`
	Idx   int                            `json:"idx" validate:"gte=0"`
	Value any                            `json:"value"`
	Item  *storage.SupplierQuotationItem `json:"item,omitempty"`
}

type ListResult struct {
	Data       []*storage.SupplierQuotation `json:"data"`
	TotalCount int                          `json:"total_count"`
	Start      int                          `json:"start"`
	PageLength int                          `json:"page_length"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*storage.SupplierQuotation, error) {
	const op = "service.quotation.Create"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
	}

	doc := &storage.SupplierQuotation{
		Supplier:       req.Supplier,
		SupplierName:   req.SupplierName,
		Company:        req.Company,
		Freight:        req.Freight,
		FreightPerUnit: req.FreightPerUnit,
		LabourPerUnit:  req.LabourPerUnit,
		DistanceKM:     req.DistanceKM,
		Location:       req.Location,
		Remarks:        req.Remarks,
		PartyName:      req.PartyName,
		WorkflowState:  storage.StateDraft,
	}
	if doc.SupplierName == "" {
		doc.SupplierName = req.Supplier
	}
	if req.LoadingCharges != nil {
		doc.LoadingCharges = *req.LoadingCharges
	}

	doc.TransactionDate = s.now().Truncate(24 * time.Hour)
	if req.TransactionDate != "" {
		// формат уже проверен валидатором
		doc.TransactionDate, _ = time.Parse(time.DateOnly, req.TransactionDate)
	}
	if req.ValidTill != "" {
		validTill, _ := time.Parse(time.DateOnly, req.ValidTill)
		doc.ValidTill = &validTill
	}

	for _, it := range req.Items {
		item := storage.SupplierQuotationItem{
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			Description: it.Description,
			ItemGroup:   it.ItemGroup,
			Qty:         1,
			UOM:         it.UOM,
		}
		if it.Qty != nil {
			item.Qty = *it.Qty
		}
		if it.Rate != nil {
			item.Rate = *it.Rate
		}
		if item.UOM == "" {
			item.UOM = "Nos"
		}
		if item.ItemName == "" {
			item.ItemName = item.ItemCode
		}
		doc.Items = append(doc.Items, item)
	}

	f := form.New(s.registry, doc)
	f.Load()
	calculateCharges(f)

	if req.Submit {
		if err := purchase.ValidateFreightRules(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		doc.WorkflowState = storage.StatePendingApproval
	}

	if err := s.storage.CreateSupplierQuotation(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("supplier quotation created",
		slog.String("name", doc.Name),
		slog.String("supplier", doc.Supplier),
		slog.Float64("grand_total", doc.GrandTotal),
	)

	return doc, nil
}

func (s *Service) Get(ctx context.Context, name string) (*storage.SupplierQuotation, error) {
	const op = "service.quotation.Get"

	sq, err := s.storage.GetSupplierQuotation(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sq, nil
}

func (s *Service) List(ctx context.Context, filter storage.QuotationFilter) (*ListResult, error) {
	const op = "service.quotation.List"

	if filter.PageLength <= 0 {
		filter.PageLength = defaultPageLength
	}
	if filter.Start < 0 {
		filter.Start = 0
	}

	var (
		quotations []*storage.SupplierQuotation
		total      int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quotations, err = s.storage.ListSupplierQuotations(gCtx, filter)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.storage.CountSupplierQuotations(gCtx, filter)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if quotations == nil {
		quotations = []*storage.SupplierQuotation{}
	}

	return &ListResult{
		Data:       quotations,
		TotalCount: total,
		Start:      filter.Start,
		PageLength: filter.PageLength,
	}, nil
}

// ApplyEvent применяет изменение формы к сохранённой заявке и сохраняет
// пересчитанный документ.
func (s *Service) ApplyEvent(ctx context.Context, name string, ev Event) (*storage.SupplierQuotation, error) {
	const op = "service.quotation.ApplyEvent"

	if err := s.validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
	}

	doc, err := s.storage.GetSupplierQuotation(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if doc.WorkflowState != storage.StateDraft {
		return nil, fmt.Errorf("%s: %s in state %q: %w", op, name, doc.WorkflowState, ErrNotEditable)
	}

	f := form.New(s.registry, doc)
	f.Load()

	switch {
	case ev.Event == form.EventItemsRemove:
		err = f.RemoveItem(ev.Idx)
	case ev.Event == form.EventItemsAdd:
		if ev.Item == nil {
			return nil, fmt.Errorf("%s: item is required: %w", op, ErrValidation)
		}
		f.AddItem(*ev.Item)
		// новая строка меняет total_qty так же, как изменение qty
		err = f.SetItemValue(len(doc.Items), "qty", ev.Item.Qty)
	case ev.Idx > 0:
		err = f.SetItemValue(ev.Idx, ev.Event, ev.Value)
	default:
		err = f.SetValue(ev.Event, ev.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateSupplierQuotation(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("form event applied",
		slog.String("name", name),
		slog.String("event", ev.Event),
		slog.Int("idx", ev.Idx),
		slog.Float64("total_qty", doc.TotalQty),
		slog.Float64("total_freight_cost", doc.TotalFreightCost),
		slog.Float64("labour_total_cost", doc.LabourTotalCost),
	)

	return doc, nil
}

// PreviewCharges прогоняет скрипт формы по несохранённой заявке.
func (s *Service) PreviewCharges(ctx context.Context, doc *storage.SupplierQuotation) (*storage.SupplierQuotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service.quotation.PreviewCharges: %w", err)
	}

	f := form.New(s.registry, doc)
	f.Load()
	calculateCharges(f)

	return doc, nil
}

// PartyLookup возвращает контрагентов для поля party_name с учётом фильтра,
// который форма устанавливает при загрузке.
func (s *Service) PartyLookup(ctx context.Context, name string) ([]storage.Party, error) {
	const op = "service.quotation.PartyLookup"

	doc, err := s.storage.GetSupplierQuotation(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := form.New(s.registry, doc)
	f.Load()

	var filters map[string]any
	if q, ok := f.Query(PartyField); ok {
		filters = q.Filters
	}

	parties, err := s.storage.GetParties(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return parties, nil
}

// UpdateWorkflowState переводит заявку в новое состояние. Переход в
// "Converted to PO" создаёт заказы на закупку, если они ещё не созданы.
func (s *Service) UpdateWorkflowState(ctx context.Context, name string, state string) (*storage.SupplierQuotation, error) {
	const op = "service.quotation.UpdateWorkflowState"

	doc, err := s.storage.GetSupplierQuotation(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !canTransition(doc.WorkflowState, state) {
		return nil, fmt.Errorf("%s: %q -> %q: %w", op, doc.WorkflowState, state, ErrInvalidTransition)
	}

	if state == storage.StatePendingApproval {
		if err := purchase.ValidateFreightRules(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if state == storage.StateConvertedToPO {
		if doc.POCreated {
			s.log.Warn("purchase orders already created", slog.String("name", name))
		} else {
			pos, err := s.purchases.CreateFromQuotation(ctx, doc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			names := make([]string, 0, len(pos))
			for _, po := range pos {
				names = append(names, po.Name)
			}
			s.log.Info("purchase orders created", slog.String("name", name), slog.Any("purchase_orders", names))

			doc.POCreated = true
			doc.WorkflowState = state
			return doc, nil
		}
	}

	if err := s.storage.UpdateWorkflowState(ctx, name, state); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc.WorkflowState = state

	return doc, nil
}

func canTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
