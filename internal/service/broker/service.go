package broker

import (
	"broker-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"log/slog"
)

var ErrValidation = errors.New("validation failed")

type BrokerStorage interface {
	CreateBroker(ctx context.Context, b *storage.Broker) error
	ListBrokers(ctx context.Context, start, limit int) ([]storage.Broker, error)
	CountBrokers(ctx context.Context) (int, error)
}

type Service struct {
	log      *slog.Logger
	storage  BrokerStorage
	validate *validator.Validate
}

func NewService(log *slog.Logger, storage BrokerStorage) *Service {
	return &Service{
		log:      log,
		storage:  storage,
		validate: validator.New(),
	}
}

type CreateRequest struct {
	BrokerName    string  `json:"broker_name" validate:"required"`
	ItemName      string  `json:"item_name" validate:"required"`
	ItemRate      float64 `json:"item_rate" validate:"gte=0"`
	Taxes         float64 `json:"taxes" validate:"gte=0"`
	VehicleNumber string  `json:"vehicle_number" validate:"required"`
}

type Page struct {
	Data       []storage.Broker `json:"data"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// Create сохраняет брокера сразу проведённым.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*storage.Broker, error) {
	const op = "service.broker.Create"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
	}

	b := &storage.Broker{
		BrokerName:    req.BrokerName,
		ItemName:      req.ItemName,
		ItemRate:      req.ItemRate,
		Taxes:         req.Taxes,
		VehicleNumber: req.VehicleNumber,
		DocStatus:     1,
	}

	if err := s.storage.CreateBroker(ctx, b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("broker created", slog.String("name", b.Name), slog.String("vehicle", b.VehicleNumber))

	return b, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	const op = "service.broker.List"

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var (
		brokers []storage.Broker
		total   int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		brokers, err = s.storage.ListBrokers(gCtx, (page-1)*pageSize, pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.storage.CountBrokers(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if brokers == nil {
		brokers = []storage.Broker{}
	}

	return &Page{Data: brokers, TotalCount: total, Page: page, PageSize: pageSize}, nil
}
