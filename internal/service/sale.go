package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/event"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/repository"
	"github.com/tnvu/storefront/internal/storage/db"
	"github.com/tnvu/storefront/pkg/outbox"
	"github.com/tnvu/storefront/pkg/ptr"
)

// CartLine is one requested (product, quantity) pair of a checkout.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// PaymentPreview is the result of a dry-run checkout: the computed total and
// an opaque payment reference, with no state mutated.
type PaymentPreview struct {
	PaymentID  string          `json:"payment_id"`
	QRCode     string          `json:"qr_code_base64"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type SaleService interface {
	// CreateSale converts a cart into a committed sale: stock decrements,
	// sale header, sale items with snapshot prices and the sale.committed
	// outbox message all land in a single transaction, or none of them do.
	CreateSale(ctx context.Context, ownerID uuid.UUID, cart []CartLine) (model.Sale, error)
	// PreviewPayment runs the same validation as CreateSale and computes the
	// would-be total without mutating anything.
	PreviewPayment(ctx context.Context, ownerID uuid.UUID, cart []CartLine) (PaymentPreview, error)
}

type saleService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewSaleService(
	db db.DB,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) SaleService {
	return &saleService{
		db:            db,
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

// resolvedLine pairs a cart line with the product snapshot taken during
// validation. The snapshot price is what the sale item records, not a later
// live read.
type resolvedLine struct {
	product  model.Product
	quantity int
}

func validateCart(cart []CartLine) error {
	for i, line := range cart {
		if line.ProductID == uuid.Nil {
			return apperr.ValidationErr.WithMsg("cart line %d: product id is required", i)
		}
		if line.Quantity < 1 {
			return apperr.ValidationErr.WithMsg("cart line %d: quantity must be at least 1", i)
		}
	}
	return nil
}

// resolveCart locates every product scoped to the owner and checks requested
// quantity against available stock. Read-only; an empty cart resolves to a
// zero total.
func resolveCart(ctx context.Context, productRepo repository.ProductRepository, ownerID uuid.UUID, cart []CartLine) ([]resolvedLine, decimal.Decimal, error) {
	lines := make([]resolvedLine, 0, len(cart))
	total := decimal.Zero

	for _, cartLine := range cart {
		product, err := productRepo.GetProductForOwner(ctx, ownerID, cartLine.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("resolve cart line %s: %w", cartLine.ProductID, err)
		}

		if product.StockQuantity < cartLine.Quantity {
			return nil, decimal.Zero, apperr.InsufficientStockErr.WithMsg(
				"product %s does not have enough stock: requested %d, available %d",
				product.Name, cartLine.Quantity, product.StockQuantity)
		}

		lines = append(lines, resolvedLine{product: product, quantity: cartLine.Quantity})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(cartLine.Quantity))))
	}

	return lines, total, nil
}

func (s *saleService) CreateSale(ctx context.Context, ownerID uuid.UUID, cart []CartLine) (model.Sale, error) {
	if err := validateCart(cart); err != nil {
		return model.Sale{}, err
	}

	var sale model.Sale

	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		productRepo := s.productRepo.WithDB(tx)

		lines, total, err := resolveCart(ctx, productRepo, ownerID, cart)
		if err != nil {
			return err
		}

		// Stock is re-checked here under the transaction: the guarded update
		// decrements and verifies availability in one statement, so a cart
		// that raced past the validation read still cannot oversell.
		for _, line := range lines {
			if err := productRepo.DecrementStock(ctx, ownerID, line.product.ID, line.quantity); err != nil {
				return err
			}
		}

		saleID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate sale id: %w", err)
		}

		sale = model.Sale{
			ID:         saleID,
			UserID:     ownerID,
			TotalPrice: total,
			CreatedAt:  time.Now().UTC(),
		}

		if err := s.saleRepo.WithDB(tx).CreateSale(ctx, sale); err != nil {
			return err
		}

		items := make([]model.SaleItem, 0, len(lines))
		for _, line := range lines {
			itemID, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate sale item id: %w", err)
			}
			items = append(items, model.SaleItem{
				ID:           itemID,
				SaleID:       sale.ID,
				ProductID:    line.product.ID,
				Quantity:     line.quantity,
				ProductPrice: line.product.Price,
			})
		}

		if err := s.saleRepo.WithDB(tx).CreateSaleItems(ctx, items); err != nil {
			return err
		}

		return s.enqueueSaleCommitted(ctx, tx, sale, items)
	}); err != nil {
		return model.Sale{}, fmt.Errorf("create sale: %w", err)
	}

	return sale, nil
}

func (s *saleService) enqueueSaleCommitted(ctx context.Context, tx db.DB, sale model.Sale, items []model.SaleItem) error {
	ev := event.SaleCommittedEvent{
		SaleID:     sale.ID.String(),
		UserID:     sale.UserID.String(),
		TotalPrice: sale.TotalPrice.String(),
		CreatedAt:  sale.CreatedAt,
	}
	for _, item := range items {
		ev.Items = append(ev.Items, event.SaleCommittedItem{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			ProductPrice: item.ProductPrice.String(),
		})
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal sale committed event: %w", err)
	}

	if err := s.outboxMsgRepo.WithDB(tx).CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:   event.TopicSaleCommitted,
		Headers: outbox.BuildHeaders(ctx),
		Payload: payload,
		// Partition by owner so a tenant's sale events stay ordered.
		PartitionKey: ptr.New(sale.UserID.String()),
	}); err != nil {
		return fmt.Errorf("enqueue sale committed event: %w", err)
	}

	return nil
}

func (s *saleService) PreviewPayment(ctx context.Context, ownerID uuid.UUID, cart []CartLine) (PaymentPreview, error) {
	if err := validateCart(cart); err != nil {
		return PaymentPreview{}, err
	}

	_, total, err := resolveCart(ctx, s.productRepo, ownerID, cart)
	if err != nil {
		return PaymentPreview{}, fmt.Errorf("preview payment: %w", err)
	}

	paymentID, err := uuid.NewV7()
	if err != nil {
		return PaymentPreview{}, fmt.Errorf("generate payment id: %w", err)
	}

	return PaymentPreview{
		PaymentID: "PAY_" + paymentID.String(),
		// Stub payload; a payment provider integration would supply a real
		// QR code here.
		QRCode:     "payment-qr-code-simulation",
		TotalPrice: total,
	}, nil
}
