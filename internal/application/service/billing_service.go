package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sangkips/stockroom-api/internal/config"
	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
	"github.com/sangkips/stockroom-api/pkg/apperror"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

// BillingService runs point-of-sale sessions: building a cart against live
// stock and turning it into a bill.
type BillingService struct {
	sessions     session.Store
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	billRepo     repository.BillRepository
	cfg          config.BillingConfig
	locks        session.Locker
	now          func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(
	sessions session.Store,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	billRepo repository.BillRepository,
	locks session.Locker,
	cfg config.BillingConfig,
) *BillingService {
	if locks == nil {
		locks = session.NewMemoryLocker()
	}
	return &BillingService{
		sessions:     sessions,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		billRepo:     billRepo,
		cfg:          cfg,
		locks:        locks,
		now:          time.Now,
	}
}

// SessionView is a session together with its freshly computed totals.
type SessionView struct {
	Session *billing.Session
	Totals  billing.BillTotals
}

func (s *BillingService) view(sess *billing.Session) *SessionView {
	return &SessionView{Session: sess, Totals: sess.Totals(s.cfg.TaxRate)}
}

func stockEntry(p *entity.Product) billing.StockEntry {
	return billing.StockEntry{
		ID:                p.ID,
		Name:              p.Name,
		UnitPrice:         p.Price,
		AvailableQuantity: p.CurrentStock,
		Category:          p.Category,
	}
}

// load fetches a session and checks it belongs to userID.
func (s *BillingService) load(ctx context.Context, userID, sessionID uuid.UUID) (*billing.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if sess.UserID != userID {
		// another cashier's session is reported as missing
		return nil, apperror.NewNotFoundError("Billing session")
	}
	return sess, nil
}

// lock takes the session lock; a session held past the wait limit is
// reported as busy.
func (s *BillingService) lock(ctx context.Context, sessionID uuid.UUID) (func(), error) {
	unlock, err := s.locks.Lock(ctx, sessionID)
	if errors.Is(err, session.ErrLockTimeout) {
		return nil, &apperror.AppError{
			Code:    http.StatusConflict,
			Message: "Session is busy, try again",
			Reason:  ReasonSessionBusy,
		}
	}
	return unlock, err
}

// mutate serializes changes to one session: load, apply fn, save.
func (s *BillingService) mutate(ctx context.Context, userID, sessionID uuid.UUID, fn func(*billing.Session) error) (*SessionView, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, mapDomainError(err)
	}

	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// CreateSession opens an empty billing session for userID
func (s *BillingService) CreateSession(ctx context.Context, userID uuid.UUID) (*SessionView, error) {
	sess := billing.NewSession(userID, s.now())
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// GetSession returns a session with current totals
func (s *BillingService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// DeleteSession discards a session and its cart
func (s *BillingService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.load(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

// AddItem adds one unit of a product to the session's cart
func (s *BillingService) AddItem(ctx context.Context, userID, sessionID, productID uuid.UUID) (*SessionView, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.mutate(ctx, userID, sessionID, func(sess *billing.Session) error {
		return sess.Cart.AddItem(stockEntry(product))
	})
}

// SetQuantityInput represents the set quantity input
type SetQuantityInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// SetQuantity sets an absolute quantity for a cart line, re-checking stock.
// Zero or less removes the line.
func (s *BillingService) SetQuantity(ctx context.Context, input *SetQuantityInput) (*SessionView, error) {
	var ledger billing.StockLedger
	if input.Quantity > 0 {
		products, err := s.productRepo.GetByIDs(ctx, []uuid.UUID{input.ProductID})
		if err != nil {
			return nil, err
		}
		entries := make([]billing.StockEntry, 0, len(products))
		for i := range products {
			entries = append(entries, stockEntry(&products[i]))
		}
		ledger = billing.NewLedger(entries)
	}

	return s.mutate(ctx, input.UserID, input.SessionID, func(sess *billing.Session) error {
		return sess.Cart.SetQuantity(ledger, input.ProductID, input.Quantity)
	})
}

// RemoveItem drops a line from the cart. Unknown items are ignored.
func (s *BillingService) RemoveItem(ctx context.Context, userID, sessionID, productID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(sess *billing.Session) error {
		sess.Cart.RemoveItem(productID)
		return nil
	})
}

// ResetSession clears the cart and all bill-level choices
func (s *BillingService) ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(sess *billing.Session) error {
		sess.Reset()
		return nil
	})
}

// UpdateAdjustmentsInput carries optional changes; nil fields are left as is.
type UpdateAdjustmentsInput struct {
	UserID          uuid.UUID
	SessionID       uuid.UUID
	CustomerID      *uuid.UUID
	ClearCustomer   bool
	DiscountPercent *decimal.Decimal
	TaxEnabled      *bool
	Notes           *string
}

// UpdateAdjustments changes the customer, discount, tax flag or notes
func (s *BillingService) UpdateAdjustments(ctx context.Context, input *UpdateAdjustmentsInput) (*SessionView, error) {
	var customer *entity.Customer
	if input.CustomerID != nil && !input.ClearCustomer {
		c, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customer = c
	}

	if input.DiscountPercent != nil && (input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100))) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_percent", Message: "must be between 0 and 100"},
		})
	}

	return s.mutate(ctx, input.UserID, input.SessionID, func(sess *billing.Session) error {
		switch {
		case input.ClearCustomer:
			sess.Customer = nil
		case customer != nil:
			sess.Customer = &billing.CustomerRef{ID: customer.ID, Name: customer.Name}
		}
		if input.DiscountPercent != nil {
			sess.DiscountPercent = billing.ClampPercent(*input.DiscountPercent)
		}
		if input.TaxEnabled != nil {
			sess.TaxEnabled = *input.TaxEnabled
		}
		if input.Notes != nil {
			sess.Notes = strings.TrimSpace(*input.Notes)
		}
		return nil
	})
}

// GenerateBillOutput is the persisted bill plus the session after the
// post-generation policy ran.
type GenerateBillOutput struct {
	Bill    *entity.Bill
	Session *SessionView
}

// GenerateBill builds a bill from the session, takes the sold units out of
// stock and saves the bill in one transaction. Afterwards the cart is
// cleared or kept depending on BillingConfig.ClearCartAfterBill.
func (s *BillingService) GenerateBill(ctx context.Context, userID, sessionID uuid.UUID) (*GenerateBillOutput, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Customer != nil {
		customer, err := s.customerRepo.GetByID(ctx, sess.Customer.ID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		sess.Customer.Name = customer.Name
	}

	bill, err := billing.BuildBill(billing.BuildInput{
		Cart:     sess.Cart,
		Customer: sess.Customer,
		Options:  sess.Options(s.cfg.TaxRate),
		Notes:    sess.Notes,
		UserID:   userID,
	}, s.now)
	if err != nil {
		return nil, mapDomainError(err)
	}

	failedIDs, err := s.createBill(ctx, bill)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		return nil, s.stockShortfall(sess.Cart, failedIDs)
	}

	log.Info().
		Str("bill_no", bill.BillNo).
		Str("session_id", sessionID.String()).
		Str("grand_total", bill.GrandTotal.StringFixed(2)).
		Int("lines", len(bill.Items)).
		Msg("bill generated")

	if s.cfg.ClearCartAfterBill {
		sess.Reset()
	}
	sess.LastBillID = &bill.ID
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		// bill is committed; only the session write failed
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to save session after bill")
	}

	return &GenerateBillOutput{Bill: bill, Session: s.view(sess)}, nil
}

// maxBillNoAttempts bounds retries when a generated bill number is taken.
const maxBillNoAttempts = 3

func (s *BillingService) createBill(ctx context.Context, bill *entity.Bill) ([]uuid.UUID, error) {
	for attempt := 1; ; attempt++ {
		failedIDs, err := s.billRepo.CreateWithStock(ctx, bill)
		if !errors.Is(err, repository.ErrDuplicateBillNo) || attempt == maxBillNoAttempts {
			return failedIDs, err
		}
		log.Warn().Str("bill_no", bill.BillNo).Int("attempt", attempt).Msg("bill number taken, regenerating")
		bill.BillNo = utils.GenerateBillNo()
	}
}

func (s *BillingService) stockShortfall(cart *billing.Cart, failedIDs []uuid.UUID) error {
	names := make([]string, 0, len(failedIDs))
	for _, id := range failedIDs {
		if line, ok := cart.Line(id); ok {
			names = append(names, line.Name)
		}
	}
	return &apperror.AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Insufficient stock for: %s", strings.Join(names, ", ")),
		Reason:  ReasonInsufficientStock,
	}
}
