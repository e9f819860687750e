package checkout

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
	"orderdesk/internal/validate"
)

// CartRequest checks out the customer's saved cart.
type CartRequest struct {
	CustomerID     string
	PaymentMethod  string
	Shipping       *domain.ProfileUpdate
	IdempotencyKey string
}

// WalkInRequest checks out an explicit item list entered by staff.
// ClientTotal is compared against the computed total but never used.
type WalkInRequest struct {
	Customer       domain.WalkInCustomer
	Items          []Line
	PaymentMethod  string
	ClientTotal    *decimal.Decimal
	IdempotencyKey string
}

type Result struct {
	OrderID             string
	CustomerID          string
	Total               decimal.Decimal
	Items               []domain.OrderItem
	Replayed            bool
	GuestCreated        bool
	ClientTotalMismatch bool
	LowStock            []Reservation
}

// Coordinator runs each checkout as a single transaction over the validator,
// order writer, reservation and profile sync steps.
type Coordinator struct {
	DB      *sqlx.DB
	Bind    Binder
	Metrics *Metrics
	// Timeout bounds one attempt including lock waits; zero means none.
	Timeout time.Duration
	// OnTransition, when set, observes every state change.
	OnTransition func(path Path, from, to State)
}

func NewCoordinator(db *sqlx.DB, m *Metrics, timeout time.Duration) *Coordinator {
	return &Coordinator{DB: db, Bind: RepoStores, Metrics: m, Timeout: timeout}
}

// attempt carries one checkout through the state machine.
type attempt struct {
	path           Path
	state          State
	customerID     string
	paymentMethod  string
	idempotencyKey string
	shipping       *domain.ProfileUpdate
	clearCart      bool

	customer func(ctx context.Context, s Stores) (id string, created bool, err error)
	lines    func(ctx context.Context, s Stores, customerID string) ([]Line, error)
}

// CheckoutFromCart turns the customer's cart into a PENDING order. The cart
// is emptied and the shipping details stored in the same transaction.
func (c *Coordinator) CheckoutFromCart(ctx context.Context, req CartRequest) (Result, error) {
	a := &attempt{
		path:           PathCart,
		customerID:     req.CustomerID,
		paymentMethod:  req.PaymentMethod,
		idempotencyKey: strings.TrimSpace(req.IdempotencyKey),
		shipping:       req.Shipping,
		clearCart:      true,
		customer: func(ctx context.Context, s Stores) (string, bool, error) {
			if _, err := s.Customers.Profile(ctx, req.CustomerID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return "", false, ErrCustomerNotFound
				}
				return "", false, persistence("load customer", err)
			}
			return req.CustomerID, false, nil
		},
		lines: func(ctx context.Context, s Stores, customerID string) ([]Line, error) {
			cart, err := s.Carts.Lines(ctx, customerID)
			if err != nil {
				return nil, persistence("read cart", err)
			}
			out := make([]Line, len(cart))
			for i, l := range cart {
				out[i] = Line{ProductID: l.ProductID, Quantity: l.Quantity}
			}
			return out, nil
		},
	}
	return c.run(ctx, a)
}

// CheckoutWalkIn records an in-person sale for an existing or new customer.
func (c *Coordinator) CheckoutWalkIn(ctx context.Context, req WalkInRequest) (Result, error) {
	a := &attempt{
		path:           PathWalkIn,
		paymentMethod:  req.PaymentMethod,
		idempotencyKey: strings.TrimSpace(req.IdempotencyKey),
		customer: func(ctx context.Context, s Stores) (string, bool, error) {
			return resolveWalkIn(ctx, s, req.Customer)
		},
		lines: func(context.Context, Stores, string) ([]Line, error) {
			return req.Items, nil
		},
	}
	if !req.Customer.ProfileUpdate.Empty() {
		p := req.Customer.ProfileUpdate
		a.shipping = &p
	}

	res, err := c.run(ctx, a)
	if err != nil || res.Replayed || req.ClientTotal == nil {
		return res, err
	}
	if !req.ClientTotal.Equal(res.Total) {
		res.ClientTotalMismatch = true
		applog.Audit(nil, "checkout.walkin.total_mismatch", map[string]any{
			"order_id":     res.OrderID,
			"client_total": req.ClientTotal.String(),
			"total":        res.Total.String(),
		})
	}
	return res, nil
}

func (c *Coordinator) run(ctx context.Context, a *attempt) (Result, error) {
	start := time.Now()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	res, err := c.execute(ctx, a)
	if err != nil {
		failedAt := a.state
		c.advance(a, Failed)
		c.Metrics.observe(a.path, Outcome(err), time.Since(start))
		applog.Warn(nil, "checkout.fail", err, map[string]any{
			"path":        string(a.path),
			"customer_id": a.customerID,
			"failed_at":   failedAt.String(),
			"outcome":     Outcome(err),
		})
		return Result{}, err
	}
	c.advance(a, Committed)

	if res.Replayed {
		c.Metrics.observe(a.path, "replayed", time.Since(start))
		applog.Info(nil, "checkout.replay", map[string]any{
			"path":        string(a.path),
			"order_id":    res.OrderID,
			"customer_id": res.CustomerID,
		})
		return res, nil
	}
	c.Metrics.observe(a.path, Outcome(nil), time.Since(start))
	applog.Audit(nil, "checkout.commit", map[string]any{
		"path":        string(a.path),
		"order_id":    res.OrderID,
		"customer_id": res.CustomerID,
		"total":       res.Total.String(),
		"items":       len(res.Items),
		"guest":       res.GuestCreated,
	})
	for _, r := range res.LowStock {
		applog.Warn(nil, "inventory.reorder", nil, map[string]any{
			"inventory_id":  r.InventoryID,
			"remaining":     r.Remaining,
			"reorder_level": r.ReorderLevel,
		})
	}
	return res, nil
}

func (c *Coordinator) execute(ctx context.Context, a *attempt) (Result, error) {
	pm, ok := validate.PaymentMethod(a.paymentMethod)
	if !ok {
		return Result{}, ErrInvalidPaymentMethod
	}
	a.paymentMethod = pm

	var res Result
	err := repos.InTx(ctx, c.DB, func(tx *sqlx.Tx) error {
		s := c.bind(tx)

		id, created, err := a.customer(ctx, s)
		if err != nil {
			return err
		}
		a.customerID = id
		res = Result{CustomerID: id, GuestCreated: created}

		if a.idempotencyKey != "" {
			prior, ok, err := lookupKey(ctx, s, id, a.idempotencyKey)
			if err != nil {
				return err
			}
			if ok {
				res = prior
				return nil
			}
		}

		lines, err := a.lines(ctx, s, id)
		if err != nil {
			return err
		}
		priced, err := Validator{Catalog: s.Catalog}.Validate(ctx, lines)
		if err != nil {
			return err
		}
		c.advance(a, Validated)

		order, items, err := OrderWriter{Orders: s.Orders}.Write(ctx, id, a.paymentMethod, priced, a.idempotencyKey)
		if err != nil {
			return err
		}
		c.advance(a, OrderWritten)

		reserved, err := Reserver{Inventory: s.Inventory}.Reserve(ctx, priced)
		if err != nil {
			return err
		}
		c.advance(a, InventoryReserved)

		if err := (Syncer{Carts: s.Carts, Customers: s.Customers}).Sync(ctx, id, a.clearCart, a.shipping); err != nil {
			return err
		}
		c.advance(a, CartCleared)

		res.OrderID = order.ID
		res.Total = order.TotalPrice
		res.Items = items
		for _, r := range reserved {
			if r.LowStock() {
				res.LowStock = append(res.LowStock, r)
			}
		}
		return nil
	})
	if err == nil {
		return res, nil
	}
	err = classify(err)

	// A concurrent retry with the same key may have committed first; its
	// insert wins the unique index and this one fails on commit or insert.
	if a.idempotencyKey != "" && a.customerID != "" && errors.Is(err, ErrPersistence) {
		if prior, ok := c.replayAfterConflict(ctx, a); ok {
			return prior, nil
		}
	}
	return Result{}, err
}

func (c *Coordinator) replayAfterConflict(ctx context.Context, a *attempt) (Result, bool) {
	var (
		res   Result
		found bool
	)
	err := repos.InTx(ctx, c.DB, func(tx *sqlx.Tx) error {
		var err error
		res, found, err = lookupKey(ctx, c.bind(tx), a.customerID, a.idempotencyKey)
		return err
	})
	if err != nil {
		return Result{}, false
	}
	return res, found
}

func lookupKey(ctx context.Context, s Stores, customerID, key string) (Result, bool, error) {
	o, items, err := s.Orders.ByIdempotencyKey(ctx, customerID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, persistence("lookup idempotency key", err)
	}
	return Result{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.TotalPrice,
		Items:      items,
		Replayed:   true,
	}, true, nil
}

func (c *Coordinator) bind(tx *sqlx.Tx) Stores {
	if c.Bind == nil {
		return RepoStores(tx)
	}
	return c.Bind(tx)
}

func (c *Coordinator) advance(a *attempt, to State) {
	from := a.state
	a.state = to
	if c.OnTransition != nil {
		c.OnTransition(a.path, from, to)
	}
	applog.Debug(nil, "checkout.state", map[string]any{
		"path": string(a.path),
		"from": from.String(),
		"to":   to.String(),
	})
}

// classify leaves checkout errors as they are and reports anything else, such
// as a failed BEGIN or COMMIT, as a persistence fault.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidPaymentMethod),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrPersistence):
		return err
	}
	return persistence("transaction", err)
}
