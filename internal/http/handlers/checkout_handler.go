package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"orderdesk/internal/checkout"
	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/validate"
)

type CheckoutHandler struct {
	Checkout *checkout.Coordinator
}

type cartCheckoutBody struct {
	PaymentMethod string                `json:"paymentMethod"`
	Shipping      *domain.ProfileUpdate `json:"shipping"`
}

type walkInBody struct {
	Customer      domain.WalkInCustomer `json:"customer"`
	Items         []checkout.Line       `json:"items"`
	PaymentMethod string                `json:"paymentMethod"`
	TotalAmount   *decimal.Decimal      `json:"totalAmount"`
}

type checkoutResponse struct {
	OrderID       string          `json:"orderId"`
	CustomerID    string          `json:"customerId"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Replayed      bool            `json:"replayed,omitempty"`
	TotalMismatch bool            `json:"totalMismatch,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) FromCart(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	var body cartCheckoutBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	if field, ok := validProfile(body.Shipping); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
	}
	key, ok := validate.IdempotencyKey(c.Get("Idempotency-Key"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "Idempotency-Key"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid Idempotency-Key"})
	}

	res, err := h.Checkout.CheckoutFromCart(c.UserContext(), checkout.CartRequest{
		CustomerID:     u.ID,
		PaymentMethod:  body.PaymentMethod,
		Shipping:       body.Shipping,
		IdempotencyKey: key,
	})
	if err != nil {
		return checkoutFailed(c, err)
	}
	return placed(c, res)
}

// POST /api/v1/walkin
func (h *CheckoutHandler) WalkIn(c *fiber.Ctx) error {
	staff := c.Locals("user").(*domain.User)
	var body walkInBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	if body.Customer.Email != "" {
		if _, ok := validate.Email(body.Customer.Email); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
		}
	}
	if field, ok := validProfile(&body.Customer.ProfileUpdate); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
	}
	key, ok := validate.IdempotencyKey(c.Get("Idempotency-Key"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "Idempotency-Key"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid Idempotency-Key"})
	}

	res, err := h.Checkout.CheckoutWalkIn(c.UserContext(), checkout.WalkInRequest{
		Customer:       body.Customer,
		Items:          body.Items,
		PaymentMethod:  body.PaymentMethod,
		ClientTotal:    body.TotalAmount,
		IdempotencyKey: key,
	})
	if err != nil {
		return checkoutFailed(c, err)
	}
	applog.Audit(c, "walkin.recorded", map[string]any{
		"order_id": res.OrderID,
		"staff_id": staff.ID,
		"guest":    res.GuestCreated,
	})
	return placed(c, res)
}

func placed(c *fiber.Ctx, res checkout.Result) error {
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(checkoutResponse{
		OrderID:       res.OrderID,
		CustomerID:    res.CustomerID,
		TotalPrice:    res.Total,
		Replayed:      res.Replayed,
		TotalMismatch: res.ClientTotalMismatch,
	})
}

// checkoutFailed maps checkout errors to responses. Storage faults get a
// generic message; their details only go to the log.
func checkoutFailed(c *fiber.Ctx, err error) error {
	var (
		pe *checkout.ProductError
		se *checkout.InsufficientStockError
	)
	switch {
	case errors.As(err, &se):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient stock", "productId": se.ProductID})
	case errors.As(err, &pe):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": pe.Err.Error(), "productId": pe.ProductID})
	case errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, checkout.ErrCustomerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}
	applog.Error(c, "checkout.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not place order, please try again"})
}

// validProfile checks the supplied fields of p and names the first bad one.
func validProfile(p *domain.ProfileUpdate) (string, bool) {
	if p == nil {
		return "", true
	}
	checks := []struct {
		field string
		v     *string
		ok    func(string) (string, bool)
	}{
		{"firstName", p.FirstName, validate.Name},
		{"lastName", p.LastName, validate.Name},
		{"phone", p.Phone, validate.Phone},
		{"addressLine1", p.AddressLine1, validate.Text},
		{"addressLine2", p.AddressLine2, validate.Text},
		{"city", p.City, validate.Text},
		{"postalCode", p.PostalCode, validate.PostalCode},
	}
	for _, ch := range checks {
		if !domain.Supplied(ch.v) {
			continue
		}
		if _, ok := ch.ok(*ch.v); !ok {
			return ch.field, false
		}
	}
	return "", true
}
