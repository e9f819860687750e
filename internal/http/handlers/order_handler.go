package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

// GET /api/v1/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	orders, err := h.Order.List(c.UserContext(), u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	v, err := h.load(c, u)
	if errors.Is(err, services.ErrOrderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load order"})
	}
	return c.JSON(v)
}

// GET /order/:id renders the receipt page.
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	v, err := h.load(c, u)
	if errors.Is(err, services.ErrOrderNotFound) {
		return notFound(c, "Order not found")
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load order"})
	}
	return render(c, "order", fiber.Map{"Order": v.Order, "Items": v.Items})
}

func (h *OrderHandler) load(c *fiber.Ctx, u *domain.User) (services.OrderView, error) {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return services.OrderView{}, services.ErrOrderNotFound
	}
	v, err := h.Order.Get(c.UserContext(), u, oid)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
	case err != nil:
		applog.Error(c, "orders.get.fail", err, map[string]any{"order_id": oid})
	}
	return v, err
}
