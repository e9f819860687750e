package handlers

import (
	"errors"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddBody struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	var body cartAddBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	productID, ok := validate.ID(body.ProductID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid productId"})
	}
	err := h.Cart.Add(c.UserContext(), u.ID, productID, body.Quantity)
	if errors.Is(err, services.ErrUnavailable) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "productId": productID})
	}
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return h.View(c)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	cv, err := h.Cart.View(c.UserContext(), u.ID)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}
