package handlers

import (
	"database/sql"
	"errors"

	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
	"orderdesk/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the staff back office: recent orders and stock levels.
type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	Inv       *repos.InventoryRepo
}

// GET /api/v1/admin/orders
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(c.UserContext(), 100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": ords})
}

type inventoryView struct {
	repos.InventoryRow
	LowStock bool `json:"lowStock"`
}

// GET /api/v1/admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.ListAll(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load inventory"})
	}
	out := make([]inventoryView, len(rows))
	for i, r := range rows {
		out[i] = inventoryView{InventoryRow: r, LowStock: r.LowStock()}
	}
	return c.JSON(fiber.Map{"inventory": out})
}

type restockBody struct {
	Quantity *int `json:"quantity"`
}

// POST /api/v1/admin/inventory/:id
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	var body restockBody
	if err := c.BodyParser(&body); err != nil || !ok || body.Quantity == nil || *body.Quantity < 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	err := h.Inv.SetQty(c.UserContext(), id, *body.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "inventory record not found"})
	}
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"inventory_id": id, "qty": *body.Quantity})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save inventory"})
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"inventory_id": id, "qty": *body.Quantity})
	return c.JSON(fiber.Map{"inventoryId": id, "quantity": *body.Quantity})
}
