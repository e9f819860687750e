package handlers_test

import (
	"io"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, app *testApp, sid string) placedOrder {
	t.Helper()
	addToCart(t, app, sid, "cable-001", 3)
	var got placedOrder
	resp := app.do(t, "POST", "/api/v1/checkout", sid, map[string]any{"paymentMethod": "card"}, &got)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return got
}

func TestOrderReceipt_OwnerOnly(t *testing.T) {
	app := newApp(t)
	alice := app.login(t, "alice@orderdesk.test")
	o := placeOrder(t, app, alice)

	resp := app.do(t, "GET", "/order/"+o.OrderID, alice, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "29.85")
	assert.Contains(t, string(body), "Link Cable")

	bob := app.login(t, "bob@orderdesk.test")
	entries := captureLogs(t, func() {
		resp = app.do(t, "GET", "/order/"+o.OrderID, bob, nil, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		resp = app.do(t, "GET", "/api/v1/orders/"+o.OrderID, bob, nil, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
	_, ok := findLog(entries, "access.denied.order")
	assert.True(t, ok)

	resp = app.do(t, "GET", "/order/"+o.OrderID, "", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	staff := app.login(t, "staff@orderdesk.test")
	resp = app.do(t, "GET", "/api/v1/orders/"+o.OrderID, staff, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAvailability(t *testing.T) {
	app := newApp(t)

	var a struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	resp := app.do(t, "GET", "/api/v1/availability?productId=cable-001", "", nil, &a)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_STOCK", a.Status)
	assert.Equal(t, 40, a.Qty)

	resp = app.do(t, "GET", "/api/v1/availability?productId=../../etc", "", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAvailability_RateLimited(t *testing.T) {
	app := newApp(t)

	var last int
	entries := captureLogs(t, func() {
		for i := 0; i < 16; i++ {
			last = app.do(t, "GET", "/api/v1/availability?productId=cable-001", "", nil, nil).StatusCode
		}
	})
	assert.Equal(t, fiber.StatusTooManyRequests, last)
	_, ok := findLog(entries, "rate.availability.hit")
	assert.True(t, ok)
}

func TestAdminInventoryAndRestock(t *testing.T) {
	app := newApp(t)
	staff := app.login(t, "staff@orderdesk.test")

	var inv struct {
		Inventory []struct {
			InventoryID string `json:"inventoryId"`
			Quantity    int    `json:"quantity"`
			Products    string `json:"products"`
			LowStock    bool   `json:"lowStock"`
		} `json:"inventory"`
	}
	resp := app.do(t, "GET", "/api/v1/admin/inventory", staff, nil, &inv)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, inv.Inventory, 4)
	assert.Equal(t, "inv-cable", inv.Inventory[0].InventoryID)
	assert.Equal(t, "inv-gbc", inv.Inventory[1].InventoryID)
	assert.Contains(t, inv.Inventory[1].Products, "gbc-002")

	entries := captureLogs(t, func() {
		resp = app.do(t, "POST", "/api/v1/admin/inventory/inv-radio", staff, map[string]any{"quantity": 12}, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	_, ok := findLog(entries, "admin.inventory.save")
	assert.True(t, ok)

	var qty int
	require.NoError(t, app.DB.Get(&qty, `SELECT quantity FROM inventory WHERE inventory_id = 'inv-radio'`))
	assert.Equal(t, 12, qty)

	resp = app.do(t, "POST", "/api/v1/admin/inventory/inv-radio", staff, map[string]any{"quantity": -1}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = app.do(t, "POST", "/api/v1/admin/inventory/inv-ghost", staff, map[string]any{"quantity": 1}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	user := app.login(t, "alice@orderdesk.test")
	resp = app.do(t, "GET", "/api/v1/admin/inventory", user, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOrders(t *testing.T) {
	app := newApp(t)
	o := placeOrder(t, app, app.login(t, "alice@orderdesk.test"))

	var list struct {
		Orders []struct {
			OrderID string `json:"orderId"`
		} `json:"orders"`
	}
	resp := app.do(t, "GET", "/api/v1/admin/orders", app.login(t, "admin@orderdesk.test"), nil, &list)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, o.OrderID, list.Orders[0].OrderID)
}
