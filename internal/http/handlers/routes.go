package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "orderdesk/internal/log"
)

// Routes mounts the JSON API under /api/v1 and the HTML receipt page.
func Routes(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")

	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), d.AuthHandler.Login)
	api.Post("/logout", d.AuthHandler.Logout)

	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.InventoryHandler.Check)

	user := RequireUser(d.Auth)
	staff := RequireStaff(d.Auth)

	api.Get("/cart", user, d.CartHandler.View)
	api.Post("/cart", user, d.CartHandler.Add)
	api.Post("/checkout", user, d.CheckoutHandler.FromCart)
	api.Post("/walkin", staff, d.CheckoutHandler.WalkIn)
	api.Get("/orders", user, d.OrderHandler.List)
	api.Get("/orders/:id", user, d.OrderHandler.Get)

	admin := api.Group("/admin", staff)
	admin.Get("/orders", d.AdminHandler.Orders)
	admin.Get("/inventory", d.AdminHandler.Inventory)
	admin.Post("/inventory/:id", d.AdminHandler.Restock)

	app.Get("/order/:id", AttachUser(d.Auth), d.OrderHandler.Receipt)
}

// ErrorHandler logs server-side failures and answers without internal
// details: JSON under /api/, the notfound page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": "request failed"})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// Fallback answers every unmatched route with 404.
func Fallback(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return notFound(c, "Page not found")
}
