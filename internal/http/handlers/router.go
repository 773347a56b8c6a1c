package handlers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "kalaur/internal/log"
)

// Options tunes the app. Zero values take the defaults below.
type Options struct {
	BodyLimit int
	// AccessLog receives the access log; nil means stdout.
	AccessLog io.Writer

	RateMax        int
	RateWindow     time.Duration
	LoginMax       int
	LoginWindow    time.Duration
	LookupMax      int
	LookupWindow   time.Duration
	// DisableLimiter turns off the global, login and lookup limiters.
	DisableLimiter bool
}

func (o Options) withDefaults() Options {
	if o.BodyLimit <= 0 {
		o.BodyLimit = 1 << 20
	}
	if o.RateMax <= 0 {
		o.RateMax = 120
	}
	if o.RateWindow <= 0 {
		o.RateWindow = time.Minute
	}
	if o.LoginMax <= 0 {
		o.LoginMax = 5
	}
	if o.LoginWindow <= 0 {
		o.LoginWindow = 10 * time.Minute
	}
	if o.LookupMax <= 0 {
		o.LookupMax = 30
	}
	if o.LookupWindow <= 0 {
		o.LookupWindow = time.Minute
	}
	return o
}

func limitReached(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
	}
}

func skipLimiter(opts Options) func(*fiber.Ctx) bool {
	return func(*fiber.Ctx) bool { return opts.DisableLimiter }
}

// NewApp builds the fiber app with middleware and every route. Unknown
// paths and methods fall through to fiber's 404/405, rendered by ErrorHandler.
func NewApp(d *Deps, opts Options) *fiber.App {
	opts = opts.withDefaults()
	app := fiber.New(fiber.Config{
		AppName:      "kalaur",
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: opts.AccessLog,
	}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:          opts.RateMax,
		Expiration:   opts.RateWindow,
		LimitReached: limitReached("rate.global.hit"),
		Next: func(c *fiber.Ctx) bool {
			return opts.DisableLimiter || c.Path() == "/healthz"
		},
	}))

	Register(app, d, opts)
	return app
}

// Register mounts the routes on app.
func Register(app *fiber.App, d *Deps, opts Options) {
	opts = opts.withDefaults()
	admin := RequireAdmin(d.Auth)

	loginLimiter := limiter.New(limiter.Config{
		Max:          opts.LoginMax,
		Expiration:   opts.LoginWindow,
		LimitReached: limitReached("rate.login.hit"),
		Next:         skipLimiter(opts),
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
	})
	lookupLimiter := limiter.New(limiter.Config{
		Max:          opts.LookupMax,
		Expiration:   opts.LookupWindow,
		LimitReached: limitReached("rate.shipping.hit"),
		Next:         skipLimiter(opts),
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|shipping"
		},
	})

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Catalog
	app.Get("/catalog", d.CatalogHandler.Get)
	app.Put("/catalog", admin, d.CatalogHandler.Put)
	app.Delete("/catalog/overrides", admin, d.CatalogHandler.Reset)

	// Admin session
	app.Post("/admin/login", loginLimiter, d.AuthHandler.Login)
	app.Post("/admin/logout", d.AuthHandler.Logout)
	app.Get("/admin/session", d.AuthHandler.Session)

	// Checkout
	app.Post("/checkout-session", d.CheckoutHandler.Create)

	// Shipping lookups
	app.Post("/shipping/cities", lookupLimiter, d.ShippingHandler.Cities)
	app.Post("/shipping/warehouses", lookupLimiter, d.ShippingHandler.Warehouses)

	// Bookkeeping
	app.Get("/admin/sales", admin, d.BooksHandler.ListSales)
	app.Post("/admin/sales", admin, d.BooksHandler.RecordSales)
	app.Get("/admin/sales/summary", admin, d.BooksHandler.SalesSummary)
	app.Get("/admin/service-orders", admin, d.BooksHandler.ListServiceOrders)
	app.Post("/admin/service-orders", admin, d.BooksHandler.AddServiceOrder)
	app.Delete("/admin/service-orders/:id", admin, d.BooksHandler.DeleteServiceOrder)
	app.Get("/admin/cars", admin, d.BooksHandler.ListCars)
	app.Post("/admin/cars", admin, d.BooksHandler.SaveCar)
	app.Delete("/admin/cars/:id", admin, d.BooksHandler.DeleteCar)
}
