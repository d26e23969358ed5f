package routes

import (
	"Grocery-Tracker/internal/api/handlers"
	"Grocery-Tracker/internal/middleware"
	"Grocery-Tracker/internal/utils/metrics"
	"Grocery-Tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ProductHandler      handlers.ProductHandler
	ShoppingListHandler handlers.ShoppingListHandler
	TransactionHandler  handlers.TransactionHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.User()
	c.Profile()
	c.Products()
	c.ShoppingLists()
	c.Transactions()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Profile() {
	profile := c.App.Group("/api/v1/profile", c.Middleware.AuthMiddleware(c.JWTService))
	profile.Get("", c.UserHandler.GetProfile)
	profile.Put("", c.UserHandler.UpdateProfile)
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))
	products.Get("", c.ProductHandler.GetProducts)
	products.Get("/:id", c.ProductHandler.GetProduct)

	// catalog admin
	products.Post("", c.Middleware.AdminOnly(), c.ProductHandler.CreateProduct)
	products.Delete("/:id", c.Middleware.AdminOnly(), c.ProductHandler.DeleteProduct)
}

func (c *Config) ShoppingLists() {
	lists := c.App.Group("/api/v1/shopping-lists", c.Middleware.AuthMiddleware(c.JWTService))

	// Batch operations
	lists.Post("/generate", c.ShoppingListHandler.GenerateShoppingLists)
	lists.Post("/simulate", c.ShoppingListHandler.SimulateShoppingLists)

	// Basic CRUD operations
	lists.Post("", c.ShoppingListHandler.CreateShoppingList)
	lists.Get("", c.ShoppingListHandler.GetShoppingLists)
	lists.Get("/:id", c.ShoppingListHandler.GetShoppingList)
	lists.Patch("/:id", c.ShoppingListHandler.UpdateShoppingList)
	lists.Delete("/:id", c.ShoppingListHandler.DeleteShoppingList)

	// Lifecycle
	lists.Post("/:id/complete", c.ShoppingListHandler.CompleteShoppingList)
	lists.Post("/:id/convert", c.ShoppingListHandler.ConvertShoppingList)
}

func (c *Config) Transactions() {
	transactions := c.App.Group("/api/v1/transactions", c.Middleware.AuthMiddleware(c.JWTService))
	transactions.Post("/estimate-missed", c.TransactionHandler.EstimateMissed)

	transactions.Post("", c.TransactionHandler.CreateTransaction)
	transactions.Get("", c.TransactionHandler.GetTransactions)
	transactions.Get("/:id", c.TransactionHandler.GetTransaction)
	transactions.Patch("/:id", c.TransactionHandler.UpdateTransaction)
	transactions.Delete("/:id", c.TransactionHandler.DeleteTransaction)
	transactions.Post("/:id/receipt", c.TransactionHandler.UploadReceipt)
}
