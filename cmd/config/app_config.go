package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"Grocery-Tracker/internal/api/handlers"
	"Grocery-Tracker/internal/api/routes"
	"Grocery-Tracker/internal/middleware"
	"Grocery-Tracker/internal/utils"
	"Grocery-Tracker/internal/utils/storage"
	"Grocery-Tracker/pkg/jwt"
	"Grocery-Tracker/pkg/product"
	"Grocery-Tracker/pkg/shoppinglist"
	"Grocery-Tracker/pkg/transaction"
	"Grocery-Tracker/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, log *zap.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("APP_ENV") == "development",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("opening access log: %w", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	productCache := product.NewNoopProductCache()
	redisClient, err := utils.NewRedisClient(context.Background())
	if err != nil {
		log.Warn("redis unavailable, product cache disabled", zap.Error(err))
	} else if redisClient != nil {
		productCache = product.NewRedisProductCache(redisClient, log)
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	productRepository := product.NewProductRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)
	transactionRepository := transaction.NewTransactionRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	userService := user.NewUserService(userRepository, jwtService, log)
	productService := product.NewProductService(productRepository, productCache, log)
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository, productRepository, log)
	transactionService := transaction.NewTransactionService(
		transactionRepository,
		productRepository,
		transaction.NewCatalogEstimator(productRepository),
		s3,
		log,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	productHandler := handlers.NewProductHandler(productService, validator)
	shoppingListHandler := handlers.NewShoppingListHandler(shoppingListService, validator)
	transactionHandler := handlers.NewTransactionHandler(transactionService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ProductHandler:      productHandler,
		ShoppingListHandler: shoppingListHandler,
		TransactionHandler:  transactionHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
