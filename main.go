package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/farmpick/backend/config"
	"github.com/farmpick/backend/controllers"
	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/logger"
	"github.com/farmpick/backend/middleware"
	"github.com/farmpick/backend/payment"
	"github.com/farmpick/backend/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}
	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	// seeding seller account
	ctx := context.Background()
	usersCol := database.OpenCollection("users")
	if err := utils.SeedSellerUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	store, err := utils.NewImageStore(ctx, cfg.StorageBackend)
	if err != nil {
		log.Fatal(err)
	}

	gateway := payment.NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	redisClient := database.NewRedisClient(cfg.RedisURL)
	if redisClient == nil {
		logger.Log.Warn("Redis unavailable, cart cache disabled")
	}
	cartCache := database.NewCartCache(redisClient, cfg.CartCacheTTL)

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(cfg.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	logger.Log.Info("CORS configured", zap.Int("origins", len(allowedOrigins)))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(logger.RequestLogger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authUser := middleware.AuthUser(cfg.JWTSecret)
	authSeller := middleware.AuthSeller(cfg.JWTSecret)

	user := r.Group("/api/user")
	{
		user.POST("/register", controllers.Register(cfg.JWTSecret))
		user.POST("/login", controllers.Login(cfg.JWTSecret))
		user.GET("/is-auth", authUser, controllers.IsAuth())
		user.GET("/logout", controllers.Logout())
	}

	seller := r.Group("/api/seller")
	{
		seller.POST("/login", controllers.SellerLogin(cfg.JWTSecret))
		seller.GET("/is-auth", authSeller, controllers.SellerIsAuth())
		seller.GET("/logout", controllers.SellerLogout())
	}

	product := r.Group("/api/product")
	{
		product.GET("/list", controllers.ProductList())
		product.GET("/id", controllers.ProductByID())
		product.POST("/add", authSeller, controllers.AddProduct(store))
		product.POST("/stock", authSeller, controllers.ChangeStock())
		product.POST("/edit", authSeller, controllers.EditProduct(store))
		product.DELETE("/delete/:id", authSeller, controllers.DeleteProduct(store))
	}

	category := r.Group("/api/category")
	{
		category.GET("/all", controllers.GetCategories())
		category.POST("/add", authSeller, controllers.AddCategory())
		category.PATCH("/:id", authSeller, controllers.UpdateCategory())
		category.DELETE("/:id", authSeller, controllers.DeleteCategory())
	}

	cart := r.Group("/api/cart")
	cart.Use(authUser)
	{
		cart.POST("/update", controllers.UpdateCart(cartCache))
		cart.GET("/get", controllers.GetCart(cartCache))
	}

	address := r.Group("/api/address")
	address.Use(authUser)
	{
		address.POST("/add", controllers.AddAddress())
		address.GET("/get", controllers.GetAddresses())
	}

	order := r.Group("/api/order")
	{
		order.POST("/cod", authUser, controllers.PlaceOrderCOD(cartCache))
		order.POST("/razorpay", authUser, controllers.PlaceOrderRazorpay(gateway))
		order.POST("/razorpay/verify", authUser, controllers.VerifyRazorpay(gateway, cartCache))
		order.GET("/user", authUser, controllers.GetUserOrders())
		order.GET("/seller", authSeller, controllers.GetSellerOrders())
	}

	r.Run(":" + cfg.Port)
}
