package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"nanocart/internal/config"
	"nanocart/internal/controller"
	"nanocart/internal/identity"
	"nanocart/internal/middleware"
	"nanocart/internal/rabbit"
	"nanocart/internal/repository"
	"nanocart/internal/service"
	"nanocart/internal/sms"
	"nanocart/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Clientes externos
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	store, err := storage.NewS3Client(cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Error creando cliente S3: %v", err)
	}

	verifier, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Fatalf("Error inicializando Firebase: %v", err)
	}

	otp, err := sms.NewAliyunProvider(sms.AliyunConfig{
		AccessKeyID:     cfg.SMSAccessKeyID,
		AccessKeySecret: cfg.SMSAccessKeySecret,
		SignName:        cfg.SMSSignName,
		TemplateCode:    cfg.SMSTemplateCode,
		TTL:             time.Duration(cfg.OTPTTLMinutes) * time.Minute,
	}, rdb, logger)
	if err != nil {
		log.Fatalf("Error creando proveedor de OTP: %v", err)
	}

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}
	publisher, err := rabbit.NewPublisher(ch)
	if err != nil {
		log.Fatalf("Error declarando exchange: %v", err)
	}

	// Repositorios
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	partnerRepo := repository.NewMongoPartnerRepository(db)
	addressRepo := repository.NewMongoAddressRepository(db)
	itemRepo := repository.NewMongoItemRepository(db)
	couponRepo := repository.NewMongoCouponRepository(db)
	filterRepo := repository.NewMongoFilterRepository(db)
	bannerRepo := repository.NewMongoBannerRepository(db)
	reviewRepo := repository.NewMongoReviewRepository(db)
	invoiceRepo := repository.NewMongoInvoiceRepository(db)
	tbybRepo := repository.NewMongoTBYBRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	wishlistRepo := repository.NewMongoWishlistRepository(db)
	authRepo := repository.NewMongoAuthRepository(db)

	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Error creando índices: %v", err)
	}

	// Servicios
	couponService := service.NewCouponService(couponRepo)
	orderService := service.NewOrderService(
		orderRepo, userRepo, partnerRepo, addressRepo, itemRepo,
		invoiceRepo, couponService, publisher, logger,
	)
	authService := service.NewAuthService(
		userRepo, partnerRepo, authRepo, otp, verifier, logger,
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTL)*time.Hour,
		time.Duration(cfg.RefreshTokenTTL)*time.Hour,
	)
	userService := service.NewUserService(
		userRepo, orderRepo, reviewRepo, addressRepo, cartRepo,
		wishlistRepo, tbybRepo, invoiceRepo, authRepo, logger,
	)
	filterService := service.NewFilterService(filterRepo)
	bannerService := service.NewBannerService(bannerRepo, store, logger)
	reviewService := service.NewReviewService(reviewRepo, itemRepo)
	tbybService := service.NewTBYBService(tbybRepo, itemRepo, store)
	invoiceService := service.NewInvoiceService(invoiceRepo)

	// Handlers
	orderCtrl := controller.NewOrderController(orderService)
	authCtrl := controller.NewAuthController(authService)
	userCtrl := controller.NewUserController(userService)
	couponCtrl := controller.NewCouponController(couponService)
	filterCtrl := controller.NewFilterController(filterService)
	bannerCtrl := controller.NewBannerController(bannerService)
	reviewCtrl := controller.NewReviewController(reviewService)
	tbybCtrl := controller.NewTBYBController(tbybService)
	invoiceCtrl := controller.NewInvoiceController(invoiceService)

	// Router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Rutas públicas
	r.POST("/auth/login/federated", authCtrl.FederatedLogin)
	r.POST("/auth/otp/send", authCtrl.SendOTP)
	r.POST("/auth/otp/resend", authCtrl.ResendOTP)
	r.POST("/auth/otp/verify", authCtrl.VerifyOTP)
	r.POST("/auth/login/otp", authCtrl.OTPLogin)
	r.POST("/auth/refresh", authCtrl.Refresh)
	r.GET("/filters", filterCtrl.List)
	r.GET("/banners", bannerCtrl.List)
	r.GET("/items/:itemId/reviews", reviewCtrl.ListByItem)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.POST("/auth/logout", authCtrl.Logout)

	auth.GET("/me", userCtrl.GetProfile)
	auth.PATCH("/me", userCtrl.UpdateProfile)
	auth.DELETE("/me", userCtrl.DeleteAccount)
	auth.GET("/me/addresses", userCtrl.ListAddresses)
	auth.POST("/me/addresses", userCtrl.AddAddress)
	auth.PUT("/me/addresses/:addressId", userCtrl.UpdateAddress)
	auth.DELETE("/me/addresses/:addressId", userCtrl.RemoveAddress)

	auth.POST("/orders/checkout", orderCtrl.Checkout)
	auth.GET("/orders/mine", orderCtrl.GetMyOrders)
	auth.GET("/orders/:orderId", orderCtrl.GetOrder)
	auth.PATCH("/orders/:orderId/status", orderCtrl.UpdateStatus)
	auth.POST("/orders/:orderId/return", orderCtrl.RequestReturn)
	auth.POST("/orders/:orderId/exchange", orderCtrl.RequestExchange)
	auth.GET("/orders/:orderId/invoice", invoiceCtrl.GetByOrder)
	auth.GET("/orders/:orderId/invoice/pdf", invoiceCtrl.DownloadPDF)

	auth.POST("/coupons/apply", couponCtrl.Apply)

	auth.POST("/tbyb", tbybCtrl.Create)
	auth.GET("/tbyb/mine", tbybCtrl.ListMine)

	// Rutas de partner
	partner := auth.Group("/partner")
	partner.Use(middleware.PartnerOnly())
	partner.GET("/orders", orderCtrl.GetMyOrders)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOrSubAdmin())
	admin.GET("/orders/all", orderCtrl.GetAllOrders)
	admin.GET("/orders/status/:status", orderCtrl.GetOrdersByStatus)
	admin.GET("/orders/counts", orderCtrl.CountsByStatus)
	admin.GET("/orders/user/:userId", orderCtrl.GetOrdersByUser)
	admin.GET("/revenue", orderCtrl.Revenue)

	admin.POST("/coupons", couponCtrl.Create)
	admin.GET("/coupons", couponCtrl.List)
	admin.PATCH("/coupons/:couponId", couponCtrl.Update)
	admin.DELETE("/coupons/:couponId", couponCtrl.Delete)

	admin.POST("/filters", filterCtrl.Create)
	admin.PUT("/filters/:filterId", filterCtrl.Update)
	admin.DELETE("/filters/:filterId", filterCtrl.Delete)

	admin.POST("/banners", bannerCtrl.Create)
	admin.PATCH("/banners/:bannerId", bannerCtrl.Update)
	admin.DELETE("/banners/:bannerId", bannerCtrl.Delete)

	admin.GET("/tbyb/item/:itemId", tbybCtrl.ListByItem)

	// La siembra de reseñas queda sólo para el admin principal.
	seed := auth.Group("/admin")
	seed.Use(middleware.AdminOnly())
	seed.POST("/reviews/seed", reviewCtrl.Seed)
	seed.DELETE("/reviews/:reviewId", reviewCtrl.Delete)

	// Ejecutar servidor
	log.Printf("NanoCart ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
