package main

import (
	"log"
	"math/big"
	"time"

	config "github.com/proofcampus/backend/configs"
	"github.com/proofcampus/backend/database"
	"github.com/proofcampus/backend/handlers"
	"github.com/proofcampus/backend/jobs"
	"github.com/proofcampus/backend/ledger"
	"github.com/proofcampus/backend/notifications"
	"github.com/proofcampus/backend/routes"
	"github.com/proofcampus/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	renderer, err := services.NewCertificateRenderer()
	if err != nil {
		log.Fatalf("🔥 Failed to initialize certificate renderer: %v", err)
	}

	ledgerClient, err := ledger.NewClient(ledger.Config{
		PrivateKey: config.Config("IRYS_PRIVATE_KEY"),
		Network:    ledger.Network(config.ConfigDefault("IRYS_NETWORK", "devnet")),
		RPCURL:     config.Config("IRYS_ETH_RPC"),
	})
	if err != nil {
		log.Fatalf("🔥 Failed to initialize ledger client: %v", err)
	}
	log.Printf("Using upload wallet %s on %s", ledgerClient.Address()[:10]+"...", config.ConfigDefault("IRYS_NETWORK", "devnet"))

	fundingJob := &jobs.FundingJob{
		Client:     ledgerClient,
		MinBalance: configBigInt("IRYS_MIN_BALANCE", "1000000000000000"), // 0.001 ETH in wei
		TopUp:      configBigInt("IRYS_TOPUP_AMOUNT", "5000000000000000"), // 0.005 ETH in wei
	}
	go fundingJob.Run()

	c := cron.New()
	c.AddFunc("0 * * * *", fundingJob.Run)
	go c.Start()
	log.Println("✅ Cron job for wallet funding scheduled successfully.")

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           ledger.AppName,
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		BodyLimit:         handlers.DefaultMaxCertificatePayload + 1024*1024,
		Views:             engine,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to ProofCampus API",
		})
	})

	certificateHandler := &handlers.CertificateHandler{Renderer: renderer, Uploader: ledgerClient}
	uploadHandler := &handlers.UploadCertificateHandler{Uploader: ledgerClient}
	verifyHandler := &handlers.VerifyHandler{Origin: config.Config("PUBLIC_ORIGIN")}

	routes.PublicRoutes(app, verifyHandler, uploadHandler)
	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.SessionRoutes(app)
	routes.CourseRoutes(app)
	routes.CertificateRoutes(app, certificateHandler)
	routes.RecordRoutes(app)
	routes.AdminRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	err = app.Listen(":" + port)
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

func configBigInt(key, fallback string) *big.Int {
	raw := config.ConfigDefault(key, fallback)
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		log.Fatalf("🔥 %s must be a base-10 integer in wei, got %q", key, raw)
	}
	return value
}
