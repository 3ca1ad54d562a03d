package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	firebaseMessaging "firebase.google.com/go/messaging"

	"frenchdriver/internal/config"
	"frenchdriver/internal/handlers"
	"frenchdriver/internal/notify"
	"frenchdriver/internal/repositories"
	"frenchdriver/internal/services"
	"frenchdriver/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	signingKey   string
	accessTTL    time.Duration
	tokenManager *utils.Manager

	userRepo    *repositories.UserRepository
	bookingRepo *repositories.BookingRepository
	driverRepo  *repositories.DriverRepository
	invoiceRepo *repositories.InvoiceRepository

	userHandler    *handlers.UserHandler
	pricingHandler *handlers.PricingHandler
	bookingHandler *handlers.BookingHandler
	driverHandler  *handlers.DriverHandler

	eventsManager *BookingEventsManager
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *firebaseMessaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	logger := appLogger{info: infoLog, err: errorLog}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	bookingRepo := &repositories.BookingRepository{DB: db}
	driverRepo := &repositories.DriverRepository{DB: db}
	invoiceRepo := &repositories.InvoiceRepository{DB: db}
	rosterCache := repositories.NewDriverRosterCache(rdb, driverRepo)

	// Notification channels
	emailChannel := notify.NewEmailChannel(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
	telegramChannel := notify.NewTelegramChannel(&http.Client{Timeout: 10 * time.Second}, cfg.Telegram.BotToken, logger)
	pushChannel := notify.NewFCMChannel(fcmClient, logger)

	notifier := &services.NotificationService{
		Email:    emailChannel,
		Telegram: telegramChannel,
		Push:     pushChannel,
		Logger:   logger,
	}

	invoiceStorage := &utils.InvoiceStorage{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Folder:    cfg.S3.Folder,
	}

	eventsManager := NewBookingEventsManager()

	// Services
	tokenManager, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}
	accessTTL := time.Duration(cfg.JWT.AccessTTLHours) * time.Hour

	userService := &services.UserService{UserRepo: userRepo, TokenManager: tokenManager, AccessTTL: accessTTL}
	invoiceService := &services.InvoiceService{
		Invoices: invoiceRepo,
		Users:    userRepo,
		Notifier: notifier,
		Storage:  invoiceStorage,
		Logger:   logger,
	}
	bookingService := &services.BookingService{
		Bookings: bookingRepo,
		Drivers:  driverRepo,
		Users:    userRepo,
		Invoices: invoiceService,
		Notifier: notifier,
		Events:   eventsManager,
		Logger:   logger,
	}
	dispatchService := &services.DispatchService{
		Bookings:      bookingRepo,
		Roster:        rosterCache,
		Users:         userRepo,
		Notifier:      notifier,
		Logger:        logger,
		Lifecycle:     bookingService,
		DriverTimeout: time.Duration(cfg.Dispatch.DriverTimeoutSeconds) * time.Second,
	}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	pricingHandler := &handlers.PricingHandler{}
	bookingHandler := &handlers.BookingHandler{
		Bookings: bookingService,
		Dispatch: dispatchService,
		Invoices: invoiceService,
		Repo:     bookingRepo,
	}
	driverHandler := &handlers.DriverHandler{Repo: driverRepo, Cache: rosterCache}

	return &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		db:             db,
		signingKey:     cfg.JWT.SigningKey,
		accessTTL:      accessTTL,
		tokenManager:   tokenManager,
		userRepo:       userRepo,
		bookingRepo:    bookingRepo,
		driverRepo:     driverRepo,
		invoiceRepo:    invoiceRepo,
		userHandler:    userHandler,
		pricingHandler: pricingHandler,
		bookingHandler: bookingHandler,
		driverHandler:  driverHandler,
		eventsManager:  eventsManager,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}
