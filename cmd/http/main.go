package main

import (
	"context"
	"log"
	"medledger-service/cmd/migration"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/delivery/http/controllers"
	"medledger-service/internal/app/delivery/http/middlewares"
	"medledger-service/internal/app/delivery/http/routers"
	"medledger-service/internal/app/drivers/database"
	"medledger-service/internal/app/drivers/logger"
	"medledger-service/internal/app/drivers/messaging"
	"medledger-service/internal/app/drivers/storage"
	"medledger-service/internal/app/services/core/charges"
	"medledger-service/internal/app/services/core/creditnotes"
	"medledger-service/internal/app/services/core/invoices"
	"medledger-service/internal/app/services/core/orders"
	"medledger-service/internal/app/services/core/payments"
	"medledger-service/internal/app/services/core/statements"
	"medledger-service/internal/app/services/shared/audit"
	"medledger-service/internal/app/services/shared/dispatchqueue"
	"medledger-service/internal/app/services/shared/drugsafety"
	"medledger-service/internal/app/services/shared/locker"
	"medledger-service/internal/app/services/shared/redis"
	"medledger-service/internal/app/services/shared/reports"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	postgresDB := database.NewPostgresDB(driverConfig)
	migration.Run(postgresDB)
	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		PostgresDB:     postgresDB,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap, minioClient)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error while closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap, minioClient *minio.Client) {
	// Shared infrastructure
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	auditRepository := audit.NewAuditMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	reportStorage := reports.NewMinioReportStorage(minioClient, bootstrap.DriverConfig.Minio.BucketName)
	drugSafetyClient := drugsafety.NewDrugSafetyHttpClient(
		bootstrap.InternalConfig.DrugSafety.BaseURL,
		time.Duration(bootstrap.InternalConfig.DrugSafety.TimeoutSeconds)*time.Second,
		bootstrap.Logger,
	)
	dispatchPublisher, err := dispatchqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, bootstrap.InternalConfig.Billing.DispatchQueueName)
	if err != nil {
		log.Fatalf("Failed to set up dispatch queue: %v", err)
	}

	// Middlewares
	mw := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Charges
	chargeRepository := charges.NewChargePostgresRepository(bootstrap.PostgresDB)
	chargeUsecase := charges.NewChargeUsecase(chargeRepository, drugSafetyClient, auditRepository, bootstrap.InternalConfig, bootstrap.Logger)
	chargeController := controllers.NewChargeController(bootstrap.Logger, chargeUsecase, bootstrap.InternalConfig)

	// Invoices
	invoiceRepository := invoices.NewInvoicePostgresRepository(bootstrap.PostgresDB)
	invoiceUsecase := invoices.NewInvoiceUsecase(invoiceRepository, chargeRepository, auditRepository, bootstrap.InternalConfig, bootstrap.Logger)
	invoiceController := controllers.NewInvoiceController(bootstrap.Logger, invoiceUsecase, bootstrap.InternalConfig)

	// Credit notes
	creditNoteRepository := creditnotes.NewCreditNotePostgresRepository(bootstrap.PostgresDB)

	// Orders
	orderRepository := orders.NewOrderPostgresRepository(bootstrap.PostgresDB)
	orderUsecase := orders.NewOrderUsecase(orderRepository, reportStorage, dispatchPublisher, auditRepository, lockerService, bootstrap.InternalConfig, bootstrap.Logger)
	orderController := controllers.NewOrderController(bootstrap.Logger, orderUsecase, bootstrap.InternalConfig)

	// Payments
	paymentRepository := payments.NewPaymentPostgresRepository(bootstrap.PostgresDB)
	paymentUsecase := payments.NewPaymentUsecase(paymentRepository, invoiceRepository, chargeRepository, creditNoteRepository, auditRepository, lockerService, bootstrap.InternalConfig, bootstrap.Logger)
	paymentController := controllers.NewPaymentController(bootstrap.Logger, paymentUsecase, bootstrap.InternalConfig)

	creditNoteUsecase := creditnotes.NewCreditNoteUsecase(creditNoteRepository, invoiceRepository, chargeRepository, orderRepository, auditRepository, lockerService, bootstrap.InternalConfig, bootstrap.Logger)
	creditNoteController := controllers.NewCreditNoteController(bootstrap.Logger, creditNoteUsecase, bootstrap.InternalConfig)

	// Statements
	statementUsecase := statements.NewStatementUsecase(chargeRepository, invoiceRepository, paymentRepository, creditNoteRepository, bootstrap.Logger)
	statementController := controllers.NewStatementController(bootstrap.Logger, statementUsecase, bootstrap.InternalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		mw,
		chargeController,
		invoiceController,
		paymentController,
		creditNoteController,
		orderController,
		statementController,
	)
}
