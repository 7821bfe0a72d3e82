package routers

import (
	"fmt"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/delivery/http/controllers"
	"medledger-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	mw *middlewares.Middlewares,
	chargeController *controllers.ChargeController,
	invoiceController *controllers.InvoiceController,
	paymentController *controllers.PaymentController,
	creditNoteController *controllers.CreditNoteController,
	orderController *controllers.OrderController,
	statementController *controllers.StatementController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(mw.RequestIDMiddleware)
	router.Use(mw.Logging(mw.Log))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/charges", func(r chi.Router) {
				attachChargeRoutes(r, chargeController)
			})

			r.Route("/invoices", func(r chi.Router) {
				attachInvoiceRoutes(r, invoiceController, paymentController, creditNoteController)
			})

			r.Route("/orders", func(r chi.Router) {
				attachOrderRoutes(r, orderController)
			})

			r.Route("/statements", func(r chi.Router) {
				attachStatementRoutes(r, statementController)
			})
		})
	})
}
