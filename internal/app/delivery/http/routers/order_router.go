package routers

import (
	"medledger-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachOrderRoutes(router chi.Router, orderController *controllers.OrderController) {
	router.Post("/", orderController.CreateOrder)
	router.Get("/{orderID}", orderController.FindByID)
	router.Post("/{orderID}/start", orderController.Start)
	router.Post("/{orderID}/complete", orderController.Complete)
	router.Post("/{orderID}/cancel", orderController.Cancel)
	router.Post("/{orderID}/waive-payment", orderController.WaivePayment)
}
