package routers

import (
	"medledger-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachChargeRoutes(router chi.Router, chargeController *controllers.ChargeController) {
	router.Post("/", chargeController.CreateCharge)
	router.Get("/{chargeID}", chargeController.FindByID)
	router.Get("/encounter/{encounterID}", chargeController.FindByEncounterID)
}
