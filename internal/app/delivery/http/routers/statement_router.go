package routers

import (
	"medledger-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachStatementRoutes(router chi.Router, statementController *controllers.StatementController) {
	router.Get("/{encounterID}", statementController.GetStatement)
}
