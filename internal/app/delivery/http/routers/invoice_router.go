package routers

import (
	"medledger-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachInvoiceRoutes(
	router chi.Router,
	invoiceController *controllers.InvoiceController,
	paymentController *controllers.PaymentController,
	creditNoteController *controllers.CreditNoteController,
) {
	router.Post("/", invoiceController.CreateInvoice)
	router.Get("/{invoiceID}", invoiceController.FindByID)
	router.Post("/{invoiceID}/charges", invoiceController.AddCharges)
	router.Post("/{invoiceID}/issue", invoiceController.Issue)
	router.Post("/{invoiceID}/cancel", invoiceController.CancelDraft)

	router.Post("/{invoiceID}/payments", paymentController.ApplyPayment)
	router.Get("/{invoiceID}/payments", paymentController.FindByInvoiceID)

	router.Post("/{invoiceID}/returns", creditNoteController.CreateReturn)
}
