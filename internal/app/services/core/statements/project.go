package statements

import (
	"fmt"
	"medledger-service/internal/app/models"
	"sort"

	"github.com/shopspring/decimal"
)

var rowKindRank = map[models.StatementRowKind]int{
	models.StatementRowInvoice:    0,
	models.StatementRowPayment:    1,
	models.StatementRowCreditNote: 2,
}

// Project builds the chronological running-balance view of one
// encounter's ledger. Rows sort timestamp-ascending; on equal
// timestamps an invoice sorts before its payments and a credit note
// after them (a reversal follows the settlement it undoes), with the
// ref id as the final tie-break.
//
// Draft and draft-cancelled invoices never reached the patient, and
// zero-net invoices carry no financial weight; neither produces a row.
func Project(charges []models.Charge, invoices []models.Invoice, payments []models.Payment, creditNotes []models.CreditNote) []models.StatementRow {
	chargeCounts := make(map[string]int)
	for _, charge := range charges {
		if charge.Invoiced() {
			chargeCounts[*charge.InvoiceID]++
		}
	}
	notesByInvoice := make(map[string]bool, len(creditNotes))
	for _, note := range creditNotes {
		notesByInvoice[note.OriginalInvoiceID] = true
	}

	var rows []models.StatementRow
	for _, invoice := range invoices {
		if invoice.Status == models.InvoiceDraft {
			continue
		}
		if invoice.Status == models.InvoiceCancelled && !notesByInvoice[invoice.ID] {
			continue
		}
		net := invoice.NetAmount()
		if net.IsZero() {
			continue
		}
		rows = append(rows, models.StatementRow{
			Date:        invoice.CreatedAt,
			Kind:        models.StatementRowInvoice,
			Ref:         invoice.ID,
			Description: fmt.Sprintf("Invoice covering %d charge(s)", chargeCounts[invoice.ID]),
			Debit:       net,
			Credit:      decimal.Zero,
		})
	}
	for _, payment := range payments {
		rows = append(rows, models.StatementRow{
			Date:        payment.PaidAt,
			Kind:        models.StatementRowPayment,
			Ref:         payment.ID,
			Description: fmt.Sprintf("Payment via %s", payment.Method),
			Debit:       decimal.Zero,
			Credit:      payment.Amount,
		})
	}
	for _, note := range creditNotes {
		rows = append(rows, models.StatementRow{
			Date:        note.CreatedAt,
			Kind:        models.StatementRowCreditNote,
			Ref:         note.ID,
			Description: fmt.Sprintf("Credit note: %s", note.Reason),
			Debit:       note.TotalAmount,
			Credit:      decimal.Zero,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rowKindRank[rows[i].Kind] != rowKindRank[rows[j].Kind] {
			return rowKindRank[rows[i].Kind] < rowKindRank[rows[j].Kind]
		}
		return rows[i].Ref < rows[j].Ref
	})

	balance := decimal.Zero
	for i := range rows {
		balance = balance.Add(rows[i].Debit).Sub(rows[i].Credit)
		rows[i].RunningBalance = balance
	}
	return rows
}
