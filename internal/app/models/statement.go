package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatementRowKind string

const (
	StatementRowInvoice    StatementRowKind = "INVOICE"
	StatementRowPayment    StatementRowKind = "PAYMENT"
	StatementRowCreditNote StatementRowKind = "CREDIT_NOTE"
)

// StatementRow is one line of the chronological running-balance view.
// Credit notes appear as negative debits: a reversal of a settled
// invoice drives the balance below zero, meaning a refund is due.
type StatementRow struct {
	Date           time.Time        `json:"date"`
	Kind           StatementRowKind `json:"kind"`
	Ref            string           `json:"ref"`
	Description    string           `json:"description"`
	Debit          decimal.Decimal  `json:"debit"`
	Credit         decimal.Decimal  `json:"credit"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
}
