package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerState backs the fakes with one shared, mutex-guarded view of
// the ledger so concurrent ApplyPayment calls contend realistically.
type ledgerState struct {
	mu         sync.Mutex
	invoice    *models.Invoice
	charges    []models.Charge
	payments   []models.Payment
	creditNote *models.CreditNote
	ordersPaid []string
}

type fakeInvoiceRepo struct{ state *ledgerState }

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if r.state.invoice == nil || r.state.invoice.ID != invoiceID {
		return nil, nil
	}
	copied := *r.state.invoice
	return &copied, nil
}

func (r *fakeInvoiceRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) CreateInvoiceWithCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string) (*models.Invoice, error) {
	return invoice, nil
}

func (r *fakeInvoiceRepo) AttachCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string, newTotal decimal.Decimal) (*models.Invoice, error) {
	return invoice, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(ctx context.Context, invoice *models.Invoice, newStatus models.InvoiceStatus) (*models.Invoice, error) {
	return invoice, nil
}

type fakePaymentRepo struct{ state *ledgerState }

func (r *fakePaymentRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return append([]models.Payment(nil), r.state.payments...), nil
}

func (r *fakePaymentRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Payment, error) {
	return r.FindByInvoiceID(ctx, "")
}

func (r *fakePaymentRepo) RecordPayment(ctx context.Context, input *contracts.RecordPaymentInput) (*models.Payment, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if r.state.invoice.Version != input.Invoice.Version {
		return nil, exceptions.ErrPostgresDBStaleState(nil)
	}
	updated := *input.Invoice
	updated.Version++
	r.state.invoice = &updated
	r.state.payments = append(r.state.payments, *input.Payment)
	r.state.ordersPaid = append(r.state.ordersPaid, input.PaidOrderIDs...)
	return input.Payment, nil
}

type fakeChargeRepo struct{ state *ledgerState }

func (r *fakeChargeRepo) CreateCharge(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	return charge, nil
}

func (r *fakeChargeRepo) FindByID(ctx context.Context, chargeID string) (*models.Charge, error) {
	return nil, nil
}

func (r *fakeChargeRepo) FindByIDs(ctx context.Context, chargeIDs []string) ([]models.Charge, error) {
	return nil, nil
}

func (r *fakeChargeRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Charge, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return append([]models.Charge(nil), r.state.charges...), nil
}

func (r *fakeChargeRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error) {
	return nil, nil
}

type fakeCreditNoteRepo struct{ state *ledgerState }

func (r *fakeCreditNoteRepo) FindActiveByInvoiceID(ctx context.Context, invoiceID string) (*models.CreditNote, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.state.creditNote, nil
}

func (r *fakeCreditNoteRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.CreditNote, error) {
	return nil, nil
}

func (r *fakeCreditNoteRepo) RecordCreditNote(ctx context.Context, input *contracts.RecordCreditNoteInput) (*models.CreditNote, error) {
	return input.CreditNote, nil
}

type noopAuditRepo struct{}

func (noopAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error { return nil }
func (noopAuditRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.AuditEntry, error) {
	return nil, nil
}

// memLocker is an in-process stand-in for the redis lock.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]string
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]string)}
}

func (l *memLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[key]; held {
		return false, "", nil
	}
	l.locks[key] = key
	return true, key, nil
}

func (l *memLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}

func (l *memLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func newTestPaymentUsecase(state *ledgerState) *paymentUsecase {
	return &paymentUsecase{
		PaymentRepository:    &fakePaymentRepo{state: state},
		InvoiceRepository:    &fakeInvoiceRepo{state: state},
		ChargeRepository:     &fakeChargeRepo{state: state},
		CreditNoteRepository: &fakeCreditNoteRepo{state: state},
		AuditRepository:      noopAuditRepo{},
		LockerService:        newMemLocker(),
		InternalConfig: &config.InternalConfig{
			Billing: config.Billing{LockTTLInSeconds: 5},
		},
		Log: zap.NewNop(),
	}
}

func issuedInvoiceState(net string) *ledgerState {
	return &ledgerState{
		invoice: &models.Invoice{
			ID:          "inv-1",
			EncounterID: "enc-1",
			Status:      models.InvoiceIssued,
			TotalAmount: money(net),
			PaidAmount:  decimal.Zero,
			Version:     1,
		},
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok, "expected CustomError, got %v", err)
	assert.Equal(t, code, customErr.Code)
}

func TestApplyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Exact remaining amount settles the invoice", func(t *testing.T) {
		state := issuedInvoiceState("100")
		uc := newTestPaymentUsecase(state)

		payment, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("100"), Method: "CASH",
		})
		assert.NoError(t, err)
		assert.True(t, payment.Amount.Equal(money("100")))
		assert.Equal(t, models.InvoicePaid, state.invoice.Status)
		assert.True(t, state.invoice.PaidAmount.Equal(money("100")))
	})

	t.Run("Partial payment moves the invoice to PARTIALLY_PAID", func(t *testing.T) {
		state := issuedInvoiceState("100")
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("40"), Method: "CARD",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.InvoicePartiallyPaid, state.invoice.Status)
		assert.True(t, state.invoice.PaidAmount.Equal(money("40")))
	})

	t.Run("Settlement flips the lab and radiology orders to PAID", func(t *testing.T) {
		state := issuedInvoiceState("100")
		state.charges = []models.Charge{
			{ID: "chg-1", SourceType: models.SourceLab, SourceID: "ord-1"},
			{ID: "chg-2", SourceType: models.SourceRadiology, SourceID: "ord-2"},
			{ID: "chg-3", SourceType: models.SourceConsultation, SourceID: "cons-1"},
		}
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("100"), Method: "TRANSFER",
		})
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"ord-1", "ord-2"}, state.ordersPaid)
	})

	t.Run("Partial payment flips no orders", func(t *testing.T) {
		state := issuedInvoiceState("100")
		state.charges = []models.Charge{
			{ID: "chg-1", SourceType: models.SourceLab, SourceID: "ord-1"},
		}
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("50"), Method: "CASH",
		})
		assert.NoError(t, err)
		assert.Empty(t, state.ordersPaid)
	})

	t.Run("Zero and negative amounts are rejected", func(t *testing.T) {
		uc := newTestPaymentUsecase(issuedInvoiceState("100"))

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: decimal.Zero, Method: "CASH",
		})
		assertCode(t, err, exceptions.CodeInvalidAmount)

		_, err = uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("-5"), Method: "CASH",
		})
		assertCode(t, err, exceptions.CodeInvalidAmount)
	})

	t.Run("Overpayment is rejected", func(t *testing.T) {
		state := issuedInvoiceState("100")
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("100.001"), Method: "CASH",
		})
		assertCode(t, err, exceptions.CodeOverpaymentRejected)
		assert.Equal(t, models.InvoiceIssued, state.invoice.Status)
		assert.Empty(t, state.payments)
	})

	t.Run("Draft invoices cannot accept payments", func(t *testing.T) {
		state := issuedInvoiceState("100")
		state.invoice.Status = models.InvoiceDraft
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("10"), Method: "CASH",
		})
		assertCode(t, err, exceptions.CodeInvoiceNotPayable)
	})

	t.Run("Invoice with an active credit note cannot accept payments", func(t *testing.T) {
		state := issuedInvoiceState("100")
		state.creditNote = &models.CreditNote{ID: "cn-1", OriginalInvoiceID: "inv-1"}
		uc := newTestPaymentUsecase(state)

		_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
			Amount: money("10"), Method: "CASH",
		})
		assertCode(t, err, exceptions.CodeInvoiceNotPayable)
	})

	t.Run("Unknown invoice returns not found", func(t *testing.T) {
		uc := newTestPaymentUsecase(issuedInvoiceState("100"))

		_, err := uc.ApplyPayment(ctx, "inv-missing", &requests.ApplyPaymentRequest{
			Amount: money("10"), Method: "CASH",
		})
		assert.Error(t, err)
	})

	t.Run("Concurrent full payments settle exactly once", func(t *testing.T) {
		state := issuedInvoiceState("100")
		uc := newTestPaymentUsecase(state)

		pay := func(results chan<- error) {
			for {
				_, err := uc.ApplyPayment(ctx, "inv-1", &requests.ApplyPaymentRequest{
					Amount: money("100"), Method: "CASH",
				})
				if customErr, ok := err.(*exceptions.CustomError); ok && customErr.Code == exceptions.CodeResourceBusy {
					continue
				}
				results <- err
				return
			}
		}

		results := make(chan error, 2)
		go pay(results)
		go pay(results)

		var succeeded, overpaid int
		for i := 0; i < 2; i++ {
			err := <-results
			if err == nil {
				succeeded++
				continue
			}
			if customErr, ok := err.(*exceptions.CustomError); ok && customErr.Code == exceptions.CodeOverpaymentRejected {
				overpaid++
			}
		}

		assert.Equal(t, 1, succeeded, "exactly one payment must settle the invoice")
		assert.Equal(t, 1, overpaid, "the loser must see an overpayment rejection")
		assert.True(t, state.invoice.PaidAmount.Equal(money("100")))
		assert.Len(t, state.payments, 1)
	})
}
