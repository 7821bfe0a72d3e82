package creditnotes

import (
	"context"
	"sync"
	"testing"
	"time"

	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type reversalState struct {
	invoice      *models.Invoice
	charges      []models.Charge
	orders       []models.Order
	activeNote   *models.CreditNote
	recordedNote *models.CreditNote
	resetIDs     []string
}

type fakeInvoiceRepo struct{ state *reversalState }

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
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

type fakeChargeRepo struct{ state *reversalState }

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
	return append([]models.Charge(nil), r.state.charges...), nil
}

func (r *fakeChargeRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error) {
	return nil, nil
}

type fakeOrderRepo struct{ state *reversalState }

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) FindByIDs(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	wanted := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	var found []models.Order
	for _, order := range r.state.orders {
		if wanted[order.ID] {
			found = append(found, order)
		}
	}
	return found, nil
}

func (r *fakeOrderRepo) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

type fakeCreditNoteRepo struct{ state *reversalState }

func (r *fakeCreditNoteRepo) FindActiveByInvoiceID(ctx context.Context, invoiceID string) (*models.CreditNote, error) {
	return r.state.activeNote, nil
}

func (r *fakeCreditNoteRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.CreditNote, error) {
	return nil, nil
}

func (r *fakeCreditNoteRepo) RecordCreditNote(ctx context.Context, input *contracts.RecordCreditNoteInput) (*models.CreditNote, error) {
	r.state.recordedNote = input.CreditNote
	r.state.resetIDs = input.ResetOrderIDs
	r.state.invoice.Status = models.InvoiceCancelled
	return input.CreditNote, nil
}

type noopAuditRepo struct{}

func (noopAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error { return nil }
func (noopAuditRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.AuditEntry, error) {
	return nil, nil
}

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

func newTestCreditNoteUsecase(state *reversalState) *creditNoteUsecase {
	return &creditNoteUsecase{
		CreditNoteRepository: &fakeCreditNoteRepo{state: state},
		InvoiceRepository:    &fakeInvoiceRepo{state: state},
		ChargeRepository:     &fakeChargeRepo{state: state},
		OrderRepository:      &fakeOrderRepo{state: state},
		AuditRepository:      noopAuditRepo{},
		LockerService:        newMemLocker(),
		InternalConfig: &config.InternalConfig{
			Billing: config.Billing{LockTTLInSeconds: 5},
		},
		Log: zap.NewNop(),
	}
}

func settledState() *reversalState {
	invoiceID := "inv-1"
	return &reversalState{
		invoice: &models.Invoice{
			ID:          invoiceID,
			EncounterID: "enc-1",
			Status:      models.InvoicePaid,
			TotalAmount: money("250"),
			PaidAmount:  money("250"),
			Version:     2,
		},
		charges: []models.Charge{
			{ID: "chg-1", SourceType: models.SourceLab, SourceID: "ord-lab", InvoiceID: &invoiceID},
			{ID: "chg-2", SourceType: models.SourceRadiology, SourceID: "ord-rad", InvoiceID: &invoiceID},
			{ID: "chg-3", SourceType: models.SourcePharmacy, SourceID: "rx-1", InvoiceID: &invoiceID},
		},
		orders: []models.Order{
			{ID: "ord-lab", Kind: models.OrderLab, PaymentStatus: models.OrderPaymentPaid, ResultStatus: models.OrderResultInProgress},
			{ID: "ord-rad", Kind: models.OrderRadiology, PaymentStatus: models.OrderPaymentPaid, ResultStatus: models.OrderResultCompleted},
		},
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok, "expected CustomError, got %v", err)
	assert.Equal(t, code, customErr.Code)
}

func TestCreateReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("Full reversal cancels the invoice and negates the net amount", func(t *testing.T) {
		state := settledState()
		uc := newTestCreditNoteUsecase(state)

		note, err := uc.CreateReturn(ctx, "inv-1", "wrong patient billed")
		assert.NoError(t, err)
		assert.True(t, note.TotalAmount.Equal(money("-250")))
		assert.Equal(t, "wrong patient billed", note.Reason)
		assert.Equal(t, models.InvoiceCancelled, state.invoice.Status)
	})

	t.Run("Discount is reflected in the reversal amount", func(t *testing.T) {
		state := settledState()
		state.invoice.DiscountAmount = money("50")
		state.invoice.PaidAmount = money("200")
		uc := newTestCreditNoteUsecase(state)

		note, err := uc.CreateReturn(ctx, "inv-1", "duplicate billing")
		assert.NoError(t, err)
		assert.True(t, note.TotalAmount.Equal(money("-200")))
	})

	t.Run("Completed orders keep their status while the rest reset", func(t *testing.T) {
		state := settledState()
		uc := newTestCreditNoteUsecase(state)

		_, err := uc.CreateReturn(ctx, "inv-1", "results unusable")
		assert.NoError(t, err)
		assert.Equal(t, []string{"ord-lab"}, state.resetIDs, "only the in-progress lab order resets")
	})

	t.Run("Blank reason is rejected", func(t *testing.T) {
		uc := newTestCreditNoteUsecase(settledState())

		_, err := uc.CreateReturn(ctx, "inv-1", "")
		assertCode(t, err, exceptions.CodeReasonRequired)

		_, err = uc.CreateReturn(ctx, "inv-1", "   \t ")
		assertCode(t, err, exceptions.CodeReasonRequired)
	})

	t.Run("Reason is trimmed before storage", func(t *testing.T) {
		state := settledState()
		uc := newTestCreditNoteUsecase(state)

		note, err := uc.CreateReturn(ctx, "inv-1", "  patient discharged  ")
		assert.NoError(t, err)
		assert.Equal(t, "patient discharged", note.Reason)
	})

	t.Run("Second return on the same invoice is rejected", func(t *testing.T) {
		state := settledState()
		state.activeNote = &models.CreditNote{ID: "cn-1", OriginalInvoiceID: "inv-1"}
		uc := newTestCreditNoteUsecase(state)

		_, err := uc.CreateReturn(ctx, "inv-1", "second attempt")
		assertCode(t, err, exceptions.CodeReturnAlreadyExists)
	})

	t.Run("Draft invoices cannot be reversed", func(t *testing.T) {
		state := settledState()
		state.invoice.Status = models.InvoiceDraft
		uc := newTestCreditNoteUsecase(state)

		_, err := uc.CreateReturn(ctx, "inv-1", "not applicable")
		assertCode(t, err, exceptions.CodeInvalidTransition)
	})

	t.Run("Unknown invoice returns not found", func(t *testing.T) {
		uc := newTestCreditNoteUsecase(settledState())

		_, err := uc.CreateReturn(ctx, "inv-missing", "whatever")
		assert.Error(t, err)
	})
}
