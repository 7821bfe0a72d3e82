package charges

import (
	"context"
	"testing"

	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeChargeRepo struct {
	created []*models.Charge
}

func (r *fakeChargeRepo) CreateCharge(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	r.created = append(r.created, charge)
	return charge, nil
}

func (r *fakeChargeRepo) FindByID(ctx context.Context, chargeID string) (*models.Charge, error) {
	for _, charge := range r.created {
		if charge.ID == chargeID {
			return charge, nil
		}
	}
	return nil, nil
}

func (r *fakeChargeRepo) FindByIDs(ctx context.Context, chargeIDs []string) ([]models.Charge, error) {
	return nil, nil
}

func (r *fakeChargeRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Charge, error) {
	return nil, nil
}

func (r *fakeChargeRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error) {
	return nil, nil
}

type fakeSafetyClient struct {
	warnings []contracts.InteractionWarning
	calls    int
}

func (c *fakeSafetyClient) CheckInteractions(ctx context.Context, encounterID, serviceItemID string) ([]contracts.InteractionWarning, error) {
	c.calls++
	return c.warnings, nil
}

type recordingAuditRepo struct {
	entries []*models.AuditEntry
}

func (r *recordingAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.AuditEntry, error) {
	entries := make([]models.AuditEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, *entry)
	}
	return entries, nil
}

func newTestChargeUsecase(safety *fakeSafetyClient) (*chargeUsecase, *fakeChargeRepo, *recordingAuditRepo) {
	repo := &fakeChargeRepo{}
	audit := &recordingAuditRepo{}
	uc := &chargeUsecase{
		ChargeRepository: repo,
		DrugSafetyClient: safety,
		AuditRepository:  audit,
		InternalConfig:   &config.InternalConfig{},
		Log:              zap.NewNop(),
	}
	return uc, repo, audit
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok, "expected CustomError, got %v", err)
	assert.Equal(t, code, customErr.Code)
}

func TestCreateCharge(t *testing.T) {
	ctx := context.Background()

	labRequest := func() *requests.CreateChargeRequest {
		return &requests.CreateChargeRequest{
			EncounterID:   "enc-1",
			SourceType:    "LAB",
			SourceID:      "ord-1",
			ServiceItemID: "svc-cbc",
			Quantity:      1,
			UnitPrice:     decimal.RequireFromString("150"),
		}
	}

	t.Run("Total is quantity times the snapshotted unit price", func(t *testing.T) {
		uc, _, _ := newTestChargeUsecase(&fakeSafetyClient{})
		request := labRequest()
		request.Quantity = 3
		request.UnitPrice = decimal.RequireFromString("10.125")

		charge, err := uc.CreateCharge(ctx, request)
		assert.NoError(t, err)
		assert.True(t, charge.TotalAmount.Equal(decimal.RequireFromString("30.375")))
	})

	t.Run("Unit price is rounded to three decimal places", func(t *testing.T) {
		uc, _, _ := newTestChargeUsecase(&fakeSafetyClient{})
		request := labRequest()
		request.UnitPrice = decimal.RequireFromString("10.12345")

		charge, err := uc.CreateCharge(ctx, request)
		assert.NoError(t, err)
		assert.True(t, charge.UnitPrice.Equal(decimal.RequireFromString("10.123")))
	})

	t.Run("Negative unit prices are rejected", func(t *testing.T) {
		uc, repo, _ := newTestChargeUsecase(&fakeSafetyClient{})

		request := labRequest()
		request.UnitPrice = decimal.RequireFromString("-1")
		_, err := uc.CreateCharge(ctx, request)
		assertCode(t, err, exceptions.CodeInvalidAmount)
		assert.Empty(t, repo.created)
	})

	t.Run("Zero unit price records a complimentary charge", func(t *testing.T) {
		uc, repo, _ := newTestChargeUsecase(&fakeSafetyClient{})

		request := labRequest()
		request.UnitPrice = decimal.Zero
		charge, err := uc.CreateCharge(ctx, request)
		assert.NoError(t, err)
		assert.True(t, charge.UnitPrice.IsZero())
		assert.True(t, charge.TotalAmount.IsZero())
		assert.Len(t, repo.created, 1)
	})

	t.Run("Non-pharmacy charges skip the interaction check", func(t *testing.T) {
		safety := &fakeSafetyClient{warnings: []contracts.InteractionWarning{
			{DrugA: "warfarin", DrugB: "aspirin", Severity: "MAJOR"},
		}}
		uc, _, _ := newTestChargeUsecase(safety)

		_, err := uc.CreateCharge(ctx, labRequest())
		assert.NoError(t, err)
		assert.Equal(t, 0, safety.calls)
	})

	t.Run("Pharmacy charge with warnings is blocked", func(t *testing.T) {
		safety := &fakeSafetyClient{warnings: []contracts.InteractionWarning{
			{DrugA: "warfarin", DrugB: "aspirin", Severity: "MAJOR"},
		}}
		uc, repo, _ := newTestChargeUsecase(safety)

		request := labRequest()
		request.SourceType = "PHARMACY"
		_, err := uc.CreateCharge(ctx, request)
		assertCode(t, err, exceptions.CodeSafetyWarning)
		assert.Empty(t, repo.created)
	})

	t.Run("Override creates the charge and flags the override", func(t *testing.T) {
		safety := &fakeSafetyClient{warnings: []contracts.InteractionWarning{
			{DrugA: "warfarin", DrugB: "aspirin", Severity: "MAJOR"},
		}}
		uc, _, audit := newTestChargeUsecase(safety)

		request := labRequest()
		request.SourceType = "PHARMACY"
		request.OverrideSafety = true
		charge, err := uc.CreateCharge(ctx, request)
		assert.NoError(t, err)
		assert.True(t, charge.SafetyOverride)
		assert.Len(t, audit.entries, 1)
		assert.Equal(t, models.AuditSafetyOverridden, audit.entries[0].Action)
	})

	t.Run("FindByID returns a recorded charge", func(t *testing.T) {
		uc, _, _ := newTestChargeUsecase(&fakeSafetyClient{})

		created, err := uc.CreateCharge(ctx, labRequest())
		assert.NoError(t, err)

		found, err := uc.FindByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("FindByID on an unknown charge returns not found", func(t *testing.T) {
		uc, _, _ := newTestChargeUsecase(&fakeSafetyClient{})

		_, err := uc.FindByID(ctx, "chg-missing")
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok, "expected CustomError, got %v", err)
		assert.Equal(t, 404, customErr.StatusCode)
	})

	t.Run("Clean pharmacy charge does not count as overridden", func(t *testing.T) {
		uc, _, audit := newTestChargeUsecase(&fakeSafetyClient{})

		request := labRequest()
		request.SourceType = "PHARMACY"
		request.OverrideSafety = true
		charge, err := uc.CreateCharge(ctx, request)
		assert.NoError(t, err)
		assert.False(t, charge.SafetyOverride, "override flag is only set when warnings actually existed")
		assert.Equal(t, models.AuditChargeCreated, audit.entries[0].Action)
	})
}
