package orders

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindByIDs(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []models.Order
	for _, id := range orderIDs {
		if order, ok := r.orders[id]; ok {
			found = append(found, *order)
		}
	}
	return found, nil
}

func (r *fakeOrderRepo) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[order.ID]
	if !ok || current.Version != order.Version {
		return nil, exceptions.ErrPostgresDBStaleState(nil)
	}
	updated := *order
	updated.Version++
	r.orders[order.ID] = &updated
	copied := updated
	return &copied, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []contracts.OrderDispatchEvent
}

func (d *recordingDispatcher) PublishOrderDispatch(ctx context.Context, event *contracts.OrderDispatchEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, *event)
	return nil
}

func (d *recordingDispatcher) actions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var actions []string
	for _, event := range d.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type recordingStorage struct {
	objects map[string][]byte
}

func (s *recordingStorage) StoreReportAttachment(ctx context.Context, orderID, fileName, contentType string, data []byte) (string, error) {
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	objectName := orderID + "/" + fileName
	s.objects[objectName] = data
	return objectName, nil
}

type noopAuditRepo struct{}

func (noopAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error { return nil }
func (noopAuditRepo) FindByEncounterID(ctx context.Context, encounterID string) ([]models.AuditEntry, error) {
	return nil, nil
}

type memLocker struct {
	mu         sync.Mutex
	locks      map[string]string
	refreshes  int
	refreshErr error
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
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshes++
	return l.refreshErr
}

type orderTestEnv struct {
	repo       *fakeOrderRepo
	dispatcher *recordingDispatcher
	storage    *recordingStorage
	locker     *memLocker
	usecase    *orderUsecase
}

func newOrderTestEnv(orders ...*models.Order) *orderTestEnv {
	env := &orderTestEnv{
		repo:       newFakeOrderRepo(orders...),
		dispatcher: &recordingDispatcher{},
		storage:    &recordingStorage{},
		locker:     newMemLocker(),
	}
	env.usecase = &orderUsecase{
		OrderRepository:   env.repo,
		ReportStorage:     env.storage,
		DispatchPublisher: env.dispatcher,
		AuditRepository:   noopAuditRepo{},
		LockerService:     env.locker,
		InternalConfig: &config.InternalConfig{
			Billing: config.Billing{LockTTLInSeconds: 5},
		},
		Log: zap.NewNop(),
	}
	return env
}

func labOrder(paymentStatus models.OrderPaymentStatus, resultStatus models.OrderResultStatus) *models.Order {
	return &models.Order{
		ID:            "ord-1",
		EncounterID:   "enc-1",
		Kind:          models.OrderLab,
		PaymentStatus: paymentStatus,
		ResultStatus:  resultStatus,
		Version:       1,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	assert.True(t, ok, "expected CustomError, got %v", err)
	assert.Equal(t, code, customErr.Code)
}

func TestCanFulfill(t *testing.T) {
	cases := []struct {
		name          string
		paymentStatus models.OrderPaymentStatus
		want          bool
	}{
		{"Pending payment blocks fulfillment", models.OrderPaymentPending, false},
		{"Paid order may be fulfilled", models.OrderPaymentPaid, true},
		{"Waived order may be fulfilled", models.OrderPaymentWaived, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := labOrder(tc.paymentStatus, models.OrderResultPending)
			assert.Equal(t, tc.want, CanFulfill(order))
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Create starts pending on both axes", func(t *testing.T) {
		env := newOrderTestEnv()
		order, err := env.usecase.CreateOrder(ctx, &requests.CreateOrderRequest{
			EncounterID: "enc-1", Kind: "RADIOLOGY",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)
		assert.Equal(t, models.OrderResultPending, order.ResultStatus)
	})

	t.Run("Start is blocked while payment is pending", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPending, models.OrderResultPending))
		_, err := env.usecase.Start(ctx, "ord-1")
		assertCode(t, err, exceptions.CodePaymentRequired)
	})

	t.Run("Start succeeds once paid", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultPending))
		order, err := env.usecase.Start(ctx, "ord-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultInProgress, order.ResultStatus)
		assert.Equal(t, []string{"started"}, env.dispatcher.actions())
	})

	t.Run("Start succeeds on a waived scheduled order", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentWaived, models.OrderResultScheduled))
		order, err := env.usecase.Start(ctx, "ord-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultInProgress, order.ResultStatus)
	})

	t.Run("Start from a completed order is rejected", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultCompleted))
		_, err := env.usecase.Start(ctx, "ord-1")
		assertCode(t, err, exceptions.CodeInvalidTransition)
	})

	t.Run("Complete records the result and dispatches", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		payload := json.RawMessage(`{"hemoglobin":13.2}`)
		order, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: payload,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultCompleted, order.ResultStatus)
		assert.JSONEq(t, string(payload), string(order.ResultPayload))
		assert.Equal(t, []string{"completed"}, env.dispatcher.actions())
	})

	t.Run("Complete is payment gated too", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPending, models.OrderResultInProgress))
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
		})
		assertCode(t, err, exceptions.CodePaymentRequired)
	})

	t.Run("Complete before start is rejected", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultPending))
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
		})
		assertCode(t, err, exceptions.CodeInvalidTransition)
	})

	t.Run("Recompleting amends the result keeping the latest payload", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{"version":1}`),
		})
		assert.NoError(t, err)

		order, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{"version":2}`),
		})
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultCompleted, order.ResultStatus)
		assert.JSONEq(t, `{"version":2}`, string(order.ResultPayload))
		assert.Equal(t, []string{"completed", "amended"}, env.dispatcher.actions())
	})

	t.Run("Complete stores the attachment under the order prefix", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		raw := []byte("%PDF-1.4 report body")
		order, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
			Attachment: &requests.ReportAttachment{
				FileName:    "cbc.pdf",
				ContentType: "application/pdf",
				Data:        base64.StdEncoding.EncodeToString(raw),
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, "ord-1/cbc.pdf", order.ReportObject)
		assert.Equal(t, raw, env.storage.objects["ord-1/cbc.pdf"])
		assert.Equal(t, 1, env.locker.refreshes, "upload must extend the order lock first")
	})

	t.Run("Complete without an attachment never touches the lock TTL", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, env.locker.refreshes)
	})

	t.Run("Lost lock aborts the completion before the upload", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		env.locker.refreshErr = exceptions.ErrRedisUnlock(nil)
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
			Attachment: &requests.ReportAttachment{
				FileName:    "cbc.pdf",
				ContentType: "application/pdf",
				Data:        base64.StdEncoding.EncodeToString([]byte("report")),
			},
		})
		assert.Error(t, err)
		assert.Empty(t, env.storage.objects, "nothing may be uploaded once the lock is gone")

		stored, findErr := env.repo.FindByID(ctx, "ord-1")
		assert.NoError(t, findErr)
		assert.Equal(t, models.OrderResultInProgress, stored.ResultStatus)
	})

	t.Run("Malformed attachment data is rejected", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		_, err := env.usecase.Complete(ctx, "ord-1", &requests.CompleteOrderRequest{
			ResultPayload: json.RawMessage(`{}`),
			Attachment: &requests.ReportAttachment{
				FileName:    "cbc.pdf",
				ContentType: "application/pdf",
				Data:        "not-base64!!",
			},
		})
		assert.Error(t, err)
	})

	t.Run("Cancel needs no payment", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPending, models.OrderResultPending))
		order, err := env.usecase.Cancel(ctx, "ord-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultCancelled, order.ResultStatus)
		assert.Equal(t, []string{"cancelled"}, env.dispatcher.actions())
	})

	t.Run("Cancel works mid-fulfillment", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultInProgress))
		order, err := env.usecase.Cancel(ctx, "ord-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderResultCancelled, order.ResultStatus)
	})

	t.Run("Cancel of a completed order is rejected", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultCompleted))
		_, err := env.usecase.Cancel(ctx, "ord-1")
		assertCode(t, err, exceptions.CodeInvalidTransition)
	})

	t.Run("Waive flips a pending payment", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPending, models.OrderResultPending))
		order, err := env.usecase.WaivePayment(ctx, "ord-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderPaymentWaived, order.PaymentStatus)
	})

	t.Run("Waive of a paid order is rejected", func(t *testing.T) {
		env := newOrderTestEnv(labOrder(models.OrderPaymentPaid, models.OrderResultPending))
		_, err := env.usecase.WaivePayment(ctx, "ord-1")
		assertCode(t, err, exceptions.CodeInvalidTransition)
	})

	t.Run("Unknown order returns not found", func(t *testing.T) {
		env := newOrderTestEnv()
		_, err := env.usecase.Start(ctx, "ord-missing")
		assert.Error(t, err)
	})
}
