package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/booknest/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.PaymentRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubGateway records calls and echoes the request unless CreateFunc is set.
type stubGateway struct {
	calls      atomic.Int32
	CreateFunc func(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error)
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error) {
	g.calls.Add(1)
	if g.CreateFunc != nil {
		return g.CreateFunc(ctx, amount, currency, receipt)
	}
	return &RemoteOrder{ID: "order_abc", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

// failingLedger fails every write with err.
type failingLedger struct {
	err error
}

func (l failingLedger) Create(context.Context, *models.PaymentRecord) error { return l.err }

func (l failingLedger) MarkPaid(context.Context, PaymentOutcome) (*models.PaymentRecord, error) {
	return nil, l.err
}

func (l failingLedger) MarkFailed(context.Context, PaymentOutcome) (bool, error) { return false, l.err }

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []LedgerAlert
	done   chan struct{}
}

func newRecordingAlerter() *recordingAlerter {
	return &recordingAlerter{done: make(chan struct{}, 1)}
}

func (a *recordingAlerter) NotifyLedgerWriteFailed(alert LedgerAlert) error {
	a.mu.Lock()
	a.alerts = append(a.alerts, alert)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}
