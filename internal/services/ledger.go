package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/booknest/internal/models"
)

// PaymentLedger persists the lifecycle of gateway orders.
type PaymentLedger interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	MarkPaid(ctx context.Context, outcome PaymentOutcome) (*models.PaymentRecord, error)
	MarkFailed(ctx context.Context, outcome PaymentOutcome) (bool, error)
}

// PaymentOutcome is the result of one verification attempt.
type PaymentOutcome struct {
	OrderID   string
	PaymentID string
	BookID    string
	UserID    string
}

// Ledger is the gorm-backed PaymentLedger.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Create inserts a new record in the created state.
func (l *Ledger) Create(ctx context.Context, record *models.PaymentRecord) error {
	record.Status = models.PaymentStatusCreated
	record.PaymentID = ""
	return l.db.WithContext(ctx).Create(record).Error
}

// MarkPaid upserts the record for outcome.OrderID to paid. A missing row is
// created from the outcome; an existing row keeps its book, user, amount and
// receipt.
func (l *Ledger) MarkPaid(ctx context.Context, outcome PaymentOutcome) (*models.PaymentRecord, error) {
	record := models.PaymentRecord{
		OrderID:   outcome.OrderID,
		PaymentID: outcome.PaymentID,
		BookID:    outcome.BookID,
		UserID:    outcome.UserID,
		Status:    models.PaymentStatusPaid,
	}

	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "payment_id", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}

	return l.FindByOrderID(ctx, outcome.OrderID)
}

// MarkFailed moves a created record to failed. Records already paid or failed
// are left untouched and a missing record is not an error; the bool reports
// whether a row changed.
func (l *Ledger) MarkFailed(ctx context.Context, outcome PaymentOutcome) (bool, error) {
	res := l.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("order_id = ? AND status = ?", outcome.OrderID, models.PaymentStatusCreated).
		Updates(map[string]any{
			"status":     models.PaymentStatusFailed,
			"payment_id": outcome.PaymentID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByOrderID returns the record for a gateway order id.
func (l *Ledger) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListFilter narrows ListByUser results.
type ListFilter struct {
	UserID string
	Status models.PaymentStatus
	Limit  int
	Offset int
}

// ListByUser returns a page of a user's records, newest first, and the total count.
func (l *Ledger) ListByUser(ctx context.Context, filter ListFilter) ([]models.PaymentRecord, int64, error) {
	query := l.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.PaymentRecord
	if err := query.
		Order("created_at desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
