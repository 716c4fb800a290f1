package models

// PaymentStatus is the lifecycle state of a gateway order.
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentRecord tracks one gateway order from creation to verification.
type PaymentRecord struct {
	BaseModel
	OrderID   string        `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	PaymentID string        `gorm:"column:payment_id" json:"payment_id,omitempty"`
	BookID    string        `gorm:"column:book_id;index" json:"book_id"`
	UserID    string        `gorm:"column:user_id;index" json:"user_id"`
	Amount    int64         `json:"amount"`
	Currency  string        `gorm:"size:3" json:"currency"`
	Status    PaymentStatus `gorm:"type:varchar(16);index;default:'created'" json:"status"`
	Receipt   string        `gorm:"size:40" json:"receipt"`
}

func (PaymentRecord) TableName() string {
	return "payments"
}
