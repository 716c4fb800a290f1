package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	apiBase     string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     telegramAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		// err embeds the request URL, which carries the bot token.
		log.Printf("[Telegram] Failed to send message")
		return fmt.Errorf("telegram send failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// LedgerAlert describes a gateway order that has no local ledger row.
type LedgerAlert struct {
	OrderID  string
	Receipt  string
	BookID   string
	UserID   string
	Amount   int64
	Currency string
	Reason   string
}

// LedgerAlerter is notified when a ledger write is absorbed after the
// gateway order already exists.
type LedgerAlerter interface {
	NotifyLedgerWriteFailed(alert LedgerAlert) error
}

// FormatMinorUnits renders an integer minor-unit amount as major units with
// thousand separators, e.g. 1999950 INR -> "19,999.50 INR".
func FormatMinorUnits(amount int64, currency string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	str := fmt.Sprintf("%d", amount/100)

	var result strings.Builder
	if negative {
		result.WriteString("-")
	}
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	fmt.Fprintf(&result, ".%02d", amount%100)

	if currency != "" {
		result.WriteString(" " + currency)
	}
	return result.String()
}

// NotifyLedgerWriteFailed asks an operator to reconcile a missing ledger row.
func (s *TelegramService) NotifyLedgerWriteFailed(alert LedgerAlert) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>⚠️ LEDGER WRITE FAILED</b>
<b>Order:</b> %s
<b>Receipt:</b> %s
<b>Book:</b> %s
<b>User:</b> %s
<b>Amount:</b> %s
<b>Reason:</b> %s
━━━━━━━━━━━━━━━━━━
<i>Gateway order exists without a local record.</i>`,
		html.EscapeString(alert.OrderID),
		html.EscapeString(alert.Receipt),
		html.EscapeString(alert.BookID),
		html.EscapeString(alert.UserID),
		FormatMinorUnits(alert.Amount, alert.Currency),
		html.EscapeString(alert.Reason),
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
