// internal/notify/telegram.go
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finny/internal/domain"
)

// TelegramNotifier delivers bill reminders to a user's Telegram chat.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) NotifyBillDue(chatID int64, bill domain.Bill, daysLeft int) error {
	var text string
	switch {
	case daysLeft <= 0:
		text = fmt.Sprintf("💸 *%s* ($%.2f) is due today!", bill.Name, bill.Amount)
	case daysLeft == 1:
		text = fmt.Sprintf("🔔 *%s* ($%.2f) is due tomorrow.", bill.Name, bill.Amount)
	default:
		text = fmt.Sprintf("🔔 *%s* ($%.2f) is due in %d days (%s).",
			bill.Name, bill.Amount, daysLeft, bill.NextDueDate.Format("2006-01-02"))
	}
	if bill.PaymentURL != "" {
		text += "\nPay here: " + bill.PaymentURL
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
