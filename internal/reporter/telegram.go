package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-vacancy-enricher/internal/runner"
)

// TelegramReporter sends end-of-run summaries to a chat. It is optional:
// a nil reporter is safe to call everywhere.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

// SendRunSummary reports per-org outcomes after a batch completes.
func (t *TelegramReporter) SendRunSummary(runID string, results []runner.OrgResult) error {
	if t == nil {
		return nil
	}
	total, failed := 0, 0
	body := ""
	for _, res := range results {
		if res.Err != nil {
			failed++
			body += fmt.Sprintf("❌ %s: %v\n", res.OrgAbbrev, res.Err)
			continue
		}
		total += res.JobCount
		body += fmt.Sprintf("✅ %s: %d jobs\n", res.OrgAbbrev, res.JobCount)
	}
	head := fmt.Sprintf("<b>Enrichment run %s</b>\n%d orgs, %d jobs, %d failed\n\n",
		runID, len(results), total, failed)
	return t.send(head + body)
}

func (t *TelegramReporter) SendError(err error) error {
	if t == nil {
		return nil
	}
	return t.send(fmt.Sprintf("⚠️ <b>Enrichment error</b>:\n%v", err))
}
