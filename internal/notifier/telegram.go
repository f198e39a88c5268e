package notifier

import (
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends notices to a single chat through a bot.
// The bot is created on first use since construction calls the API.
type Telegram struct {
	token    string
	chatID   int64
	endpoint string

	once sync.Once
	bot  *tgbotapi.BotAPI
	err  error
}

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{token: token, chatID: chatID, endpoint: tgbotapi.APIEndpoint}
}

// Sink wraps the bot so delivery happens in the background.
func (t *Telegram) Sink() *Async {
	return &Async{name: "telegram", s: t}
}

func (t *Telegram) client() (*tgbotapi.BotAPI, error) {
	t.once.Do(func() {
		if t.token == "" || t.chatID == 0 {
			t.err = errors.New("telegram token and chat id are required")
			return
		}
		t.bot, t.err = tgbotapi.NewBotAPIWithAPIEndpoint(t.token, t.endpoint)
	})
	return t.bot, t.err
}

func (t *Telegram) Send(text string) error {
	bot, err := t.client()
	if err != nil {
		return err
	}
	_, err = bot.Send(tgbotapi.NewMessage(t.chatID, text))
	return err
}
