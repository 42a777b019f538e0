package tgbot

import (
	"context"
	"errors"
	"fmt"
	"glickoserver/bot/botstorage"
	botmodel "glickoserver/bot/model"
	"glickoserver/internal/config"
	"glickoserver/internal/service"
	"time"

	"github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot *tgbotapi.BotAPI

	botStorage botstorage.BotStorage
	log        *logrus.Entry

	// cancel func to stop the bot
	cancel func()

	subs subscriptions

	commands *Commands
}

const draw = "ничья"

var ErrBadRequest = errors.New("неизвестная команда")

func New(ps *service.PlayerService, bs botstorage.BotStorage, cfg config.Config, log *logrus.Logger) (Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramAPIToken)
	if err != nil {
		return Bot{}, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	bot.Debug = cfg.Server.Debug
	if _, err := bot.GetMe(); err != nil {
		return Bot{}, err
	}

	subs, err := loadSubscriptions(bs)
	if err != nil {
		return Bot{}, err
	}

	b := Bot{
		bot:        bot,
		botStorage: bs,
		log:        log.WithField("from", "tg-bot"),
		subs:       subs,
	}
	b.commands = NewCommands(
		ps,
		bs,
		cfg.TgBot.AdminPass,
		cfg.Server.Rating.ProvisionalDeviation,
		b.log,
		func(id int) {
			b.subs.Add(botmodel.NewMatch, id)
		},
		func(id int) {
			b.subs.Remove(botmodel.NewMatch, id)
		},
		func(msg string) {
			b.broadcast(botmodel.NewMatch, msg)
		},
	)
	return b, nil
}

func loadSubscriptions(bs botstorage.BotStorage) (subscriptions, error) {
	users, err := bs.ListUsers()
	if err != nil {
		return nil, err
	}
	subs := newSubs()
	for _, user := range users {
		for _, event := range user.Subscriptions {
			subs.Add(event, user.ID)
		}
	}
	return subs, nil
}

func (b *Bot) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(update)
		}
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bot) handleMessage(update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(map[string]interface{}{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})
	user, err := b.ensureUser(tgUser)
	if err != nil {
		log.WithError(err).Error("resolve user")
		return
	}
	if err := b.botStorage.Log(user, update.Message.Text); err != nil {
		log.WithError(err).Error("store message")
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	if err := b.commands.RunCommand(user, update.Message, &msg); err != nil {
		msg.Text = err.Error()
	}
	if _, err := b.bot.Send(msg); err != nil {
		log.WithError(err).Error("send reply")
	}
}

// ensureUser loads the stored user and registers unknown senders on
// the fly.
func (b *Bot) ensureUser(tgUser *tgbotapi.User) (botmodel.User, error) {
	user, err := b.botStorage.GetUser(int(tgUser.ID))
	if err == nil {
		return user, nil
	}
	now := time.Now()
	return b.botStorage.NewUser(botmodel.User{
		ID:        int(tgUser.ID),
		FirstName: tgUser.FirstName,
		Username:  tgUser.UserName,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (b *Bot) broadcast(event botmodel.EventType, text string) {
	for _, userID := range b.subs.UserIDs(event) {
		msg := tgbotapi.NewMessage(int64(userID), text)
		if _, err := b.bot.Send(msg); err != nil {
			b.log.WithError(err).Error("notification send error")
		}
	}
}
