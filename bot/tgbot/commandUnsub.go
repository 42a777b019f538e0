package tgbot

import (
	"glickoserver/bot/botstorage"
	"glickoserver/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UnsubCommand struct {
	statelessCommand
	botStorage botstorage.BotStorage
	// unsub mirrors the change into the in-memory subscriber sets.
	unsub func(int)
}

func (c *UnsubCommand) Run(user model.User, _ string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if err := c.botStorage.Unsubscribe(user); err != nil {
		return false, err
	}
	c.unsub(user.ID)
	resp.Text = "Подписка отменена, чтобы подписаться на уведомления: /sub"
	return false, nil
}

func (c *UnsubCommand) Help() string {
	return `Отписаться от уведомлений`
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] { return everyone }
