package tgbot

import (
	"glickoserver/bot/botstorage"
	"glickoserver/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type SubCommand struct {
	statelessCommand
	botStorage botstorage.BotStorage
	// sub mirrors the change into the in-memory subscriber sets.
	sub func(int)
}

func (c *SubCommand) Run(user model.User, _ string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if err := c.botStorage.Subscribe(user); err != nil {
		return false, err
	}
	c.sub(user.ID)
	resp.Text = "Подписка оформлена, чтобы отписаться от уведомлений: /unsub"
	return false, nil
}

func (c *SubCommand) Help() string {
	return `Подписаться на уведомления`
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *SubCommand) Visibility() mapset.Set[model.UserRole] { return everyone }
