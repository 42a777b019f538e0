package tgbot

import (
	"glickoserver/bot/botstorage"
	"glickoserver/bot/model"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MeCommand shows the card of the player linked to the telegram user.
// Called with an argument it links that player first.
type MeCommand struct {
	statelessCommand
	playerService *service.PlayerService
	botStorage    botstorage.BotStorage
	provisionalRD float64
}

func (c *MeCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	var text string
	var err error
	if args == "" {
		text, err = c.myCard(user)
	} else {
		text, err = c.linkPlayer(user, args)
	}
	if err != nil {
		return false, err
	}
	resp.Text = text
	return false, nil
}

func (c *MeCommand) Help() string {
	return `Информация об избранном игроке.`
}

func (c *MeCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *MeCommand) Visibility() mapset.Set[model.UserRole] { return everyone }

func (c *MeCommand) myCard(user model.User) (string, error) {
	playerID, err := c.botStorage.GetMyPlayer(user)
	if err != nil {
		return "", err
	}
	player, err := c.playerService.Get(playerID)
	if err != nil {
		return "", err
	}
	return printPlayer(player, c.provisionalRD), nil
}

func (c *MeCommand) linkPlayer(user model.User, playerName string) (string, error) {
	player, err := c.playerService.GetByName(playerName)
	if err != nil {
		return "", err
	}
	if err := c.botStorage.LinkPlayer(user, player); err != nil {
		return "", err
	}
	return "игрок " + player.Name + " задан, теперь можно вызвать /me", nil
}
