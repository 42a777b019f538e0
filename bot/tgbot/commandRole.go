package tgbot

import (
	"errors"
	"strings"

	"glickoserver/bot/botstorage"
	"glickoserver/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type RoleCommand struct {
	statelessCommand
	adminPassword string
	botStorage    botstorage.BotStorage
}

func (c *RoleCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	role, err := c.parseRole(user, args)
	if err != nil {
		return false, err
	}
	user.Role = role
	if err := c.botStorage.UpdateUserRole(user); err != nil {
		return false, err
	}
	resp.Text = "Роль обновлена"
	return false, nil
}

func (c *RoleCommand) parseRole(user model.User, args string) (model.UserRole, error) {
	parts := strings.SplitN(args, " ", 2)
	switch parts[0] {
	case "admin":
		if user.Role == model.RoleAdmin {
			return 0, errors.New("эта роль уже задана")
		}
		if len(parts) != 2 || parts[1] != c.adminPassword {
			return 0, ErrBadRequest
		}
		return model.RoleAdmin, nil
	case "user":
		if user.Role == model.RoleUser {
			return 0, errors.New("эта роль уже задана")
		}
		return model.RoleUser, nil
	}
	return 0, ErrBadRequest
}

func (c *RoleCommand) Help() string {
	return `Изменение роли. Использование: /role user или /role admin <pass>`
}

func (c *RoleCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *RoleCommand) Visibility() mapset.Set[model.UserRole] { return moderators }
