package tgbot

import (
	"errors"
	"strings"
	"unicode"

	"glickoserver/bot/model"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type NewPlayerCommand struct {
	statelessCommand
	playerService *service.PlayerService
}

func (c *NewPlayerCommand) Run(_ model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if err := validatePlayerName(args); err != nil {
		return false, err
	}
	p, err := c.playerService.CreatePlayer(args)
	if err != nil {
		return false, err
	}
	resp.Text = "Добавлен игрок " + p.Name + " (ID " + p.ID.String() + ")"
	return false, nil
}

func validatePlayerName(name string) error {
	if name == "" {
		return errors.New("имя должно быть не пустое")
	}
	if strings.EqualFold(name, draw) {
		return errors.New("имя " + draw + " запрещено")
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return errors.New("имя должно начинать с буквы")
			}
			continue
		}
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return errors.New("имя должно содержать только печатные символы")
		}
	}
	return nil
}

func (c *NewPlayerCommand) Help() string {
	return `Добавить нового игрока. Использование: /new_player <имя игрок>`
}

func (c *NewPlayerCommand) Permission() mapset.Set[model.UserRole] { return moderators }
func (c *NewPlayerCommand) Visibility() mapset.Set[model.UserRole] { return moderators }
