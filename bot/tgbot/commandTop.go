package tgbot

import (
	"strconv"
	"strings"

	"glickoserver/bot/model"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const topSize = 10

type TopCommand struct {
	statelessCommand
	playerService *service.PlayerService
	provisionalRD float64
}

func (c *TopCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	ratings, err := c.playerService.GetRatings()
	if err != nil {
		return false, err
	}
	if len(ratings) > topSize {
		ratings = ratings[:topSize]
	}
	var buf strings.Builder
	for _, player := range ratings {
		buf.WriteString(strconv.Itoa(player.RatingRank))
		buf.WriteString(". ")
		buf.WriteString(player.Name)
		buf.WriteString(" - ")
		buf.WriteString(formatRating(player, c.provisionalRD))
		buf.WriteString("\n")
	}
	resp.Text = buf.String()
	return false, nil
}

func (c *TopCommand) Help() string {
	return `Список лучших в рейтинге`
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *TopCommand) Visibility() mapset.Set[model.UserRole] { return everyone }
