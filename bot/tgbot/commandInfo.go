package tgbot

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"glickoserver/bot/model"
	"glickoserver/internal/domain"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type InfoCommand struct {
	statelessCommand
	playerService *service.PlayerService
	provisionalRD float64
}

func (c *InfoCommand) Run(_ model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	name := strings.TrimSpace(args)
	if name == "" {
		return false, errors.New(`после /info имя игрока необходимо указывать в этом же сообщении. Например "/info джон"`)
	}
	player, err := c.playerService.GetByName(name)
	if err != nil {
		return false, err
	}
	resp.Text = printPlayer(player, c.provisionalRD)
	return false, nil
}

func (c *InfoCommand) Help() string {
	return `Информация об игроке. Использование - /info и имя игрока.`
}

func (c *InfoCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *InfoCommand) Visibility() mapset.Set[model.UserRole] { return everyone }

// printPlayer renders the player card. Ratings with a deviation above
// provisionalRD carry a question mark.
func printPlayer(player domain.Player, provisionalRD float64) string {
	var buf strings.Builder
	buf.WriteString("ID: ")
	buf.WriteString(player.ID.String())
	buf.WriteString("\nИмя: ")
	buf.WriteString(player.Name)
	buf.WriteString("\nМесто в рейтинге: ")
	buf.WriteString(prettifyRank(player))
	buf.WriteString("\nРейтинг: ")
	buf.WriteString(formatRating(player, provisionalRD))
	buf.WriteString("\nСыграно игр: ")
	buf.WriteString(strconv.Itoa(player.GamesPlayed))
	buf.WriteString("\nЗарегистрирован: ")
	buf.WriteString(player.RegisteredAt.Format(time.RFC1123))
	return buf.String()
}

// formatRating is "1500? (1300-1700)", rating first, then the interval
// the real strength lies in.
func formatRating(player domain.Player, provisionalRD float64) string {
	interval := player.Rating.Interval()
	var buf strings.Builder
	buf.WriteString(strconv.Itoa(int(player.Rating.Rating)))
	if player.Rating.Deviation > provisionalRD {
		buf.WriteString("?")
	}
	buf.WriteString(" (")
	buf.WriteString(strconv.Itoa(int(interval.Min)))
	buf.WriteString("-")
	buf.WriteString(strconv.Itoa(int(interval.Max)))
	buf.WriteString(")")
	return buf.String()
}

func prettifyRank(player domain.Player) string {
	if player.RatingRank == 1 {
		return "🥇"
	}
	if player.RatingRank == 2 {
		return "🥈"
	}
	if player.RatingRank == 3 {
		return "🥉"
	}
	return strconv.Itoa(player.RatingRank)
}
