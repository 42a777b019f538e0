package tgbot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"glickoserver/bot/model"
	"glickoserver/internal/domain"
	"glickoserver/internal/normalize"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type NewGameCommand struct {
	statelessCommand
	playerService *service.PlayerService
	notify        func(msg string)
	log           *logrus.Entry
}

func (c *NewGameCommand) Run(_ model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	match, err := c.processAddMatch(args)
	if err != nil {
		return false, err
	}
	sendMatchNotification(c.playerService, match, c.notify, c.log)
	resp.Text = "матч создан"
	return false, nil
}

func (c *NewGameCommand) Help() string {
	return `Добавить игру. Использование: /game <игрок1> <игрок1> <победитель / "ничья">`
}

func (c *NewGameCommand) Permission() mapset.Set[model.UserRole] { return moderators }
func (c *NewGameCommand) Visibility() mapset.Set[model.UserRole] { return moderators }

const (
	playerAIndex int = iota
	playerBIndex
	winnerIndex
)

func (c *NewGameCommand) processAddMatch(arguments string) (domain.Match, error) {
	fields := strings.Fields(arguments)
	if len(fields) < 3 {
		return domain.Match{}, errors.New(`неверный запрос. Пример: "Вася петя вася" - играли вася и петя, победил вася`)
	}
	playerAName := fields[playerAIndex]
	playerA, err := c.playerService.GetByName(playerAName)
	if err != nil {
		return domain.Match{}, errors.New(playerAName + " не найден")
	}
	playerBName := fields[playerBIndex]
	playerB, err := c.playerService.GetByName(playerBName)
	if err != nil {
		return domain.Match{}, errors.New(playerBName + " не найден")
	}

	newMatch := domain.Match{
		PlayerA: playerA,
		PlayerB: playerB,
		Date:    time.Now(),
	}
	switch normalize.Name(fields[winnerIndex]) {
	case normalize.Name(playerAName):
		newMatch.Score = 1
	case normalize.Name(playerBName):
		newMatch.Score = 0
	case draw:
		newMatch.Score = 0.5
	default:
		return domain.Match{}, errors.New("победитель не найден среди игроков")
	}
	return c.playerService.CreateMatch(newMatch)
}

// sendMatchNotification rereads the match list to pick up the rating
// changes the new match caused, then pushes the formatted result to
// the subscribers.
func sendMatchNotification(ps *service.PlayerService, match domain.Match, notify func(string), log *logrus.Entry) {
	matches, err := ps.GetMatches()
	if err != nil {
		log.WithError(err).Error("can't load matches for notification")
		return
	}
	for i := range matches {
		if matches[i].ID == match.ID {
			notify(formatMatchResult(matches[i]))
			return
		}
	}
}

func formatMatchResult(match domain.Match) string {
	winner, decisive := match.Winner()
	var buf strings.Builder
	if decisive && winner.ID == match.PlayerA.ID {
		buf.WriteString("🏆")
	} else if decisive {
		buf.WriteString("😖")
	}
	buf.WriteString(match.PlayerA.Name)
	buf.WriteString(" vs ")
	buf.WriteString(match.PlayerB.Name)
	if decisive && winner.ID == match.PlayerB.ID {
		buf.WriteString("🏆")
	} else if decisive {
		buf.WriteString("😖")
	}
	buf.WriteString("\n")
	if match.Draw() {
		buf.WriteString("Ничья\n")
	}
	buf.WriteString("Рейтинг:\n")

	buf.WriteString(match.PlayerA.Name)
	buf.WriteString(": ")
	buf.WriteString(strconv.Itoa(int(match.PlayerA.Rating.Rating)))
	buf.WriteString(" (")
	buf.WriteString(formatRatingChange(match.PlayerA.RatingChange))
	buf.WriteString(")\n")
	buf.WriteString(match.PlayerB.Name)
	buf.WriteString(": ")
	buf.WriteString(strconv.Itoa(int(match.PlayerB.Rating.Rating)))
	buf.WriteString(" (")
	buf.WriteString(formatRatingChange(match.PlayerB.RatingChange))
	buf.WriteString(")\n")

	return buf.String()
}

func formatRatingChange(change float64) string {
	return fmt.Sprintf("%+d", int(math.Round(change)))
}
