package tgbot

import (
	"strings"
	"time"

	"glickoserver/bot/model"
	"glickoserver/internal/domain"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type EventState int

const (
	EventStateStart = iota
	EventStateWaitForPlayers
	EventStateWinner
	EventStateLooser
	EventStateDraw
)

// EventCommand runs a live event dialog: players are registered once,
// then match results come in one message at a time until another
// command interrupts.
type EventCommand struct {
	playerService *service.PlayerService
	state         EventState
	players       mapset.Set[domain.Player]
	winner        string
	notify        func(msg string)
	log           *logrus.Entry
}

func NewEventCommand(ps *service.PlayerService, log *logrus.Entry, notify func(msg string)) *EventCommand {
	return &EventCommand{
		playerService: ps,
		state:         EventStateStart,
		players:       mapset.NewSet[domain.Player](),
		notify:        notify,
		log:           log,
	}
}

func (c *EventCommand) Reset() {
	c.state = EventStateStart
	c.players = mapset.NewSet[domain.Player]()
	c.winner = ""
}

func (c *EventCommand) Run(
	_ model.User,
	text string,
	resp *tgbotapi.MessageConfig,
) (needContinue bool, err error) {
	defer func() {
		if err != nil {
			c.Reset()
		}
	}()
	switch c.state {
	case EventStateStart:
		c.state = EventStateWaitForPlayers
		resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		resp.Text = "событие открыто, перечислите игроков"
		return true, nil
	case EventStateWaitForPlayers:
		if text == "" {
			resp.Text = "жду имена игроков"
			return true, nil
		}
		names := strings.Fields(text)
		for _, name := range names {
			player, err := c.playerService.GetByName(name)
			if err != nil {
				return false, err
			}
			c.players.Add(player)
		}
		resp.ReplyMarkup = c.buildKeyboard()
		c.state = EventStateWinner
		resp.Text = "событие зарегистрировано\nпобедитель:"
		return true, nil
	case EventStateWinner:
		if text == "" {
			resp.Text = "победитель:"
			return true, nil
		}
		if text == draw {
			c.state = EventStateDraw
			resp.Text = "первый игрок:"
			return true, nil
		}
		c.winner = text
		c.state = EventStateLooser
		resp.Text = "проигравший:"
		return true, nil
	case EventStateLooser:
		if text == "" {
			resp.Text = "проигравший:"
			return true, nil
		}
		if text == draw {
			c.state = EventStateDraw
			resp.Text = "первый игрок:"
			return true, nil
		}
		match, err := c.createMatch(c.winner, text, 1)
		if err != nil {
			return false, err
		}
		sendMatchNotification(c.playerService, match, c.notify, c.log)
		c.state = EventStateWinner
		c.winner = ""
		resp.ReplyMarkup = c.buildKeyboard()
		resp.Text = "матч записан\nпобедитель:"
		return true, nil
	case EventStateDraw:
		if c.winner == "" {
			c.winner = text
			resp.Text = "второй игрок:"
			return true, nil
		}
		match, err := c.createMatch(c.winner, text, 0.5)
		if err != nil {
			return false, err
		}
		sendMatchNotification(c.playerService, match, c.notify, c.log)
		c.state = EventStateWinner
		c.winner = ""
		resp.ReplyMarkup = c.buildKeyboard()
		resp.Text = "ничья записана\nпобедитель:"
		return true, nil
	}
	resp.Text = "внутренняя ошибка, событие прервано"
	return false, nil
}

func (c *EventCommand) createMatch(nameA, nameB string, score float64) (domain.Match, error) {
	playerA, err := c.playerService.GetByName(nameA)
	if err != nil {
		return domain.Match{}, err
	}
	playerB, err := c.playerService.GetByName(nameB)
	if err != nil {
		return domain.Match{}, err
	}
	return c.playerService.CreateMatch(domain.Match{
		PlayerA: playerA,
		PlayerB: playerB,
		Score:   score,
		Date:    time.Now(),
	})
}

// buildKeyboard lays the event players out three per row with the draw
// button in the last slot.
func (c *EventCommand) buildKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard()
	for i, player := range c.players.ToSlice() {
		d := i % 3
		if d == 0 {
			keyboard.Keyboard = append(
				keyboard.Keyboard,
				tgbotapi.NewKeyboardButtonRow(
					tgbotapi.NewKeyboardButton(player.Name),
				),
			)
			continue
		}
		row := i / 3
		keyboard.Keyboard[row] = append(keyboard.Keyboard[row], tgbotapi.NewKeyboardButton(player.Name))
	}
	if c.players.Cardinality()%3 == 0 {
		keyboard.Keyboard = append(
			keyboard.Keyboard,
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(draw),
			),
		)
	} else {
		row := c.players.Cardinality() / 3
		keyboard.Keyboard[row] = append(keyboard.Keyboard[row], tgbotapi.NewKeyboardButton(draw))
	}
	return keyboard
}

func (c *EventCommand) Help() string {
	return `Управление событием`
}

func (c *EventCommand) Permission() mapset.Set[model.UserRole] { return moderators }
func (c *EventCommand) Visibility() mapset.Set[model.UserRole] { return moderators }
