package tgbot

import (
	"glickoserver/bot/botstorage"
	"glickoserver/bot/model"
	"glickoserver/internal/service"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Command handles one bot command. Run fills resp and reports whether
// the command wants the next message from the same user too.
type Command interface {
	Run(user model.User, args string, resp *tgbotapi.MessageConfig) (needContinue bool, err error)
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
	Reset()
}

// Role sets shared by the commands. Commands only read them.
var (
	everyone   = mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleModerator, model.RoleUser)
	moderators = mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleModerator)
)

// statelessCommand is embedded by commands that finish in one message.
type statelessCommand struct{}

func (statelessCommand) Reset() {}

type Commands struct {
	list map[string]Command
	// active holds the command each user is in the middle of.
	active map[int]Command
}

func NewCommands(
	ps *service.PlayerService,
	bs botstorage.BotStorage,
	adminPass string,
	provisionalRD float64,
	log *logrus.Entry,
	subFn func(id int),
	unsubFn func(id int),
	sendNotifFn func(msg string),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"top": &TopCommand{
				playerService: ps,
				provisionalRD: provisionalRD,
			},
			"me": &MeCommand{
				playerService: ps,
				botStorage:    bs,
				provisionalRD: provisionalRD,
			},
			"info": &InfoCommand{
				playerService: ps,
				provisionalRD: provisionalRD,
			},
			"role": &RoleCommand{
				adminPassword: adminPass,
				botStorage:    bs,
			},
			"game": &NewGameCommand{
				playerService: ps,
				notify:        sendNotifFn,
				log:           log,
			},
			"new_player": &NewPlayerCommand{
				playerService: ps,
			},
			"event": NewEventCommand(ps, log, sendNotifFn),
			"sub": &SubCommand{
				botStorage: bs,
				sub:        subFn,
			},
			"unsub": &UnsubCommand{
				botStorage: bs,
				unsub:      unsubFn,
			},
		},
		active: map[int]Command{},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(user model.User, msg *tgbotapi.Message, resp *tgbotapi.MessageConfig) error {
	if active, ok := uc.active[user.ID]; ok && !msg.IsCommand() {
		needContinue, err := active.Run(user, msg.Text, resp)
		if !needContinue {
			delete(uc.active, user.ID)
		}
		return err
	}
	if !msg.IsCommand() {
		return ErrBadRequest
	}
	command, ok := uc.list[msg.Command()]
	if !ok {
		return ErrBadRequest
	}
	if !command.Permission().Contains(user.Role) {
		return ErrBadRequest
	}
	if active, ok := uc.active[user.ID]; ok {
		active.Reset()
		delete(uc.active, user.ID)
	}
	needContinue, err := command.Run(user, msg.CommandArguments(), resp)
	if needContinue {
		uc.active[user.ID] = command
	}
	return err
}
