package tgbot

import (
	"sort"
	"strings"

	"glickoserver/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type HelpCommand struct {
	statelessCommand
	commands map[string]Command
}

func (c *HelpCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if command, ok := c.commands[args]; ok && command.Visibility().Contains(user.Role) {
		resp.Text = command.Help()
		return false, nil
	}
	var b strings.Builder
	b.WriteString("Доступные команды:\n")
	for _, name := range c.visibleCommands(user) {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Подробная помощь по команде /help и имя команды")
	resp.Text = b.String()
	return false, nil
}

func (c *HelpCommand) visibleCommands(user model.User) []string {
	names := make([]string, 0, len(c.commands))
	for name, command := range c.commands {
		if command.Visibility().Contains(user.Role) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (c *HelpCommand) Help() string {
	return "Выводит список доступных комманд"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] { return everyone }
func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] { return everyone }
