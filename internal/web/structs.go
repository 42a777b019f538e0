package web

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"
)

// credentials are the parsed account form fields, shared by the sign
// in and sign up handlers.
type credentials struct {
	name     string
	password string
}

var userNameRe = regexp.MustCompile(`^[A-Za-z]\w+$`)

func parseCredentials(ctx *fiber.Ctx) (credentials, error) {
	name := ctx.FormValue("username", "")
	password := ctx.FormValue("password", "")
	err := errors.Join(validateUserName(name), validatePassword(password))
	if err != nil {
		return credentials{}, err
	}
	return credentials{
		name:     name,
		password: password,
	}, nil
}

// parseSignUpForm additionally checks the password confirmation field.
func parseSignUpForm(ctx *fiber.Ctx) (credentials, error) {
	creds, err := parseCredentials(ctx)
	if ctx.FormValue("password-repeat", "") != ctx.FormValue("password", "") {
		err = errors.Join(err, errors.New("пароль не совпадает с подтверждением"))
	}
	if err != nil {
		return credentials{}, err
	}
	return creds, nil
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("пароль пользователя не должн быть пустым")
	}
	return nil
}

func validateUserName(name string) error {
	var err error
	if name == "" {
		err = errors.Join(err, errors.New("имя пользователя не должно быть пустое"))
	}
	if !userNameRe.MatchString(name) {
		err = errors.Join(err, errors.New("имя пользователя должно начинаться с латинской буквы и содержать только латинские буквы, цифры и знаки подчеркивания"))
	}
	return err
}
