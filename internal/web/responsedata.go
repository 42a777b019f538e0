package web

import (
	"errors"

	"glickoserver/auth/users"
	"glickoserver/internal/web/webpath"
)

// data is the view model every template receives. Handlers chain the
// With helpers onto newData.
type data struct {
	Title  string
	Path   map[string]string
	User   users.User
	Errors []string
	Data   map[string]any
}

func newData(title string) data {
	return data{
		Title: title,
		Path:  webpath.Path(),
		Data:  make(map[string]any),
	}
}

func (d data) WithUser(user users.User) data {
	d.User = user
	return d
}

func (d data) With(key string, value any) data {
	if d.Data == nil {
		d.Data = make(map[string]any)
	}
	d.Data[key] = value
	return d
}

func (d data) WithErrors(err error) data {
	if err == nil {
		return d
	}
	for _, err := range flatten(err) {
		d.Errors = append(d.Errors, err.Error())
	}
	return d
}

type multierr interface {
	Unwrap() []error
}

// flatten expands nested joined errors into a flat list.
func flatten(err error) []error {
	var merr multierr
	if errors.As(err, &merr) {
		var errs []error
		for _, err := range merr.Unwrap() {
			errs = append(errs, flatten(err)...)
		}
		return errs
	}
	return []error{err}
}
