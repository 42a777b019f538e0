package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	sel "glickoserver/tests/selectors"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/suite"
)

const baseURL = "http://0.0.0.0:3000"

var (
	serverConfigPath string
	botConfigPath    string
)

func init() {
	flag.StringVar(&serverConfigPath, "server-config", "", "path to server configs")
	flag.StringVar(&botConfigPath, "bot-config", "", "path to bot configs")
}

// ServerSuite гоняет собранный сервер через headless chrome.
type ServerSuite struct {
	suite.Suite
	process *Process
}

// SetupSuite запускает сервер и ждет, пока он начнет отвечать.
func (s *ServerSuite) SetupSuite() {
	if serverConfigPath == "" || botConfigPath == "" {
		s.T().Skip("-server-config and -bot-config must be set, run through mage autoTest")
	}
	p := NewProcess(context.Background(), "../bin/server",
		"-server-config", serverConfigPath,
		"-bot-config", botConfigPath)
	s.process = p
	if err := p.Start(context.Background()); err != nil {
		s.T().Fatalf("cant start server: %v", err)
	}
	if err := waitForStartup(5 * time.Second); err != nil {
		s.T().Fatalf("server did not come up: %v", err)
	}
}

// TearDownSuite останавливает сервер и печатает его вывод.
func (s *ServerSuite) TearDownSuite() {
	if s.process == nil {
		return
	}
	exitCode, err := s.process.Stop()
	if err != nil {
		s.T().Logf("cant stop server: %v", err)
	}
	stdout, stderr := s.process.Output()
	s.T().Logf("server finished with code %d\nstdout:\n%s\nstderr:\n%s", exitCode, stdout, stderr)
}

func waitForStartup(limit time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), limit)
	defer cancel()

	ticker := time.NewTicker(time.Second / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r, _ := http.Get(baseURL + "/")
			if r != nil && r.StatusCode == http.StatusOK {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// browser открывает чистый браузерный контекст, куки между тестами
// не переживают. Сообщения консоли страницы уходят в лог теста.
func (s *ServerSuite) browser(limit time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(context.Background(), limit)
	ctx, cancelChrome := chromedp.NewContext(ctx)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*runtime.EventConsoleAPICalled)
		if !ok {
			return
		}
		for _, arg := range e.Args {
			s.T().Logf("browser console %s: %s", e.Type, arg.Value)
		}
	})
	return ctx, func() {
		cancelChrome()
		cancelTimeout()
	}
}

// TestGuestAccess проверяет, что формы добавления закрыты для гостей,
// а страницы просмотра открыты.
func (s *ServerSuite) TestGuestAccess() {
	ctx, cancel := s.browser(10 * time.Second)
	defer cancel()

	err := chromedp.Run(ctx,
		s.checkStatus("/api/matches", http.StatusForbidden),
		s.checkStatus("/api/players", http.StatusForbidden),
		s.checkStatus("/", http.StatusOK),
		s.checkStatus("/api", http.StatusOK),
		s.checkStatus("/api/matches-list", http.StatusOK),
		s.checkStatus("/signin", http.StatusOK),
		s.checkStatus("/signout", http.StatusOK),
		s.checkStatus("/signup", http.StatusOK),
	)
	s.Require().NoError(err)
}

func (s *ServerSuite) checkStatus(path string, want int) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(baseURL+path))
		if err != nil {
			return err
		}
		if int(resp.Status) != want {
			s.T().Errorf("гость запросил %s: ожидался статус %d, сервер ответил %d", path, want, resp.Status)
		}
		return nil
	}
}

// TestMatchFlow логинится рутом, заводит двух игроков и записывает
// партию между ними. Свежие рейтинги должны показываться со знаком
// вопроса, победитель должен подняться на первое место.
func (s *ServerSuite) TestMatchFlow() {
	ctx, cancel := s.browser(20 * time.Second)
	defer cancel()

	var freshRow, topRow string
	err := chromedp.Run(ctx,
		chromedp.Navigate(baseURL+"/signin"),
		chromedp.WaitVisible(sel.SignInFormUsername),
		chromedp.SendKeys(sel.SignInFormUsername, "root"),
		chromedp.SendKeys(sel.SignInFormPass, "root"),
		chromedp.Click(sel.SignInFormSubmit),
		chromedp.WaitVisible(sel.SignOutLink),

		s.createPlayer("Alice"),
		chromedp.Text(sel.PlayerListRow, &freshRow),
		s.createPlayer("Bob"),

		chromedp.Navigate(baseURL+"/api/matches"),
		chromedp.WaitVisible(sel.NewMatchFormWinner),
		chromedp.SendKeys(sel.NewMatchFormWinner, "Alice"),
		chromedp.SendKeys(sel.NewMatchFormLoser, "Bob"),
		chromedp.Click(sel.NewMatchFormSubmit),
		chromedp.WaitVisible(sel.PlayerListRow),
		chromedp.Text(sel.PlayerListRow, &topRow),
	)
	s.Require().NoError(err)

	// Игрок без партий получает стартовый рейтинг с большим
	// отклонением, он всегда предварительный.
	s.Contains(freshRow, "Alice")
	s.Contains(freshRow, "1500?")

	// Одной партии мало, чтобы рейтинг перестал быть предварительным.
	s.Contains(topRow, "Alice")
	s.Contains(topRow, "?")
}

func (s *ServerSuite) createPlayer(name string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(baseURL + "/api/players"),
		chromedp.WaitVisible(sel.NewPlayerFormName),
		chromedp.SendKeys(sel.NewPlayerFormName, name),
		chromedp.Click(sel.NewPlayerFormSubmit),
		chromedp.WaitVisible(sel.PlayerListRow),
	}
}

// TestSignInPage проверяет разметку формы входа и шапку.
func (s *ServerSuite) TestSignInPage() {
	ctx, cancel := s.browser(10 * time.Second)
	defer cancel()

	var logo string
	err := chromedp.Run(ctx,
		chromedp.Navigate(baseURL+"/signin"),
		chromedp.WaitVisible(sel.SignInFormUsername),
		chromedp.WaitVisible(sel.SignInFormPass),
		chromedp.WaitVisible(sel.SignInFormSubmit),
		chromedp.Text(sel.Logo, &logo),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if logo == "Глико-рейтинг" {
				return nil
			}
			err := fmt.Errorf("invalid logo text: %q", logo)
			var shot []byte
			chromedp.FullScreenshot(&shot, 80).Do(ctx)
			if errW := os.WriteFile("invalid_logo.png", shot, 0o644); errW != nil {
				return errors.Join(errW, err)
			}
			return err
		}),
	)
	s.Require().NoError(err)
	s.Equal("Глико-рейтинг", logo)
}
