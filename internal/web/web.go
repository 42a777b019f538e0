package web

import (
	"errors"
	"fmt"
	embedded "glickoserver"
	authservice "glickoserver/auth/service"
	"glickoserver/auth/users"
	"glickoserver/internal/config"
	"glickoserver/internal/service"
	"glickoserver/internal/storage"
	"glickoserver/internal/web/webpath"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"
)

type Server struct {
	auth          *authservice.Service
	playerService *service.PlayerService
	app           *fiber.App
	cfg           config.Server
}

func New(ps *service.PlayerService, cfg config.Server, authService *authservice.Service) (*Server, error) {
	server := Server{
		playerService: ps,
		auth:          authService,
		cfg:           cfg,
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)
	engine.AddFunc("FormatDate", formatDate)
	engine.AddFunc("FormatChange", formatChange)
	engine.AddFunc("FormatScore", formatScore)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(webpath.Api, func(c *fiber.Ctx) error {
		tokenCookie := c.Cookies("token")
		user, err := authService.Auth(c.Context(), tokenCookie, c.Method(), c.OriginalURL())
		if err != nil {
			switch {
			case errors.Is(err, authservice.ErrForbidden):
				c.Status(fiber.StatusForbidden)
			case errors.Is(err, authservice.ErrNotAuthorized):
				c.Status(fiber.StatusUnauthorized)
			default:
				c.Status(fiber.StatusInternalServerError)
			}
			return nil
		}
		c.Context().SetUserValue(userKey, user)
		return c.Next()
	})
	app.Get(webpath.Signin, server.HandleGetSignIn)
	app.Post(webpath.Signin, server.HandlePostSignIn)
	app.Get(webpath.Signup, server.HandleGetSignup)
	app.Post(webpath.Signup, server.HandlePostSignup)
	app.Get(webpath.Signout, server.HandleSignOut)
	app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.Redirect(webpath.Api)
	})

	app.Get(webpath.ApiHome, server.handleMain)
	app.Get(webpath.ApiMatchesList, server.handleMatches)
	app.Get(webpath.ApiNewMatch, server.handleCreateMatchGet)
	app.Post(webpath.ApiNewMatch, server.handleCreateMatchPost)
	app.Get(webpath.ApiGetPlayers, server.HandlePlayerInfo)
	app.Get(webpath.ApiNewPlayer, server.handleNewPlayerGet)
	app.Post(webpath.ApiNewPlayer, server.handleNewPlayerPost)
	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	if s.cfg.TLS.Enabled {
		return s.app.ListenTLS(addr, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	}
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

const userKey = "user"

func (s *Server) handleMain(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	globalRating, err := s.playerService.GetRatings()
	if err != nil {
		return err
	}
	return ctx.Render("index", newData("Рейтинг").
		WithUser(user).
		With("Button", "rating").
		With("Players", globalRating).
		With("ProvisionalDeviation", s.cfg.Rating.ProvisionalDeviation),
		"layouts/main")
}

func (s *Server) handleMatches(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	matches, err := s.playerService.GetMatches()
	if err != nil {
		return err
	}
	return ctx.Render("matches", newData("Список матчей").
		WithUser(user).
		With("Button", "matches").
		With("Matches", matches),
		"layouts/main")
}

func (s *Server) handleCreateMatchGet(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	return ctx.Render("newMatch", newData("Добавить игру").WithUser(user), "layouts/main")
}

func (s *Server) handleCreateMatchPost(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	renderError := func(err error) error {
		ctx.Status(fiber.StatusBadRequest)
		return ctx.Render("newMatch", newData("Добавить игру").
			WithUser(user).
			WithErrors(err),
			"layouts/main")
	}
	req := parseNewMatchRequest(ctx)
	if err := req.Validate(); err != nil {
		return renderError(err)
	}
	winner, err := s.playerService.GetByName(req.Winner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return renderError(fmt.Errorf("игрок %q не найден", req.Winner))
		}
		return err
	}
	loser, err := s.playerService.GetByName(req.Loser)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return renderError(fmt.Errorf("игрок %q не найден", req.Loser))
		}
		return err
	}
	_, err = s.playerService.CreateMatch(req.convertToDomainMatch(winner, loser))
	if err != nil {
		return err
	}
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) HandlePlayerInfo(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	strID := ctx.Params("id")
	id, err := uuid.Parse(strID)
	if err != nil {
		return err
	}
	data, err := s.playerService.GetPlayerData(id)
	if err != nil {
		return err
	}
	return ctx.Render("playerCard", newData(data.Player.Name).
		WithUser(user).
		With("Button", "playerCard").
		With("Card", data).
		With("ProvisionalDeviation", s.cfg.Rating.ProvisionalDeviation),
		"layouts/main")
}

func (s *Server) HandleGetSignIn(ctx *fiber.Ctx) error {
	return ctx.Render("signin", newData("Войти"), "layouts/main")
}

func (s *Server) HandlePostSignIn(ctx *fiber.Ctx) error {
	renderError := func(err error) error {
		ctx.Status(fiber.StatusBadRequest)
		return ctx.Render("signin", newData("Войти").WithErrors(err), "layouts/main")
	}
	req, err := parseCredentials(ctx)
	if err != nil {
		return renderError(err)
	}
	user, err := s.auth.Login(ctx.Context(), req.name, req.password)
	if err != nil {
		return renderError(errors.New("неверное имя пользователя или пароль"))
	}
	cookie, err := s.auth.GenerateJWTCookie(user.ID, s.cfg.Host)
	if err != nil {
		return err
	}
	ctx.Cookie(cookie)
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) HandleGetSignup(ctx *fiber.Ctx) error {
	return ctx.Render("signup", newData("Зарегистрироваться"), "layouts/main")
}

func (s *Server) HandlePostSignup(ctx *fiber.Ctx) error {
	renderError := func(err error) error {
		ctx.Status(fiber.StatusBadRequest)
		return ctx.Render("signup", newData("Зарегистрироваться").WithErrors(err), "layouts/main")
	}
	req, err := parseSignUpForm(ctx)
	if err != nil {
		return renderError(err)
	}
	if err := s.auth.SignUp(ctx.Context(), req.name, req.password); err != nil {
		return renderError(err)
	}
	return ctx.Redirect(webpath.Signin)
}

func (s *Server) HandleSignOut(ctx *fiber.Ctx) error {
	ctx.ClearCookie("token")
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) handleNewPlayerGet(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	return ctx.Render("newPlayer", newData("Добавить игрока").WithUser(user), "layouts/main")
}

func (s *Server) handleNewPlayerPost(ctx *fiber.Ctx) error {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	renderError := func(err error) error {
		ctx.Status(fiber.StatusBadRequest)
		return ctx.Render("newPlayer", newData("Добавить игрока").
			WithUser(user).
			WithErrors(err),
			"layouts/main")
	}
	name := ctx.FormValue("name", "")
	_, err := s.playerService.CreatePlayer(name)
	switch {
	case errors.Is(err, service.ErrEmptyName):
		return renderError(errors.New("имя игрока не должно быть пустым"))
	case errors.Is(err, service.ErrPlayerExists):
		return renderError(errors.New("игрок с таким именем уже существует"))
	case err != nil:
		return err
	}
	return ctx.Redirect(webpath.ApiHome)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006г.")
}

func formatChange(change float64) string {
	return fmt.Sprintf("%+d", int(change))
}

func formatScore(score float64) string {
	switch score {
	case 1:
		return "1 : 0"
	case 0:
		return "0 : 1"
	case 0.5:
		return "½ : ½"
	}
	return fmt.Sprintf("%.2g : %.2g", score, 1-score)
}
