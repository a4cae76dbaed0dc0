package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/config"
	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/forecast"
	"github.com/TedCarlson/insight-sub002/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client
	orgLocation   *time.Location

	writer *baseline.Writer
	engine *forecast.Engine

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Scheduling.OrgTimeZone)
	if err != nil {
		return nil, err
	}

	engine, err := forecast.NewEngine(cfg, repo)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		orgLocation:   loc,

		writer: baseline.NewWriter(repo),
		engine: engine,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/route-lock", func(r chi.Router) {
			// 只有能排班的角色才允许提交基线
			r.With(h.RequiredRole([]domain.PlannerRole{domain.PlannerRolePlanner, domain.PlannerRoleAdmin})).
				Post("/schedule", h.ApplyWeeklyBaseline)
			r.Get("/forecast", h.GetMonthForecast)
			r.Get("/roster", h.GetPlannableRoster)
			r.Get("/windows/{assignmentID}", h.GetAssignmentWindows)
		})
	})
}
