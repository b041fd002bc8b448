package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"venue_pos/config"
	"venue_pos/constants"
	"venue_pos/helper"
	"venue_pos/middleware"
	"venue_pos/model"
	"venue_pos/realtime"
	"venue_pos/service"
	"venue_pos/utils"
)

// Backoffice is the account and reporting storage the handlers use beside the core.
type Backoffice interface {
	AccountByID(ctx context.Context, id uint) (*model.Account, error)
	AccountByUsername(ctx context.Context, username string) (*model.Account, error)
	AccountByTable(ctx context.Context, table int) (*model.Account, error)
	Accounts(ctx context.Context) (model.Accounts, error)
	CreateAccount(ctx context.Context, account *model.Account) error
	DeleteTable(ctx context.Context, table int) (bool, error)
	DailySummary(ctx context.Context, day time.Time) (*model.DailySummary, error)
}

type RefundMailer interface {
	SendRefundNotice(rec *model.RefundRecord)
}

type Handler struct {
	svc      *service.Service
	office   Backoffice
	jwt      *helper.JWT
	settings *config.Settings
	notifier *realtime.Notifier
	hub      *realtime.Hub
	mailer   RefundMailer
	uploader helper.ImageUploader
	log      *zap.Logger
	now      func() time.Time
}

// Deps collects what New needs. Mailer and Uploader are optional.
type Deps struct {
	Service  *service.Service
	Office   Backoffice
	JWT      *helper.JWT
	Settings *config.Settings
	Notifier *realtime.Notifier
	Hub      *realtime.Hub
	Mailer   RefundMailer
	Uploader helper.ImageUploader
	Log      *zap.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:      d.Service,
		office:   d.Office,
		jwt:      d.JWT,
		settings: d.Settings,
		notifier: d.Notifier,
		hub:      d.Hub,
		mailer:   d.Mailer,
		uploader: d.Uploader,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// actor resolves the signed-in account, so disabled accounts lose access at once.
func (h *Handler) actor(c *fiber.Ctx) (model.Actor, error) {
	claim, ok := middleware.Claim(c)
	if !ok {
		return model.Actor{}, service.ErrUnauthorized
	}
	return h.svc.Actor(c.UserContext(), claim.AccountId)
}

// optionalActor is nil for anonymous callers.
func (h *Handler) optionalActor(c *fiber.Ctx) (*model.Actor, error) {
	if _, ok := middleware.Claim(c); !ok {
		return nil, nil
	}
	actor, err := h.actor(c)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return utils.ServiceError(c, h.log, err)
}

func (h *Handler) internal(c *fiber.Ctx, err error) error {
	h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
}

func locals[T any](c *fiber.Ctx, key string) (T, bool) {
	v, ok := c.Locals(key).(T)
	return v, ok
}

func (h *Handler) missingInput(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
}
