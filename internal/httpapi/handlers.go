package httpapi

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/policydesk/policydesk/internal/chart"
	cerrors "github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/format"
	"github.com/policydesk/policydesk/internal/metrics"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/registry"
	"github.com/policydesk/policydesk/internal/renewal"
	"github.com/policydesk/policydesk/internal/session"
	"github.com/policydesk/policydesk/internal/timeline"
)

// Credentials are the dashboard login credentials checked by Login.
type Credentials struct {
	Email    string
	Password string
	UserName string
}

// Handlers holds dependencies for the HTTP handlers.
type Handlers struct {
	store    *session.Store
	reg      *registry.Registry
	source   timeline.Source
	guardCfg GuardConfig
	creds    Credentials
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewHandlers creates the handler set. now is injectable so renewal math is
// reproducible in tests; nil means time.Now.
func NewHandlers(
	store *session.Store,
	reg *registry.Registry,
	source timeline.Source,
	guardCfg GuardConfig,
	creds Credentials,
	m *metrics.Metrics,
	logger zerolog.Logger,
	now func() time.Time,
) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		store:    store,
		reg:      reg,
		source:   source,
		guardCfg: guardCfg,
		creds:    creds,
		metrics:  m,
		logger:   logger.With().Str("component", "handlers").Logger(),
		now:      now,
	}
}

// Login handles POST /api/v1/session/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.creds.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.creds.Password)) == 1
	if !emailOK || !passOK || h.creds.Password == "" {
		if h.metrics != nil {
			h.metrics.RecordLogin("failure")
		}
		return problemResponse(c, fiber.StatusUnauthorized,
			"invalid_credentials", "Unauthorized",
			cerrors.ErrInvalidCredentials.Error())
	}

	user := models.AuthUser{ID: "usr-1", Name: h.creds.UserName, Email: h.creds.Email}
	h.store.LoginSuccess(user)

	token, err := signSession(h.guardCfg, user, h.now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  h.now().Add(h.guardCfg.SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	if h.metrics != nil {
		h.metrics.RecordLogin("success")
	}
	return c.JSON(LoginResponse{Token: token, State: h.store.Snapshot()})
}

// Logout handles POST /api/v1/session/logout.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	h.store.Logout()
	c.ClearCookie(sessionCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session handles GET /api/v1/session: the auth slice a client hydrates
// from at bootstrap.
func (h *Handlers) Session(c *fiber.Ctx) error {
	return c.JSON(h.store.Snapshot())
}

func (h *Handlers) clientSummary(cl models.Client) ClientSummary {
	return ClientSummary{
		Client:       cl,
		PhoneDisplay: format.PhoneNumber(cl.Phone),
		PolicyCount:  len(h.reg.PoliciesFor(cl.ID)),
	}
}

// ListClients handles GET /api/v1/clients.
func (h *Handlers) ListClients(c *fiber.Ctx) error {
	clients := h.reg.Clients()
	out := make([]ClientSummary, len(clients))
	for i, cl := range clients {
		out[i] = h.clientSummary(cl)
	}
	return c.JSON(out)
}

// GetClient handles GET /api/v1/clients/:id.
func (h *Handlers) GetClient(c *fiber.Ctx) error {
	cl, err := h.reg.Client(c.Params("id"))
	if err != nil {
		if errors.Is(err, cerrors.ErrNotFound) {
			return problemResponse(c, fiber.StatusNotFound,
				"client_not_found", "Not Found", err.Error())
		}
		return err
	}

	now := h.now()
	policies := h.reg.PoliciesFor(cl.ID)
	views := make([]PolicyView, len(policies))
	for i, p := range policies {
		views[i] = PolicyView{
			Policy:         p,
			TypeLabel:      format.PolicyType(p.Type),
			StatusBadge:    format.PolicyStatus(p.Status),
			PremiumDisplay: format.Currency(p.Premium),
			Renewal:        renewal.Assess(p, now),
		}
	}

	return c.JSON(ClientDetailResponse{
		Client:   h.clientSummary(cl),
		Policies: views,
	})
}

// GetTimeline handles GET /api/v1/clients/:id/timeline.
func (h *Handlers) GetTimeline(c *fiber.Ctx) error {
	if _, err := h.reg.Client(c.Params("id")); err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"client_not_found", "Not Found", err.Error())
	}

	items, err := h.source.Timeline(c.UserContext(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(TimelineResponse{Items: items})
}

// GetNotes handles GET /api/v1/clients/:id/notes.
func (h *Handlers) GetNotes(c *fiber.Ctx) error {
	if _, err := h.reg.Client(c.Params("id")); err != nil {
		return problemResponse(c, fiber.StatusNotFound,
			"client_not_found", "Not Found", err.Error())
	}

	notes, err := h.source.Notes(c.UserContext(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(NotesResponse{Notes: notes})
}

// GetSales handles GET /api/v1/analytics/sales.
func (h *Handlers) GetSales(c *fiber.Ctx) error {
	built, err := chart.Build(h.reg.MonthlySales(), nil)
	if err != nil {
		// The registry validated the series at load; reaching this means
		// the book changed shape under us.
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(SalesResponse{Chart: built})
}

// GetRenewals handles GET /api/v1/renewals?window=N.
func (h *Handlers) GetRenewals(c *fiber.Ctx) error {
	window := c.QueryInt("window", 30)
	if window < 0 {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_window", "Bad Request",
			"window must be non-negative")
	}

	now := h.now()
	expiring := h.reg.ExpiringWithin(now, window)

	tiers := map[string]float64{}
	items := make([]RenewalItem, len(expiring))
	for i, e := range expiring {
		clientName := ""
		if cl, err := h.reg.Client(e.Policy.ClientID); err == nil {
			clientName = cl.FullName()
		}
		items[i] = RenewalItem{
			Policy:         e.Policy,
			ClientName:     clientName,
			TypeLabel:      format.PolicyType(e.Policy.Type),
			PremiumDisplay: format.Currency(e.Policy.Premium),
			Assessment:     e.Assessment,
		}
		tiers[string(e.Assessment.Tier)]++
	}

	if h.metrics != nil {
		for tier, count := range tiers {
			h.metrics.SetRenewalTier(tier, count)
		}
	}

	return c.JSON(RenewalsResponse{WindowDays: window, AsOf: now, Items: items})
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
