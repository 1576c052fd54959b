package counselor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/enehealths/support/internal/platform/auth"
	"github.com/enehealths/support/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/counselor", auth.RequireRole("admin", "counselor"))

	g.POST("/sessions", h.StartSession)
	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/:id", h.GetSession)
	g.POST("/sessions/:id/messages", h.PostMessage)
	g.GET("/sessions/:id/thoughts", h.SessionThoughts)
	g.GET("/about", h.About)
}

func (h *Handler) StartSession(c echo.Context) error {
	sess, err := h.svc.StartSession(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) ListSessions(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSessions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func sessionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sess, err := h.svc.GetSession(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) PostMessage(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	reply, err := h.svc.Respond(c.Request().Context(), id, req.Text)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *Handler) SessionThoughts(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	thoughts, err := h.svc.SessionThoughts(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, map[string][]string{"thoughts": thoughts})
}

func (h *Handler) About(c echo.Context) error {
	mission, vision := h.svc.MissionVision()
	return c.JSON(http.StatusOK, map[string]string{
		"mission": mission,
		"vision":  vision,
	})
}
