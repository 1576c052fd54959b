package billing

import (
	"errors"
	"net/http"

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
	g := api.Group("/billing", auth.RequireRole("admin", "billing"))

	g.GET("/cpt-codes", h.ListCPTCodes)
	g.GET("/cpt-codes/:code", h.GetCPTCode)
	g.POST("/quotes", h.CalculateServiceCost)
	g.POST("/payments", h.ProcessPayment)
	g.GET("/transactions", h.ListTransactions)
	g.GET("/transactions/:number", h.GetTransaction)
	g.POST("/invoices", h.GenerateInvoice)
	g.GET("/invoices", h.ListInvoices)
	g.GET("/invoices/:number", h.GetInvoice)
	g.PUT("/invoices/:number/status", h.UpdateInvoiceStatus)
	g.GET("/patients/:id/history", h.PatientHistory)
}

func (h *Handler) ListCPTCodes(c echo.Context) error {
	codes, err := h.svc.ListCPTCodes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, codes)
}

func (h *Handler) GetCPTCode(c echo.Context) error {
	code, err := h.svc.VerifyCPTCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cpt code not found")
	}
	return c.JSON(http.StatusOK, code)
}

type quoteRequest struct {
	CPTCode   string   `json:"cpt_code"`
	Units     int      `json:"units"`
	Modifiers []string `json:"modifiers"`
}

func (h *Handler) CalculateServiceCost(c echo.Context) error {
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Units == 0 {
		req.Units = 1
	}
	cost, err := h.svc.CalculateServiceCost(c.Request().Context(), req.CPTCode, req.Units, req.Modifiers)
	if err != nil {
		if errors.Is(err, ErrUnknownCPTCode) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cost)
}

type paymentRequest struct {
	PatientID string       `json:"patient_id"`
	Amount    float64      `json:"amount"`
	Method    string       `json:"method"`
	Service   *ServiceCost `json:"service,omitempty"`
}

func (h *Handler) ProcessPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.ProcessPayment(c.Request().Context(), req.PatientID, req.Amount, req.Method, req.Service)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) ListTransactions(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTransactions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetTransaction(c echo.Context) error {
	t, err := h.svc.GetTransaction(c.Request().Context(), c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "transaction not found")
	}
	return c.JSON(http.StatusOK, t)
}

type invoiceRequest struct {
	PatientID string        `json:"patient_id"`
	Services  []ServiceCost `json:"services"`
	Status    string        `json:"status"`
}

func (h *Handler) GenerateInvoice(c echo.Context) error {
	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv, err := h.svc.GenerateInvoice(c.Request().Context(), req.PatientID, req.Services, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) ListInvoices(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInvoices(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetInvoice(c echo.Context) error {
	inv, err := h.svc.GetInvoice(c.Request().Context(), c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.JSON(http.StatusOK, inv)
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateInvoiceStatus(c echo.Context) error {
	var req invoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv, err := h.svc.UpdateInvoiceStatus(c.Request().Context(), c.Param("number"), req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	history, err := h.svc.PatientHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}
