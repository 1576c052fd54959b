package insurance

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
	g := api.Group("/insurance", auth.RequireRole("admin", "billing"))

	g.GET("/providers", h.ListProviders)
	g.GET("/providers/:code", h.GetProvider)
	g.POST("/coverage/verify", h.VerifyCoverage)
	g.POST("/claims", h.SubmitClaim)
	g.GET("/claims", h.ListClaims)
	g.GET("/claims/:number", h.GetClaim)
	g.PUT("/claims/:number/status", h.UpdateClaimStatus)
	g.POST("/claims/:number/reimbursements", h.ProcessReimbursement)
	g.GET("/claims/:number/reimbursements", h.ClaimReimbursements)
	g.GET("/reimbursements", h.ListReimbursements)
	g.GET("/patients/:id/claims", h.PatientClaims)
}

func (h *Handler) ListProviders(c echo.Context) error {
	providers, err := h.svc.ListProviders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, providers)
}

func (h *Handler) GetProvider(c echo.Context) error {
	p, err := h.svc.GetProvider(c.Request().Context(), c.Param("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "insurance provider not found")
	}
	return c.JSON(http.StatusOK, p)
}

type coverageRequest struct {
	InsuranceID  string `json:"insurance_id"`
	ProviderCode string `json:"provider_code"`
	CPTCode      string `json:"cpt_code"`
}

func (h *Handler) VerifyCoverage(c echo.Context) error {
	var req coverageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.VerifyCoverage(c.Request().Context(), req.InsuranceID, req.ProviderCode, req.CPTCode)
	if err != nil {
		if errors.Is(err, ErrUnknownProvider) || errors.Is(err, ErrServiceNotCovered) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type claimRequest struct {
	Patient   PatientInfo   `json:"patient_info"`
	Provider  ProviderInfo  `json:"provider_info"`
	Service   ServiceInfo   `json:"service_info"`
	Insurance InsuranceInfo `json:"insurance_info"`
}

func (h *Handler) SubmitClaim(c echo.Context) error {
	var req claimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	claim, err := h.svc.SubmitClaim(c.Request().Context(), req.Patient, req.Provider, req.Service, req.Insurance)
	if err != nil {
		if errors.Is(err, ErrUnknownProvider) || errors.Is(err, ErrServiceNotCovered) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, claim)
}

func (h *Handler) ListClaims(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListClaims(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetClaim(c echo.Context) error {
	claim, err := h.svc.GetClaim(c.Request().Context(), c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.JSON(http.StatusOK, claim)
}

type claimStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateClaimStatus(c echo.Context) error {
	var req claimStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	claim, err := h.svc.UpdateClaimStatus(c.Request().Context(), c.Param("number"), req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, ErrClaimNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, claim)
}

type reimbursementRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) ProcessReimbursement(c echo.Context) error {
	var req reimbursementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rb, err := h.svc.ProcessReimbursement(c.Request().Context(), c.Param("number"), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrClaimNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		case errors.Is(err, ErrClaimNotApproved):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, rb)
}

func (h *Handler) ClaimReimbursements(c echo.Context) error {
	items, err := h.svc.ClaimReimbursements(c.Request().Context(), c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListReimbursements(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReimbursements(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientClaims(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientClaims(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
