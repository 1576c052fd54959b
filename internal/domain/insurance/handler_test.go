package insurance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newHandlerTest() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func request(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const claimBody = `{
	"patient_info": {"patient_id": "PT12345", "name": "Jane Doe", "dob": "1985-06-15"},
	"provider_info": {"provider_id": "PROV789", "name": "Dr. Smith", "npi": "1234567890"},
	"service_info": {"cpt_code": "90837", "service_date": "2023-09-15", "diagnosis_code": "F41.1", "total_cost": 130.00},
	"insurance_info": {"insurance_id": "INS98765", "provider_code": "blue_cross", "group_number": "GRP123456"}
}`

func submitTestClaim(t *testing.T, h *Handler, e *echo.Echo) Claim {
	t.Helper()
	c, rec := request(e, http.MethodPost, "/", claimBody)
	if err := h.SubmitClaim(c); err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	var claim Claim
	if err := json.Unmarshal(rec.Body.Bytes(), &claim); err != nil {
		t.Fatalf("decode claim: %v", err)
	}
	return claim
}

func TestHandlerVerifyCoverage(t *testing.T) {
	h, e := newHandlerTest()

	c, rec := request(e, http.MethodPost, "/", `{"insurance_id":"INS98765","provider_code":"blue_cross","cpt_code":"90837"}`)
	if err := h.VerifyCoverage(c); err != nil {
		t.Fatalf("VerifyCoverage: %v", err)
	}
	var got CoverageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CoveragePercentage != 0.70 {
		t.Errorf("coverage = %.2f, want 0.70", got.CoveragePercentage)
	}

	c, _ = request(e, http.MethodPost, "/", `{"insurance_id":"INS98765","provider_code":"cigna","cpt_code":"90837"}`)
	err := h.VerifyCoverage(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown provider, got %v", err)
	}
}

func TestHandlerSubmitClaim(t *testing.T) {
	h, e := newHandlerTest()

	claim := submitTestClaim(t, h, e)
	if claim.Status != StatusSubmitted {
		t.Errorf("status = %q, want submitted", claim.Status)
	}
	if claim.EstimatedReimbursement != 91.00 {
		t.Errorf("estimated = %.2f, want 91.00", claim.EstimatedReimbursement)
	}

	c, rec := request(e, http.MethodGet, "/", "")
	c.SetParamNames("number")
	c.SetParamValues(claim.Number)
	if err := h.GetClaim(c); err != nil {
		t.Fatalf("GetClaim: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerClaimStatusAndReimbursement(t *testing.T) {
	h, e := newHandlerTest()
	claim := submitTestClaim(t, h, e)

	c, _ := request(e, http.MethodPut, "/", `{"status":"approved","notes":"Claim approved by insurance provider"}`)
	c.SetParamNames("number")
	c.SetParamValues(claim.Number)
	if err := h.UpdateClaimStatus(c); err != nil {
		t.Fatalf("UpdateClaimStatus: %v", err)
	}

	c, rec := request(e, http.MethodPost, "/", `{"amount":91.00}`)
	c.SetParamNames("number")
	c.SetParamValues(claim.Number)
	if err := h.ProcessReimbursement(c); err != nil {
		t.Fatalf("ProcessReimbursement: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	// Already reimbursed, second payout conflicts.
	c, _ = request(e, http.MethodPost, "/", `{"amount":1.00}`)
	c.SetParamNames("number")
	c.SetParamValues(claim.Number)
	err := h.ProcessReimbursement(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandlerReimbursementUnapproved(t *testing.T) {
	h, e := newHandlerTest()
	claim := submitTestClaim(t, h, e)

	c, _ := request(e, http.MethodPost, "/", `{"amount":91.00}`)
	c.SetParamNames("number")
	c.SetParamValues(claim.Number)
	err := h.ProcessReimbursement(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409 for unapproved claim, got %v", err)
	}
}

func TestHandlerPatientClaims(t *testing.T) {
	h, e := newHandlerTest()
	for i := 0; i < 3; i++ {
		submitTestClaim(t, h, e)
	}

	c, rec := request(e, http.MethodGet, fmt.Sprintf("/?limit=%d", 2), "")
	c.SetParamNames("id")
	c.SetParamValues("PT12345")
	if err := h.PatientClaims(c); err != nil {
		t.Fatalf("PatientClaims: %v", err)
	}

	var resp struct {
		Data    []Claim `json:"data"`
		Total   int     `json:"total"`
		HasMore bool    `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || len(resp.Data) != 2 || !resp.HasMore {
		t.Errorf("unexpected page: total=%d len=%d has_more=%v", resp.Total, len(resp.Data), resp.HasMore)
	}
}

func TestHandlerGetProvider(t *testing.T) {
	h, e := newHandlerTest()

	c, rec := request(e, http.MethodGet, "/", "")
	c.SetParamNames("code")
	c.SetParamValues("aetna")
	if err := h.GetProvider(c); err != nil {
		t.Fatalf("GetProvider: %v", err)
	}
	var p Provider
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Aetna" {
		t.Errorf("name = %q", p.Name)
	}

	c, _ = request(e, http.MethodGet, "/", "")
	c.SetParamNames("code")
	c.SetParamValues("cigna")
	err := h.GetProvider(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
