package calculator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
)

func post(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestSchedule(t *testing.T) {
	h := NewHandler()

	rec := post(t, h.Schedule, `{"schedule":{"id":"s1","revenue":"1000"},"field":"splitPercent","value":"15"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s dealcalc.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, "150.00", s.CommissionAmount)
	assert.Equal(t, "850.00", s.TalentAmount)

	rec = post(t, h.Schedule, `{"schedule":{},"field":"colour","value":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown field")

	rec = post(t, h.Schedule, `{"schedule":{},"value":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProductTotal(t *testing.T) {
	h := NewHandler()

	rec := post(t, h.ProductTotal, `{"product":{"id":"p1","unitPrice":"100","quantity":"3"},"schedules":[{"productId":"p1","revenue":"120"},{"productId":"p2","revenue":"999"},{"productId":"p1","revenue":"80.5"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalPrice":"200.50"}`, rec.Body.String())

	rec = post(t, h.ProductTotal, `{"product":{"id":"p1","unitPrice":"100","quantity":"3"}}`)
	assert.JSONEq(t, `{"totalPrice":"300.00"}`, rec.Body.String())
}

func TestDealSplit(t *testing.T) {
	h := NewHandler()

	rec := post(t, h.DealSplit, `{"schedules":[{"revenue":"100","splitPercent":"10"},{"revenue":"300","splitPercent":"20"}]}`)
	assert.JSONEq(t, `{"splitPercent":"17.50","derived":true}`, rec.Body.String())

	rec = post(t, h.DealSplit, `{"schedules":[{"revenue":"100"}]}`)
	assert.JSONEq(t, `{"splitPercent":"","derived":false}`, rec.Body.String())
}

func TestAgentSplits(t *testing.T) {
	h := NewHandler()

	rec := post(t, h.AgentSplits, `{"op":"equal","payees":["1","2","3"],"pool":300}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp AgentSplitsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, agentsplit.Splits{"1": "33.33", "2": "33.33", "3": "33.33"}, resp.Splits)
	assert.Equal(t, "99.99", resp.Total)
	assert.Equal(t, agentsplit.Balanced, resp.Status)
	assert.Equal(t, 99.99, resp.Amounts["1"])

	rec = post(t, h.AgentSplits, `{"op":"set","splits":{"1":"50","2":"50"},"payee":"2","value":"30"}`)
	resp = AgentSplitsResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, agentsplit.Under, resp.Status)
	assert.Equal(t, "80.00", resp.Total)
	assert.Nil(t, resp.Amounts)

	rec = post(t, h.AgentSplits, `{"op":"add","splits":{"1":"100"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = post(t, h.AgentSplits, `{"op":"shuffle"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecalculate(t *testing.T) {
	h := NewHandler()
	body := `{
		"name": "Tour",
		"ownerId": "4",
		"stage": "Negotiation",
		"products": [{"id": "p1", "name": "Posts", "unitPrice": "10", "quantity": "2", "totalPrice": "0"}],
		"schedules": [{"id": "s1", "productId": "p1", "revenue": "500", "splitPercent": "20"}],
		"agentSplits": {"4": "60"}
	}`

	rec := post(t, h.Recalculate, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Draft struct {
			Amount       string `json:"amount"`
			SplitPercent string `json:"splitPercent"`
			Products     []struct {
				TotalPrice string `json:"totalPrice"`
			} `json:"products"`
		} `json:"draft"`
		Warnings             []string `json:"warnings"`
		AmountEditable       bool     `json:"amountEditable"`
		SplitPercentEditable bool     `json:"splitPercentEditable"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "500.00", resp.Draft.Products[0].TotalPrice)
	assert.Equal(t, "500.00", resp.Draft.Amount)
	assert.Equal(t, "20.00", resp.Draft.SplitPercent)
	assert.False(t, resp.AmountEditable)
	assert.False(t, resp.SplitPercentEditable)
	assert.Equal(t, []string{"deal agent splits total 60.00% (under)"}, resp.Warnings)

	rec = post(t, h.Recalculate, `[`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
