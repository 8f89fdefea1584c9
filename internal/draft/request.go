package draft

import (
	"fmt"
	"strconv"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
	"github.com/prism-talent/deal-desk/internal/money"
)

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return uint(n), nil
}

// CreateRequest shapes the draft into the nested create-deal payload. Each
// schedule carries its draft id as clientRef so the created rows can be
// matched back. Ids that do not parse are left out; Validate reports them.
func (d *Draft) CreateRequest() dealapi.CreateDealRequest {
	req := dealapi.CreateDealRequest{
		Name:              d.Name,
		Stage:             string(d.Stage),
		Division:          d.Division,
		Industry:          d.Industry,
		Description:       d.Description,
		Amount:            money.Round2(money.Parse(d.Amount)),
		ContractAmount:    money.Round2(money.Parse(d.ContractAmount)),
		SplitPercent:      money.Round2(money.Parse(d.SplitPercent)),
		ContractStartDate: d.ContractStartDate,
		ContractEndDate:   d.ContractEndDate,
		CloseDate:         d.CloseDate,
		CLMContractNumber: d.CLMContractNumber,
		SplitOnSchedule:   d.SplitOnSchedule,
		Products:          []dealapi.ProductInput{},
		Schedules:         []dealapi.ScheduleInput{},
	}
	if id, err := parseID(d.BrandID); err == nil {
		req.BrandID = &id
	}
	if id, err := parseID(d.OwnerID); err == nil {
		req.OwnerID = id
	}
	for _, a := range d.AdditionalAgentIDs {
		if id, err := parseID(a); err == nil {
			req.AgentIDs = append(req.AgentIDs, id)
		}
	}
	pool := money.Parse(d.Amount) * money.Parse(d.SplitPercent) / 100
	req.AgentSplits = d.splitEntries(d.AgentSplits, pool)

	attached := make(map[string]bool, len(d.Products))
	for _, p := range d.Products {
		attached[p.ID] = true
		in := dealapi.ProductInput{
			Name:         p.Name,
			Code:         p.Code,
			UnitPrice:    money.Round2(money.Parse(p.UnitPrice)),
			Quantity:     money.Parse(p.Quantity),
			TotalPrice:   money.Round2(money.Parse(p.TotalPrice)),
			Deliverables: p.Deliverables,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
			Division:     p.Division,
			Schedules:    []dealapi.ScheduleInput{},
		}
		for _, s := range dealcalc.SchedulesForProduct(d.Schedules, p.ID) {
			in.Schedules = append(in.Schedules, scheduleInput(s))
		}
		req.Products = append(req.Products, in)
	}
	for _, s := range d.Schedules {
		if !attached[s.ProductID] {
			req.Schedules = append(req.Schedules, scheduleInput(s))
		}
	}
	return req
}

func scheduleInput(s dealcalc.Schedule) dealapi.ScheduleInput {
	return dealapi.ScheduleInput{
		ClientRef:        s.ID,
		Description:      s.Description,
		ScheduleDate:     s.ScheduleDate,
		Revenue:          money.Round2(money.Parse(s.Revenue)),
		PaymentTerms:     string(s.PaymentTerms),
		Type:             s.Type,
		SplitPercent:     money.Round2(money.Parse(s.SplitPercent)),
		TalentAmount:     money.Round2(money.Parse(s.TalentAmount)),
		CommissionAmount: money.Round2(money.Parse(s.CommissionAmount)),
		Billable:         s.Billable,
	}
}

// SplitBatch builds the split payload for one schedule. The split amount of
// each payee is its share of the schedule's commission.
func (d *Draft) SplitBatch(scheduleID string) (dealapi.SplitBatchRequest, error) {
	s, ok := d.Schedule(scheduleID)
	if !ok {
		return dealapi.SplitBatchRequest{}, fmt.Errorf("schedule %s: %w", scheduleID, ErrNotFound)
	}
	return dealapi.SplitBatchRequest{
		Splits: d.splitEntries(s.AgentSplits, money.Parse(s.CommissionAmount)),
	}, nil
}

// PayeeName resolves the display name of a payee key.
func (d *Draft) PayeeName(key string) string {
	if agentsplit.IsCustom(key) {
		return agentsplit.CustomName(key)
	}
	if name := d.AgentNames[key]; name != "" {
		return name
	}
	return key
}

func (d *Draft) splitEntries(s agentsplit.Splits, pool float64) []dealapi.SplitEntry {
	amounts := agentsplit.Amounts(s, pool)
	out := make([]dealapi.SplitEntry, 0, len(s))
	for _, key := range s.Keys() {
		e := dealapi.SplitEntry{
			AgentName:    d.PayeeName(key),
			SplitPercent: money.Round2(money.Parse(s[key])),
		}
		amount := amounts[key]
		e.SplitAmount = &amount
		if !agentsplit.IsCustom(key) {
			if id, err := parseID(key); err == nil {
				e.AgentID = &id
			}
		}
		out = append(out, e)
	}
	return out
}
