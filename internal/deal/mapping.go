package deal

import (
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/money"
)

// NewDeal builds the models for a create request. Product totals, the deal
// amount and the deal split percentage are re-derived from the submitted
// schedules instead of trusting the client's figures.
func NewDeal(req dealapi.CreateDealRequest) models.Deal {
	d := models.Deal{
		Name:              req.Name,
		Stage:             req.Stage,
		Division:          req.Division,
		Industry:          req.Industry,
		Description:       req.Description,
		BrandID:           req.BrandID,
		OwnerID:           req.OwnerID,
		Amount:            money.FromFloat(req.Amount),
		ContractAmount:    money.FromFloat(req.ContractAmount),
		SplitPercent:      money.FromFloat(req.SplitPercent),
		ContractStartDate: req.ContractStartDate,
		ContractEndDate:   req.ContractEndDate,
		CloseDate:         req.CloseDate,
		CLMContractNumber: req.CLMContractNumber,
		SplitOnSchedule:   req.SplitOnSchedule,
	}

	seen := map[uint]bool{req.OwnerID: true}
	for _, id := range req.AgentIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		d.Agents = append(d.Agents, models.Agent{Model: gorm.Model{ID: id}})
	}

	var all []dealcalc.Schedule
	amount := decimal.Zero
	for _, p := range req.Products {
		prod := models.Product{
			Name:         p.Name,
			Code:         p.Code,
			UnitPrice:    money.FromFloat(p.UnitPrice),
			Quantity:     decimal.NewFromFloat(p.Quantity).Round(4),
			Deliverables: p.Deliverables,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
			Division:     p.Division,
		}
		scheds := make([]dealcalc.Schedule, 0, len(p.Schedules))
		for _, s := range p.Schedules {
			prod.Schedules = append(prod.Schedules, newSchedule(s))
			scheds = append(scheds, calcSchedule(s))
		}
		prod.TotalPrice = money.Decimal(dealcalc.ProductTotal(calcProduct(p), scheds))
		amount = amount.Add(prod.TotalPrice)
		all = append(all, scheds...)
		d.Products = append(d.Products, prod)
	}
	for _, s := range req.Schedules {
		d.Schedules = append(d.Schedules, newSchedule(s))
		all = append(all, calcSchedule(s))
	}

	if len(d.Products) > 0 {
		d.Amount = amount
	}
	if pct, ok := dealcalc.DealSplitPercent(all); ok {
		d.SplitPercent = money.Decimal(pct)
	}

	pool := d.Amount.Mul(d.SplitPercent).Div(decimal.NewFromInt(100))
	shares := make([]models.SplitShare, 0, len(req.AgentSplits))
	for _, e := range req.AgentSplits {
		shares = append(shares, newShare(e, pool))
	}
	d.AgentSplits = datatypes.NewJSONType(shares)
	return d
}

func newSchedule(s dealapi.ScheduleInput) models.Schedule {
	typ := s.Type
	if typ == "" {
		typ = dealcalc.ScheduleTypeRevenue
	}
	terms := s.PaymentTerms
	if terms == "" {
		terms = string(dealcalc.Net30)
	}
	return models.Schedule{
		ClientRef:        s.ClientRef,
		Description:      s.Description,
		ScheduleDate:     s.ScheduleDate,
		Revenue:          money.FromFloat(s.Revenue),
		PaymentTerms:     terms,
		Type:             typ,
		SplitPercent:     money.FromFloat(s.SplitPercent),
		TalentAmount:     money.FromFloat(s.TalentAmount),
		CommissionAmount: money.FromFloat(s.CommissionAmount),
		Billable:         s.Billable,
	}
}

func newShare(e dealapi.SplitEntry, pool decimal.Decimal) models.SplitShare {
	pct := money.FromFloat(e.SplitPercent)
	amount := pool.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	if e.SplitAmount != nil {
		amount = money.FromFloat(*e.SplitAmount)
	}
	return models.SplitShare{
		AgentName:    e.AgentName,
		AgentID:      e.AgentID,
		SplitPercent: pct,
		SplitAmount:  amount,
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func calcProduct(p dealapi.ProductInput) dealcalc.Product {
	return dealcalc.Product{
		Name:      p.Name,
		UnitPrice: formatFloat(p.UnitPrice),
		Quantity:  formatFloat(p.Quantity),
	}
}

func calcSchedule(s dealapi.ScheduleInput) dealcalc.Schedule {
	return dealcalc.Schedule{
		ID:               s.ClientRef,
		Revenue:          formatFloat(s.Revenue),
		SplitPercent:     formatFloat(s.SplitPercent),
		CommissionAmount: formatFloat(s.CommissionAmount),
		TalentAmount:     formatFloat(s.TalentAmount),
	}
}

// ToResponse renders a deal loaded with FindByID.
func ToResponse(d models.Deal) dealapi.DealResponse {
	resp := dealapi.DealResponse{
		ID:                d.ID,
		Name:              d.Name,
		Stage:             d.Stage,
		Division:          d.Division,
		Industry:          d.Industry,
		Description:       d.Description,
		BrandID:           d.BrandID,
		OwnerID:           d.OwnerID,
		AgentIDs:          []uint{},
		Amount:            d.Amount.InexactFloat64(),
		ContractAmount:    d.ContractAmount.InexactFloat64(),
		SplitPercent:      d.SplitPercent.InexactFloat64(),
		ContractStartDate: d.ContractStartDate,
		ContractEndDate:   d.ContractEndDate,
		CloseDate:         d.CloseDate,
		CLMContractNumber: d.CLMContractNumber,
		SplitOnSchedule:   d.SplitOnSchedule,
		AgentSplits:       []dealapi.SplitEntry{},
		Products:          []dealapi.ProductResponse{},
		Schedules:         []dealapi.ScheduleResponse{},
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	for _, a := range d.Agents {
		resp.AgentIDs = append(resp.AgentIDs, a.ID)
	}
	for _, s := range d.AgentSplits.Data() {
		amount := s.SplitAmount.InexactFloat64()
		resp.AgentSplits = append(resp.AgentSplits, dealapi.SplitEntry{
			AgentName:    s.AgentName,
			AgentID:      s.AgentID,
			SplitPercent: s.SplitPercent.InexactFloat64(),
			SplitAmount:  &amount,
		})
	}
	for _, p := range d.Products {
		resp.Products = append(resp.Products, ProductResponse(p))
	}
	for _, s := range d.Schedules {
		resp.Schedules = append(resp.Schedules, ScheduleResponse(s))
	}
	return resp
}

func ProductResponse(p models.Product) dealapi.ProductResponse {
	out := dealapi.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Code:         p.Code,
		UnitPrice:    p.UnitPrice.InexactFloat64(),
		Quantity:     p.Quantity.InexactFloat64(),
		TotalPrice:   p.TotalPrice.InexactFloat64(),
		Deliverables: p.Deliverables,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Division:     p.Division,
		Schedules:    []dealapi.ScheduleResponse{},
	}
	for _, s := range p.Schedules {
		out.Schedules = append(out.Schedules, ScheduleResponse(s))
	}
	return out
}

func ScheduleResponse(s models.Schedule) dealapi.ScheduleResponse {
	return dealapi.ScheduleResponse{
		ID:               s.ID,
		ProductID:        s.ProductID,
		ClientRef:        s.ClientRef,
		Description:      s.Description,
		ScheduleDate:     s.ScheduleDate,
		Revenue:          s.Revenue.InexactFloat64(),
		PaymentTerms:     s.PaymentTerms,
		Type:             s.Type,
		SplitPercent:     s.SplitPercent.InexactFloat64(),
		TalentAmount:     s.TalentAmount.InexactFloat64(),
		CommissionAmount: s.CommissionAmount.InexactFloat64(),
		Billable:         s.Billable,
	}
}
