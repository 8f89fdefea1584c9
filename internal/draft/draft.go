// Package draft holds the mutable deal draft that is edited before a deal is
// submitted. Every mutation keeps the derived figures (product totals, deal
// amount, deal split percent) in step with the products and schedules.
//
// A Draft is owned by a single writer and is not safe for concurrent use.
package draft

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
	"github.com/prism-talent/deal-desk/internal/money"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrReadOnly      = errors.New("field is derived and read-only")
	ErrUnknownPayee  = errors.New("unknown payee")
	ErrSplitModeOff  = errors.New("split on schedule is disabled")
	ErrEmptyName     = errors.New("name is empty")
	ErrNameRequired  = errors.New("deal name is required")
	ErrOwnerRequired = errors.New("deal owner is required")
	ErrInvalidStage  = errors.New("invalid stage")
	ErrInvalidID     = errors.New("invalid id")
)

// Stage is the pipeline stage of a deal.
type Stage string

const (
	StageInitialOutreach Stage = "Initial Outreach"
	StageNegotiation     Stage = "Negotiation"
	StageTermsAgreed     Stage = "Terms Agreed Upon"
	StageClosedWon       Stage = "Closed Won"
)

func (s Stage) Valid() bool {
	switch s {
	case StageInitialOutreach, StageNegotiation, StageTermsAgreed, StageClosedWon:
		return true
	}
	return false
}

// Attachment is a file queued for upload once the deal exists.
type Attachment struct {
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	Data        []byte `json:"data"`
	Description string `json:"description"`
}

type ProductField string

const (
	ProductName         ProductField = "name"
	ProductCode         ProductField = "code"
	ProductUnitPrice    ProductField = "unitPrice"
	ProductQuantity     ProductField = "quantity"
	ProductTotalPrice   ProductField = "totalPrice"
	ProductDeliverables ProductField = "deliverables"
	ProductStartDate    ProductField = "startDate"
	ProductEndDate      ProductField = "endDate"
	ProductDivision     ProductField = "division"
)

// Draft is a deal being edited on the client. Its derived fields are kept
// current by Recalculate after every edit.
type Draft struct {
	Name               string              `json:"name"`
	Stage              Stage               `json:"stage"`
	Division           string              `json:"division"`
	Industry           string              `json:"industry"`
	Description        string              `json:"description"`
	BrandID            string              `json:"brandId"`
	OwnerID            string              `json:"ownerId"`
	AdditionalAgentIDs []string            `json:"additionalAgentIds"`
	CustomPayees       []string            `json:"customPayees"`
	Amount             string              `json:"amount"`
	ContractAmount     string              `json:"contractAmount"`
	SplitPercent       string              `json:"splitPercent"`
	ContractStartDate  string              `json:"contractStartDate"`
	ContractEndDate    string              `json:"contractEndDate"`
	CloseDate          string              `json:"closeDate"`
	CLMContractNumber  string              `json:"clmContractNumber"`
	Attachments        []Attachment        `json:"attachments"`
	Products           []dealcalc.Product  `json:"products"`
	Schedules          []dealcalc.Schedule `json:"schedules"`
	AgentSplits        agentsplit.Splits   `json:"agentSplits"`
	SplitOnSchedule    bool                `json:"splitOnSchedule"`

	// AgentNames maps agent ids to display names for outgoing payloads.
	AgentNames map[string]string `json:"agentNames,omitempty"`
}

// New returns an empty draft in the first stage.
func New() *Draft {
	return &Draft{
		Stage:       StageInitialOutreach,
		AgentSplits: agentsplit.Splits{},
		AgentNames:  map[string]string{},
	}
}

func newID() string {
	return uuid.NewString()
}

func (d *Draft) productIndex(id string) int {
	return slices.IndexFunc(d.Products, func(p dealcalc.Product) bool { return p.ID == id })
}

func (d *Draft) scheduleIndex(id string) int {
	return slices.IndexFunc(d.Schedules, func(s dealcalc.Schedule) bool { return s.ID == id })
}

// Product returns a copy of the product with the given id.
func (d *Draft) Product(id string) (dealcalc.Product, bool) {
	i := d.productIndex(id)
	if i < 0 {
		return dealcalc.Product{}, false
	}
	return d.Products[i], true
}

// Schedule returns a copy of the schedule with the given id.
func (d *Draft) Schedule(id string) (dealcalc.Schedule, bool) {
	i := d.scheduleIndex(id)
	if i < 0 {
		return dealcalc.Schedule{}, false
	}
	return d.Schedules[i], true
}

// AddProduct appends an empty product with quantity 1 and returns its id.
func (d *Draft) AddProduct() string {
	p := dealcalc.Product{ID: newID(), Quantity: "1", TotalPrice: "0.00"}
	d.Products = append(d.Products, p)
	d.Recalculate()
	return p.ID
}

// UpdateProduct sets one product field and recalculates. TotalPrice is
// derived and cannot be set.
func (d *Draft) UpdateProduct(id string, field ProductField, value string) error {
	i := d.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p := &d.Products[i]
	switch field {
	case ProductName:
		p.Name = value
	case ProductCode:
		p.Code = value
	case ProductUnitPrice:
		p.UnitPrice = value
	case ProductQuantity:
		p.Quantity = value
	case ProductDeliverables:
		p.Deliverables = value
	case ProductStartDate:
		p.StartDate = value
	case ProductEndDate:
		p.EndDate = value
	case ProductDivision:
		p.Division = value
	case ProductTotalPrice:
		return fmt.Errorf("totalPrice: %w", ErrReadOnly)
	default:
		return fmt.Errorf("%w: %q", dealcalc.ErrUnknownField, field)
	}
	d.Recalculate()
	return nil
}

// RemoveProduct deletes the product and every schedule attached to it.
func (d *Draft) RemoveProduct(id string) error {
	i := d.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	d.Products = slices.Delete(d.Products, i, i+1)
	d.Schedules = slices.DeleteFunc(d.Schedules, func(s dealcalc.Schedule) bool {
		return s.ProductID == id
	})
	d.Recalculate()
	return nil
}

// AddSchedule appends a schedule attached to productID, or to the deal when
// productID is empty, and returns its id.
func (d *Draft) AddSchedule(productID string) (string, error) {
	if productID != "" && d.productIndex(productID) < 0 {
		return "", fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	s := dealcalc.Schedule{
		ID:           newID(),
		ProductID:    productID,
		PaymentTerms: dealcalc.Net30,
		Type:         dealcalc.ScheduleTypeRevenue,
		Billable:     true,
	}
	if d.SplitOnSchedule {
		s.AgentSplits = agentsplit.Equal(d.Payees())
	}
	d.Schedules = append(d.Schedules, s)
	d.Recalculate()
	return s.ID, nil
}

// UpdateSchedule applies a schedule edit through dealcalc.UpdateSchedule and
// recalculates.
func (d *Draft) UpdateSchedule(id string, field dealcalc.ScheduleField, value string) error {
	i := d.scheduleIndex(id)
	if i < 0 {
		return fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	if field == dealcalc.FieldProductID && value != "" && d.productIndex(value) < 0 {
		return fmt.Errorf("product %s: %w", value, ErrNotFound)
	}
	s, err := dealcalc.UpdateSchedule(d.Schedules[i], field, value)
	if err != nil {
		return err
	}
	d.Schedules[i] = s
	d.Recalculate()
	return nil
}

func (d *Draft) RemoveSchedule(id string) error {
	i := d.scheduleIndex(id)
	if i < 0 {
		return fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	d.Schedules = slices.Delete(d.Schedules, i, i+1)
	d.Recalculate()
	return nil
}

// AmountEditable reports whether the deal amount is entered by hand.
func (d *Draft) AmountEditable() bool {
	return len(d.Products) == 0
}

// SplitPercentEditable reports whether the deal split percent is entered by
// hand, that is no schedule carries a positive split.
func (d *Draft) SplitPercentEditable() bool {
	_, derived := dealcalc.DealSplitPercent(d.Schedules)
	return !derived
}

// SetAmount sets a manual amount. It fails once products drive the amount.
func (d *Draft) SetAmount(v string) error {
	if !d.AmountEditable() {
		return fmt.Errorf("amount: %w", ErrReadOnly)
	}
	d.Amount = v
	return nil
}

// SetSplitPercent sets a manual split. It fails once schedules drive it.
func (d *Draft) SetSplitPercent(v string) error {
	if !d.SplitPercentEditable() {
		return fmt.Errorf("splitPercent: %w", ErrReadOnly)
	}
	d.SplitPercent = v
	return nil
}

// Recalculate cascades schedule revenue into product totals, product totals
// into the deal amount, and schedule splits into the deal split percent. A
// stored value is only replaced when it differs numerically.
func (d *Draft) Recalculate() {
	var sum float64
	for i := range d.Products {
		p := &d.Products[i]
		total := dealcalc.ProductTotal(*p, dealcalc.SchedulesForProduct(d.Schedules, p.ID))
		if p.TotalPrice == "" || !money.Equal(total, p.TotalPrice) {
			p.TotalPrice = total
		}
		sum += money.Parse(p.TotalPrice)
	}
	if len(d.Products) > 0 {
		amount := money.Fixed2(sum)
		if d.Amount == "" || !money.Equal(amount, d.Amount) {
			d.Amount = amount
		}
	}
	if pct, ok := dealcalc.DealSplitPercent(d.Schedules); ok {
		if d.SplitPercent == "" || !money.Equal(pct, d.SplitPercent) {
			d.SplitPercent = pct
		}
	}
}

// Payees returns the owner, additional agents and custom payee keys in that
// order without duplicates.
func (d *Draft) Payees() []string {
	out := make([]string, 0, 1+len(d.AdditionalAgentIDs)+len(d.CustomPayees))
	if d.OwnerID != "" {
		out = append(out, d.OwnerID)
	}
	for _, id := range d.AdditionalAgentIDs {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	for _, name := range d.CustomPayees {
		if k := agentsplit.CustomKey(name); !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func (d *Draft) isPayee(key string) bool {
	return slices.Contains(d.Payees(), key)
}

// payeesChanged re-equalizes the deal mapping and, in schedule mode, every
// schedule mapping. It runs only on membership changes.
func (d *Draft) payeesChanged() {
	payees := d.Payees()
	d.AgentSplits = agentsplit.Equal(payees)
	if !d.SplitOnSchedule {
		return
	}
	for i := range d.Schedules {
		d.Schedules[i].AgentSplits = agentsplit.Equal(payees)
	}
}

// SetOwner replaces the primary agent. The owner is never also listed as an
// additional agent.
func (d *Draft) SetOwner(id string) {
	id = strings.TrimSpace(id)
	if id == d.OwnerID {
		return
	}
	d.OwnerID = id
	d.AdditionalAgentIDs = slices.DeleteFunc(d.AdditionalAgentIDs, func(a string) bool { return a == id })
	d.payeesChanged()
}

// AddAgent adds an additional agent and resets the splits to equal shares.
// Adding the owner or an existing agent is a no-op.
func (d *Draft) AddAgent(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("agent: %w", ErrInvalidID)
	}
	if id == d.OwnerID || slices.Contains(d.AdditionalAgentIDs, id) {
		return nil
	}
	d.AdditionalAgentIDs = append(d.AdditionalAgentIDs, id)
	d.payeesChanged()
	return nil
}

// RemoveAgent drops an additional agent and resets the splits to equal shares.
func (d *Draft) RemoveAgent(id string) error {
	i := slices.Index(d.AdditionalAgentIDs, id)
	if i < 0 {
		return fmt.Errorf("agent %s: %w", id, ErrUnknownPayee)
	}
	d.AdditionalAgentIDs = slices.Delete(d.AdditionalAgentIDs, i, i+1)
	d.payeesChanged()
	return nil
}

// AddCustomPayee adds a payee that is not an agent and returns its key.
func (d *Draft) AddCustomPayee(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	key := agentsplit.CustomKey(name)
	if d.isPayee(key) {
		return key, nil
	}
	d.CustomPayees = append(d.CustomPayees, name)
	d.payeesChanged()
	return key, nil
}

func (d *Draft) RemoveCustomPayee(name string) error {
	name = strings.TrimSpace(name)
	i := slices.Index(d.CustomPayees, name)
	if i < 0 {
		return fmt.Errorf("custom payee %q: %w", name, ErrUnknownPayee)
	}
	d.CustomPayees = slices.Delete(d.CustomPayees, i, i+1)
	d.payeesChanged()
	return nil
}

// SetAgentSplit overrides one payee's deal-level percent.
func (d *Draft) SetAgentSplit(key, value string) error {
	if !d.isPayee(key) {
		return fmt.Errorf("%s: %w", key, ErrUnknownPayee)
	}
	d.AgentSplits = agentsplit.Set(d.AgentSplits, key, value)
	return nil
}

// SetSplitOnSchedule switches between deal-level and per-schedule splits.
// Enabling seeds every schedule with an equal split of the current payees;
// disabling drops the per-schedule mappings.
func (d *Draft) SetSplitOnSchedule(on bool) {
	if on == d.SplitOnSchedule {
		return
	}
	d.SplitOnSchedule = on
	payees := d.Payees()
	for i := range d.Schedules {
		if on {
			d.Schedules[i].AgentSplits = agentsplit.Equal(payees)
		} else {
			d.Schedules[i].AgentSplits = nil
		}
	}
}

func (d *Draft) scheduleForSplits(id string) (*dealcalc.Schedule, error) {
	if !d.SplitOnSchedule {
		return nil, ErrSplitModeOff
	}
	i := d.scheduleIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	return &d.Schedules[i], nil
}

// SetScheduleAgentSplit sets one payee's percent on a schedule.
func (d *Draft) SetScheduleAgentSplit(scheduleID, key, value string) error {
	s, err := d.scheduleForSplits(scheduleID)
	if err != nil {
		return err
	}
	if _, ok := s.AgentSplits[key]; !ok {
		return fmt.Errorf("%s: %w", key, ErrUnknownPayee)
	}
	s.AgentSplits = agentsplit.Set(s.AgentSplits, key, value)
	return nil
}

// AddSchedulePayee adds key to one schedule only and re-equalizes that
// schedule's mapping.
func (d *Draft) AddSchedulePayee(scheduleID, key string) error {
	s, err := d.scheduleForSplits(scheduleID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("payee: %w", ErrInvalidID)
	}
	s.AgentSplits = agentsplit.Add(s.AgentSplits, key)
	return nil
}

func (d *Draft) RemoveSchedulePayee(scheduleID, key string) error {
	s, err := d.scheduleForSplits(scheduleID)
	if err != nil {
		return err
	}
	if _, ok := s.AgentSplits[key]; !ok {
		return fmt.Errorf("%s: %w", key, ErrUnknownPayee)
	}
	s.AgentSplits = agentsplit.Remove(s.AgentSplits, key)
	return nil
}

func (d *Draft) AddAttachment(a Attachment) {
	d.Attachments = append(d.Attachments, a)
}

// Warning flags a split mapping whose total is not 100. An empty ScheduleID
// refers to the deal-level mapping.
type Warning struct {
	ScheduleID string            `json:"scheduleId,omitempty"`
	Total      string            `json:"total"`
	Status     agentsplit.Status `json:"status"`
}

func (w Warning) String() string {
	scope := "deal"
	if w.ScheduleID != "" {
		scope = "schedule " + w.ScheduleID
	}
	return fmt.Sprintf("%s agent splits total %s%% (%s)", scope, w.Total, w.Status)
}

// Warnings lists the split mappings that do not add up to 100. They never
// block submission.
func (d *Draft) Warnings() []Warning {
	var out []Warning
	check := func(scheduleID string, s agentsplit.Splits) {
		st := agentsplit.Check(s)
		if st == agentsplit.Under || st == agentsplit.Over {
			out = append(out, Warning{ScheduleID: scheduleID, Total: money.Fixed2(agentsplit.Total(s)), Status: st})
		}
	}
	check("", d.AgentSplits)
	if d.SplitOnSchedule {
		for _, s := range d.Schedules {
			check(s.ID, s.AgentSplits)
		}
	}
	return out
}

// Validate returns every reason the draft cannot be submitted, joined.
func (d *Draft) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if d.OwnerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if !d.Stage.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStage, d.Stage))
	}
	for _, id := range append([]string{d.OwnerID, d.BrandID}, d.AdditionalAgentIDs...) {
		if id == "" {
			continue
		}
		if _, err := parseID(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
