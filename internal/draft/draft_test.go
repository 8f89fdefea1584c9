package draft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
)

func mustSchedule(t *testing.T, d *Draft, productID string, edits ...[2]string) string {
	t.Helper()
	id, err := d.AddSchedule(productID)
	require.NoError(t, err)
	for _, e := range edits {
		require.NoError(t, d.UpdateSchedule(id, dealcalc.ScheduleField(e[0]), e[1]))
	}
	return id
}

func TestNew_Defaults(t *testing.T) {
	d := New()
	assert.Equal(t, StageInitialOutreach, d.Stage)
	assert.Empty(t, d.AgentSplits)
	assert.True(t, d.AmountEditable())
	assert.True(t, d.SplitPercentEditable())
}

func TestProduct_UnitPriceTimesQuantity(t *testing.T) {
	d := New()
	pid := d.AddProduct()
	require.NoError(t, d.UpdateProduct(pid, ProductUnitPrice, "10"))
	require.NoError(t, d.UpdateProduct(pid, ProductQuantity, "3"))

	p, ok := d.Product(pid)
	require.True(t, ok)
	assert.Equal(t, "30.00", p.TotalPrice)
	assert.Equal(t, "30.00", d.Amount)
	assert.False(t, d.AmountEditable())
	assert.ErrorIs(t, d.SetAmount("5"), ErrReadOnly)
	assert.ErrorIs(t, d.UpdateProduct(pid, ProductTotalPrice, "1"), ErrReadOnly)
}

func TestProduct_RollsUpScheduleRevenue(t *testing.T) {
	d := New()
	pid := d.AddProduct()
	require.NoError(t, d.UpdateProduct(pid, ProductUnitPrice, "999"))
	mustSchedule(t, d, pid, [2]string{"revenue", "100"})
	mustSchedule(t, d, pid, [2]string{"revenue", "250"})

	p, _ := d.Product(pid)
	assert.Equal(t, "350.00", p.TotalPrice)
	assert.Equal(t, "350.00", d.Amount)
}

func TestRemoveProduct_CascadesSchedules(t *testing.T) {
	d := New()
	a := d.AddProduct()
	b := d.AddProduct()
	mustSchedule(t, d, a, [2]string{"revenue", "100"})
	keep := mustSchedule(t, d, b, [2]string{"revenue", "40"})
	dealLevel := mustSchedule(t, d, "", [2]string{"revenue", "7"})

	require.NoError(t, d.RemoveProduct(a))
	require.Len(t, d.Schedules, 2)
	assert.Equal(t, keep, d.Schedules[0].ID)
	assert.Equal(t, dealLevel, d.Schedules[1].ID)
	assert.Equal(t, "40.00", d.Amount)

	assert.ErrorIs(t, d.RemoveProduct(a), ErrNotFound)
}

func TestAddSchedule_UnknownProduct(t *testing.T) {
	d := New()
	_, err := d.AddSchedule("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sid := mustSchedule(t, d, "")
	assert.ErrorIs(t, d.UpdateSchedule(sid, dealcalc.FieldProductID, "missing"), ErrNotFound)
}

func TestDealSplit_DerivedFromSchedules(t *testing.T) {
	d := New()
	require.NoError(t, d.SetSplitPercent("12"))

	mustSchedule(t, d, "", [2]string{"revenue", "100"}, [2]string{"splitPercent", "10"})
	sid := mustSchedule(t, d, "", [2]string{"revenue", "300"}, [2]string{"splitPercent", "20"})

	assert.Equal(t, "17.50", d.SplitPercent)
	assert.False(t, d.SplitPercentEditable())
	assert.ErrorIs(t, d.SetSplitPercent("5"), ErrReadOnly)
	// no products, the amount stays manual
	assert.True(t, d.AmountEditable())

	require.NoError(t, d.RemoveSchedule(sid))
	assert.Equal(t, "10.00", d.SplitPercent)
}

func TestRecalculate_Idempotent(t *testing.T) {
	d := New()
	pid := d.AddProduct()
	mustSchedule(t, d, pid, [2]string{"revenue", "100.005"}, [2]string{"splitPercent", "15"})
	mustSchedule(t, d, pid, [2]string{"revenue", "33.3"}, [2]string{"splitPercent", "7.5"})

	before := *d
	before.Products = append([]dealcalc.Product(nil), d.Products...)
	d.Recalculate()
	d.Recalculate()
	assert.Equal(t, before.Products, d.Products)
	assert.Equal(t, before.Amount, d.Amount)
	assert.Equal(t, before.SplitPercent, d.SplitPercent)
}

func TestPayees_EqualizeOnMembershipChange(t *testing.T) {
	d := New()
	d.SetOwner("1")
	assert.Equal(t, agentsplit.Splits{"1": "100.00"}, d.AgentSplits)

	require.NoError(t, d.AddAgent("2"))
	require.NoError(t, d.AddAgent("3"))
	assert.Equal(t, agentsplit.Splits{"1": "33.33", "2": "33.33", "3": "33.33"}, d.AgentSplits)

	require.NoError(t, d.SetAgentSplit("1", "50"))
	// adding an existing member is not a membership change
	require.NoError(t, d.AddAgent("2"))
	assert.Equal(t, "50", d.AgentSplits["1"])

	require.NoError(t, d.RemoveAgent("3"))
	assert.Equal(t, agentsplit.Splits{"1": "50.00", "2": "50.00"}, d.AgentSplits)

	assert.ErrorIs(t, d.RemoveAgent("3"), ErrUnknownPayee)
	assert.ErrorIs(t, d.SetAgentSplit("9", "10"), ErrUnknownPayee)
}

func TestSetOwner_DropsOwnerFromAgents(t *testing.T) {
	d := New()
	d.SetOwner("1")
	require.NoError(t, d.AddAgent("2"))
	d.SetOwner("2")

	assert.Empty(t, d.AdditionalAgentIDs)
	assert.Equal(t, []string{"2"}, d.Payees())
	assert.Equal(t, agentsplit.Splits{"2": "100.00"}, d.AgentSplits)
}

func TestCustomPayee(t *testing.T) {
	d := New()
	d.SetOwner("1")
	key, err := d.AddCustomPayee("  Jane Roe ")
	require.NoError(t, err)
	assert.Equal(t, "custom_Jane Roe", key)
	assert.Equal(t, agentsplit.Splits{"1": "50.00", key: "50.00"}, d.AgentSplits)
	assert.Equal(t, "Jane Roe", d.PayeeName(key))

	_, err = d.AddCustomPayee(" ")
	assert.ErrorIs(t, err, ErrEmptyName)

	require.NoError(t, d.RemoveCustomPayee("Jane Roe"))
	assert.Equal(t, agentsplit.Splits{"1": "100.00"}, d.AgentSplits)
}

func TestSplitOnSchedule_SeedAndClear(t *testing.T) {
	d := New()
	d.SetOwner("1")
	require.NoError(t, d.AddAgent("2"))
	require.NoError(t, d.SetAgentSplit("1", "70"))
	require.NoError(t, d.SetAgentSplit("2", "30"))
	s1 := mustSchedule(t, d, "")
	assert.Nil(t, d.Schedules[0].AgentSplits)
	assert.ErrorIs(t, d.SetScheduleAgentSplit(s1, "1", "10"), ErrSplitModeOff)

	d.SetSplitOnSchedule(true)
	equal := agentsplit.Splits{"1": "50.00", "2": "50.00"}
	s, _ := d.Schedule(s1)
	assert.Equal(t, equal, s.AgentSplits)

	s2 := mustSchedule(t, d, "")
	s, _ = d.Schedule(s2)
	assert.Equal(t, equal, s.AgentSplits)

	require.NoError(t, d.SetScheduleAgentSplit(s1, "1", "80"))
	require.NoError(t, d.AddSchedulePayee(s2, agentsplit.CustomKey("Scout")))
	s, _ = d.Schedule(s2)
	assert.Len(t, s.AgentSplits, 3)
	s, _ = d.Schedule(s1)
	assert.Equal(t, "80", s.AgentSplits["1"])
	// the deal-level mapping is untouched by schedule edits
	assert.Equal(t, "70", d.AgentSplits["1"])

	require.NoError(t, d.RemoveSchedulePayee(s2, "2"))
	s, _ = d.Schedule(s2)
	assert.Equal(t, agentsplit.Splits{"1": "50.00", "custom_Scout": "50.00"}, s.AgentSplits)

	d.SetSplitOnSchedule(false)
	for _, s := range d.Schedules {
		assert.Nil(t, s.AgentSplits)
	}
	d.SetSplitOnSchedule(true)
	s, _ = d.Schedule(s1)
	assert.Equal(t, equal, s.AgentSplits)
}

func TestWarnings(t *testing.T) {
	d := New()
	d.SetOwner("1")
	require.NoError(t, d.AddAgent("2"))
	assert.Empty(t, d.Warnings())

	require.NoError(t, d.SetAgentSplit("1", "60"))
	ws := d.Warnings()
	require.Len(t, ws, 1)
	assert.Equal(t, "", ws[0].ScheduleID)
	assert.Equal(t, "110.00", ws[0].Total)
	assert.Equal(t, agentsplit.Over, ws[0].Status)

	d.SetSplitOnSchedule(true)
	sid := mustSchedule(t, d, "")
	require.NoError(t, d.SetScheduleAgentSplit(sid, "2", "10"))
	ws = d.Warnings()
	require.Len(t, ws, 2)
	assert.Equal(t, sid, ws[1].ScheduleID)
	assert.Equal(t, agentsplit.Under, ws[1].Status)
	assert.Contains(t, ws[1].String(), "60.00%")
}

func TestValidate(t *testing.T) {
	d := New()
	err := d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameRequired))
	assert.True(t, errors.Is(err, ErrOwnerRequired))

	d.Name = "Spring campaign"
	d.SetOwner("abc")
	assert.ErrorIs(t, d.Validate(), ErrInvalidID)

	d.SetOwner("4")
	d.Stage = "Lost"
	assert.ErrorIs(t, d.Validate(), ErrInvalidStage)

	d.Stage = StageNegotiation
	// unbalanced splits do not block
	require.NoError(t, d.SetAgentSplit("4", "20"))
	assert.NoError(t, d.Validate())
}

func TestCreateRequest_Nesting(t *testing.T) {
	d := New()
	d.Name = "Spring campaign"
	d.BrandID = "12"
	d.SetOwner("1")
	require.NoError(t, d.AddAgent("2"))
	d.AgentNames = map[string]string{"1": "Ana", "2": "Ben"}

	pid := d.AddProduct()
	require.NoError(t, d.UpdateProduct(pid, ProductName, "Instagram post"))
	ps := mustSchedule(t, d, pid,
		[2]string{"revenue", "1000"}, [2]string{"splitPercent", "20"},
		[2]string{"scheduleDate", "2026-03-01"}, [2]string{"description", "Deposit"})
	ds := mustSchedule(t, d, "", [2]string{"revenue", "50"})

	req := d.CreateRequest()
	assert.Equal(t, "Spring campaign", req.Name)
	require.NotNil(t, req.BrandID)
	assert.Equal(t, uint(12), *req.BrandID)
	assert.Equal(t, uint(1), req.OwnerID)
	assert.Equal(t, []uint{2}, req.AgentIDs)
	assert.Equal(t, 1000.0, req.Amount)
	assert.Equal(t, 20.0, req.SplitPercent)

	require.Len(t, req.Products, 1)
	require.Len(t, req.Products[0].Schedules, 1)
	got := req.Products[0].Schedules[0]
	assert.Equal(t, ps, got.ClientRef)
	assert.Equal(t, 200.0, got.CommissionAmount)
	assert.Equal(t, 800.0, got.TalentAmount)
	assert.Equal(t, "NET_30", got.PaymentTerms)

	require.Len(t, req.Schedules, 1)
	assert.Equal(t, ds, req.Schedules[0].ClientRef)

	require.Len(t, req.AgentSplits, 2)
	assert.Equal(t, "Ana", req.AgentSplits[0].AgentName)
	require.NotNil(t, req.AgentSplits[0].SplitAmount)
	// deal commission pool is 1000 * 20%
	assert.Equal(t, 100.0, *req.AgentSplits[0].SplitAmount)
}

func TestSplitBatch(t *testing.T) {
	d := New()
	d.SetOwner("1")
	_, err := d.AddCustomPayee("Scout")
	require.NoError(t, err)
	d.AgentNames = map[string]string{"1": "Ana"}
	d.SetSplitOnSchedule(true)
	sid := mustSchedule(t, d, "", [2]string{"revenue", "1000"}, [2]string{"splitPercent", "20"})

	batch, err := d.SplitBatch(sid)
	require.NoError(t, err)
	require.Len(t, batch.Splits, 2)

	owner := batch.Splits[0]
	assert.Equal(t, "Ana", owner.AgentName)
	require.NotNil(t, owner.AgentID)
	assert.Equal(t, uint(1), *owner.AgentID)
	assert.Equal(t, 50.0, owner.SplitPercent)
	assert.Equal(t, 100.0, *owner.SplitAmount)

	custom := batch.Splits[1]
	assert.Equal(t, "Scout", custom.AgentName)
	assert.Nil(t, custom.AgentID)

	_, err = d.SplitBatch("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
