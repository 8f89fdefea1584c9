package dealcalc

import (
	"math"
	"testing"

	"github.com/prism-talent/deal-desk/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSchedule_RevenueDerivesAmounts(t *testing.T) {
	s := Schedule{SplitPercent: "20"}

	s, err := UpdateSchedule(s, FieldRevenue, "1000")
	require.NoError(t, err)
	assert.Equal(t, "1000", s.Revenue)
	assert.Equal(t, "200.00", s.CommissionAmount)
	assert.Equal(t, "800.00", s.TalentAmount)
}

func TestUpdateSchedule_SplitPercentDerivesAmounts(t *testing.T) {
	s := Schedule{Revenue: "250"}

	s, err := UpdateSchedule(s, FieldSplitPercent, "15")
	require.NoError(t, err)
	assert.Equal(t, "15", s.SplitPercent)
	assert.Equal(t, "37.50", s.CommissionAmount)
	assert.Equal(t, "212.50", s.TalentAmount)
}

func TestUpdateSchedule_HalfCentRoundsUp(t *testing.T) {
	s := Schedule{SplitPercent: "2.5"}

	s, err := UpdateSchedule(s, FieldRevenue, "5")
	require.NoError(t, err)
	assert.Equal(t, "0.13", s.CommissionAmount)
	assert.Equal(t, "4.88", s.TalentAmount)
}

func TestUpdateSchedule_TalentAmountBackSolvesSplit(t *testing.T) {
	s := Schedule{Revenue: "400", SplitPercent: "10"}

	s, err := UpdateSchedule(s, FieldTalentAmount, "300")
	require.NoError(t, err)
	assert.Equal(t, "300", s.TalentAmount)
	assert.Equal(t, "100.00", s.CommissionAmount)
	assert.Equal(t, "25.00", s.SplitPercent)
}

func TestUpdateSchedule_CommissionAmountBackSolvesSplit(t *testing.T) {
	s := Schedule{Revenue: "400", SplitPercent: "10"}

	s, err := UpdateSchedule(s, FieldCommissionAmount, "60")
	require.NoError(t, err)
	assert.Equal(t, "60", s.CommissionAmount)
	assert.Equal(t, "340.00", s.TalentAmount)
	assert.Equal(t, "15.00", s.SplitPercent)
}

func TestUpdateSchedule_ZeroRevenueKeepsSplit(t *testing.T) {
	s := Schedule{Revenue: "", SplitPercent: "12"}

	s, err := UpdateSchedule(s, FieldTalentAmount, "50")
	require.NoError(t, err)
	assert.Equal(t, "12", s.SplitPercent)
	assert.Equal(t, "-50.00", s.CommissionAmount)

	s, err = UpdateSchedule(s, FieldCommissionAmount, "5")
	require.NoError(t, err)
	assert.Equal(t, "12", s.SplitPercent)
	assert.Equal(t, "-5.00", s.TalentAmount)
}

func TestUpdateSchedule_InvalidNumbersAreZero(t *testing.T) {
	s, err := UpdateSchedule(Schedule{SplitPercent: "ten"}, FieldRevenue, "lots")
	require.NoError(t, err)
	assert.Equal(t, "0.00", s.CommissionAmount)
	assert.Equal(t, "0.00", s.TalentAmount)
}

func TestUpdateSchedule_ConsistencyAcrossGrid(t *testing.T) {
	for revenue := 0.0; revenue <= 5000; revenue += 137.37 {
		for pct := 0.0; pct <= 100; pct += 7.5 {
			s := Schedule{SplitPercent: money.Fixed2(pct)}
			s, err := UpdateSchedule(s, FieldRevenue, money.Fixed2(revenue))
			require.NoError(t, err)

			sum := money.Parse(s.CommissionAmount) + money.Parse(s.TalentAmount)
			assert.InDeltaf(t, money.Parse(s.Revenue), sum, 0.0100001,
				"revenue=%v pct=%v", revenue, pct)
		}
	}
}

func TestUpdateSchedule_TalentEditIsReversible(t *testing.T) {
	for _, revenue := range []string{"100", "1234.56", "9999.99", "15"} {
		s := Schedule{Revenue: revenue}
		s, err := UpdateSchedule(s, FieldTalentAmount, money.Fixed2(money.Parse(revenue)*0.83))
		require.NoError(t, err)
		original := money.Parse(s.CommissionAmount)

		recomputed, err := UpdateSchedule(s, FieldSplitPercent, s.SplitPercent)
		require.NoError(t, err)

		// Split percent carries two decimals, so the error is bounded by
		// revenue × 0.00005 plus one cent of formatting.
		tolerance := money.Parse(revenue)*0.00005 + 0.01
		assert.LessOrEqualf(t, math.Abs(original-money.Parse(recomputed.CommissionAmount)), tolerance,
			"revenue=%s", revenue)
	}
}

func TestUpdateSchedule_Idempotent(t *testing.T) {
	s := Schedule{Revenue: "333.33", SplitPercent: "17.5"}
	first, err := UpdateSchedule(s, FieldRevenue, "333.33")
	require.NoError(t, err)
	second, err := UpdateSchedule(first, FieldRevenue, "333.33")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdateSchedule_Passthrough(t *testing.T) {
	s := Schedule{Revenue: "10", SplitPercent: "10", CommissionAmount: "1.00", TalentAmount: "9.00"}

	s, err := UpdateSchedule(s, FieldDescription, "Instagram post")
	require.NoError(t, err)
	s, err = UpdateSchedule(s, FieldScheduleDate, "2026-11-01")
	require.NoError(t, err)
	s, err = UpdateSchedule(s, FieldPaymentTerms, string(Net45))
	require.NoError(t, err)
	s, err = UpdateSchedule(s, FieldBillable, "true")
	require.NoError(t, err)

	assert.Equal(t, "Instagram post", s.Description)
	assert.Equal(t, "2026-11-01", s.ScheduleDate)
	assert.Equal(t, Net45, s.PaymentTerms)
	assert.True(t, s.Billable)
	assert.Equal(t, "1.00", s.CommissionAmount)
}

func TestUpdateSchedule_Errors(t *testing.T) {
	_, err := UpdateSchedule(Schedule{}, ScheduleField("colour"), "red")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = UpdateSchedule(Schedule{}, FieldPaymentTerms, "NET_90")
	assert.ErrorIs(t, err, ErrInvalidPaymentTerms)

	_, err = UpdateSchedule(Schedule{}, FieldBillable, "maybe")
	assert.Error(t, err)
}
