package dealcalc

import (
	"fmt"
	"strconv"

	"github.com/prism-talent/deal-desk/internal/money"
)

// ScheduleField names the field being edited in UpdateSchedule.
type ScheduleField string

const (
	FieldRevenue          ScheduleField = "revenue"
	FieldSplitPercent     ScheduleField = "splitPercent"
	FieldTalentAmount     ScheduleField = "talentAmount"
	FieldCommissionAmount ScheduleField = "commissionAmount"
	FieldDescription      ScheduleField = "description"
	FieldScheduleDate     ScheduleField = "scheduleDate"
	FieldPaymentTerms     ScheduleField = "paymentTerms"
	FieldType             ScheduleField = "type"
	FieldBillable         ScheduleField = "billable"
	FieldProductID        ScheduleField = "productId"
)

// UpdateSchedule applies one edit to s and re-derives the two dependent
// amounts. The edited field keeps the raw value; derived fields are written
// with two decimals. When revenue is not positive the split percent is left
// untouched on talent/commission edits.
func UpdateSchedule(s Schedule, field ScheduleField, value string) (Schedule, error) {
	switch field {
	case FieldRevenue, FieldSplitPercent:
		if field == FieldRevenue {
			s.Revenue = value
		} else {
			s.SplitPercent = value
		}
		revenue := money.Parse(s.Revenue)
		pct := money.Parse(s.SplitPercent)
		s.CommissionAmount = money.Fixed2(revenue * (pct / 100))
		s.TalentAmount = money.Fixed2(revenue * (1 - pct/100))

	case FieldTalentAmount:
		s.TalentAmount = value
		revenue := money.Parse(s.Revenue)
		commission := revenue - money.Parse(value)
		s.CommissionAmount = money.Fixed2(commission)
		if revenue > 0 {
			s.SplitPercent = money.Fixed2(commission / revenue * 100)
		}

	case FieldCommissionAmount:
		s.CommissionAmount = value
		revenue := money.Parse(s.Revenue)
		commission := money.Parse(value)
		s.TalentAmount = money.Fixed2(revenue - commission)
		if revenue > 0 {
			s.SplitPercent = money.Fixed2(commission / revenue * 100)
		}

	case FieldDescription:
		s.Description = value
	case FieldScheduleDate:
		s.ScheduleDate = value
	case FieldType:
		s.Type = value
	case FieldProductID:
		s.ProductID = value
	case FieldPaymentTerms:
		terms := PaymentTerms(value)
		if !terms.Valid() {
			return s, fmt.Errorf("%w: %q", ErrInvalidPaymentTerms, value)
		}
		s.PaymentTerms = terms
	case FieldBillable:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("billable: %w", err)
		}
		s.Billable = b
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return s, nil
}
