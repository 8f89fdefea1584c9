package dealcalc

import "github.com/prism-talent/deal-desk/internal/money"

// ProductTotal returns the product's total price. When any schedule belongs to
// the product the total is the sum of their revenue, otherwise it is
// unitPrice × quantity.
func ProductTotal(p Product, schedulesForProduct []Schedule) string {
	if len(schedulesForProduct) > 0 {
		var sum float64
		for _, s := range schedulesForProduct {
			sum += money.Parse(s.Revenue)
		}
		return money.Fixed2(sum)
	}
	return money.Fixed2(money.Parse(p.UnitPrice) * money.Parse(p.Quantity))
}

// SchedulesForProduct filters all down to the schedules owned by productID.
func SchedulesForProduct(all []Schedule, productID string) []Schedule {
	var out []Schedule
	for _, s := range all {
		if productID != "" && s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out
}
