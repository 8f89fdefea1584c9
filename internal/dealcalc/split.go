package dealcalc

import "github.com/prism-talent/deal-desk/internal/money"

// DealSplitPercent derives the deal-level split from the schedules that carry
// a positive split. Schedules with revenue weight the average; without any
// revenue the plain mean is used. ok is false when no schedule carries a
// split, in which case the deal keeps its manually entered value.
func DealSplitPercent(schedules []Schedule) (pct string, ok bool) {
	var splitSchedules []Schedule
	for _, s := range schedules {
		if money.Parse(s.SplitPercent) > 0 {
			splitSchedules = append(splitSchedules, s)
		}
	}
	if len(splitSchedules) == 0 {
		return "", false
	}

	var weighted, revenueTotal float64
	for _, s := range splitSchedules {
		revenue := money.Parse(s.Revenue)
		if revenue <= 0 {
			continue
		}
		weighted += money.Parse(s.SplitPercent) * revenue
		revenueTotal += revenue
	}
	if revenueTotal > 0 {
		return money.Fixed2(weighted / revenueTotal), true
	}

	var sum float64
	for _, s := range splitSchedules {
		sum += money.Parse(s.SplitPercent)
	}
	return money.Fixed2(sum / float64(len(splitSchedules))), true
}
