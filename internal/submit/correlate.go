package submit

import (
	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
)

// Match pairs a draft schedule with the schedule the API created for it.
type Match struct {
	DraftID    string
	ScheduleID uint
}

// Correlate pairs draft schedules with created ones by the echoed client
// reference. Created schedules without a reference are matched on schedule
// date and description, and only when that pair is unique on both sides.
// Draft ids left without a partner are returned as unmatched.
func Correlate(drafts []dealcalc.Schedule, created []dealapi.ScheduleResponse) ([]Match, []string) {
	byRef := make(map[string]uint, len(created))
	for _, s := range created {
		if s.ClientRef != "" {
			byRef[s.ClientRef] = s.ID
		}
	}

	type key struct{ date, desc string }
	drafted := make(map[key]int, len(drafts))
	for _, d := range drafts {
		drafted[key{d.ScheduleDate, d.Description}]++
	}

	var matched []Match
	var unmatched []string
	for _, d := range drafts {
		if id, ok := byRef[d.ID]; ok {
			matched = append(matched, Match{DraftID: d.ID, ScheduleID: id})
			continue
		}
		var candidates []uint
		for _, s := range created {
			if s.ClientRef == "" && s.ScheduleDate == d.ScheduleDate && s.Description == d.Description {
				candidates = append(candidates, s.ID)
			}
		}
		if len(candidates) == 1 && drafted[key{d.ScheduleDate, d.Description}] == 1 {
			matched = append(matched, Match{DraftID: d.ID, ScheduleID: candidates[0]})
			continue
		}
		unmatched = append(unmatched, d.ID)
	}
	return matched, unmatched
}
