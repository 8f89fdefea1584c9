package formatter

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/draft"
	"github.com/prism-talent/deal-desk/internal/money"
	"github.com/prism-talent/deal-desk/internal/submit"
)

// table lays rows out in aligned columns. Cells must be unstyled.
func table(rows [][]string) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintln(tw, "  "+strings.Join(r, "\t"))
	}
	_ = tw.Flush()
	return b.String()
}

func derivedNote(derived bool) string {
	if derived {
		return "derived"
	}
	return "manual"
}

// Draft renders the recalculated draft: figures, products, schedules, the
// deal-level split table and warnings.
func (f Formatter) Draft(d *draft.Draft) string {
	var b strings.Builder

	b.WriteString(f.Header("Deal") + "\n")
	fmt.Fprintf(&b, "  %s  %s\n", f.Bold(d.Name), f.Dim("("+string(d.Stage)+")"))
	b.WriteString(table([][]string{
		{"amount", d.Amount, derivedNote(!d.AmountEditable())},
		{"split %", d.SplitPercent, derivedNote(!d.SplitPercentEditable())},
	}))

	if len(d.Products) > 0 {
		b.WriteString("\n" + f.Header("Products") + "\n")
		rows := make([][]string, 0, len(d.Products))
		for _, p := range d.Products {
			rows = append(rows, []string{p.ID, p.Name, p.UnitPrice + " x " + p.Quantity, p.TotalPrice})
		}
		b.WriteString(table(rows))
	}

	if len(d.Schedules) > 0 {
		b.WriteString("\n" + f.Header("Schedules") + "\n")
		rows := [][]string{{"id", "product", "revenue", "split %", "commission", "talent", "terms"}}
		for _, s := range d.Schedules {
			product := s.ProductID
			if product == "" {
				product = "-"
			}
			rows = append(rows, []string{s.ID, product, s.Revenue, s.SplitPercent, s.CommissionAmount, s.TalentAmount, string(s.PaymentTerms)})
		}
		b.WriteString(table(rows))
	}

	pool := money.Parse(d.Amount) * money.Parse(d.SplitPercent) / 100
	b.WriteString("\n" + f.Header("Agent splits") + "\n")
	b.WriteString(f.Splits(d.AgentSplits, pool, d.PayeeName))

	if ws := d.Warnings(); len(ws) > 0 {
		b.WriteString("\n" + f.Header("Warnings") + "\n")
		for _, w := range ws {
			b.WriteString("  " + f.Warn(w.String()) + "\n")
		}
	}
	return b.String()
}

// Splits renders one row per payee with its percent and its amount of pool,
// followed by the total and the status. name may be nil.
func (f Formatter) Splits(s agentsplit.Splits, pool float64, name func(string) string) string {
	if name == nil {
		name = func(k string) string { return k }
	}
	amounts := agentsplit.Amounts(s, pool)
	rows := make([][]string, 0, len(s)+1)
	for _, k := range s.Keys() {
		rows = append(rows, []string{name(k), s[k] + "%", money.Fixed2(amounts[k])})
	}
	rows = append(rows, []string{"total", money.Fixed2(agentsplit.Total(s)) + "%", money.Fixed2(pool)})
	return table(rows) + "  " + f.Status(agentsplit.Check(s)) + "\n"
}

// Submission renders the created deal and the outcome of every follow-up.
func (f Formatter) Submission(res *submit.Result) string {
	var b strings.Builder
	b.WriteString(f.OK(fmt.Sprintf("Deal %d created: %s", res.Deal.ID, res.Deal.Name)) + "\n")

	items := func(title string, list []submit.ItemResult) {
		if len(list) == 0 {
			return
		}
		b.WriteString("\n" + f.Header(title) + "\n")
		for _, it := range list {
			if it.OK() {
				fmt.Fprintf(&b, "  %s %s\n", f.OK("ok"), it.Ref)
			} else {
				fmt.Fprintf(&b, "  %s %s: %s\n", f.Error("failed"), it.Ref, it.Error)
			}
		}
	}
	items("Attachments", res.Attachments)
	items("Schedule splits", res.Splits)

	if len(res.Unmatched) > 0 {
		b.WriteString("\n" + f.Warn("unmatched schedules: "+strings.Join(res.Unmatched, ", ")) + "\n")
	}
	return b.String()
}
