package schedule

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/s0up4200/forecastctl/forecast"
)

// TableFormatter renders reports with tablewriter
type TableFormatter struct {
	w io.Writer
}

// NewTableFormatter creates a formatter writing to w
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

// FormatReport writes one row per entry and a closing row with the total hours.
func (f *TableFormatter) FormatReport(r *Report) error {
	if len(r.Entries) == 0 {
		_, err := fmt.Fprintf(f.w, "No assignments between %s and %s\n", r.From, r.To)
		return err
	}

	table := tablewriter.NewWriter(f.w)
	table.Header("Assignee", "Project", "Client", "From", "To", "Per day", "Days", "Hours")

	var total float64
	for _, e := range r.Entries {
		assignee := e.Assignee
		if e.Placeholder {
			assignee += " (placeholder)"
		}
		if err := table.Append(
			assignee,
			e.Project,
			e.Client,
			e.From.String(),
			e.To.String(),
			formatHours(e.PerDay),
			strconv.Itoa(e.Days),
			formatHours(e.Hours),
		); err != nil {
			return err
		}
		total += e.Hours
	}

	if err := table.Append("Total", "", "", "", "", "", "", formatHours(total)); err != nil {
		return err
	}
	return table.Render()
}

// FormatTotals writes booked hours against capacity per assignee.
func (f *TableFormatter) FormatTotals(totals []Total) error {
	table := tablewriter.NewWriter(f.w)
	table.Header("Assignee", "Booked", "Capacity", "Utilization")

	for _, t := range totals {
		capacity, utilization := "-", "-"
		if t.Capacity > 0 {
			capacity = formatHours(t.Capacity)
			utilization = fmt.Sprintf("%.0f%%", t.Hours/t.Capacity*100)
		}
		if err := table.Append(t.Assignee, formatHours(t.Hours), capacity, utilization); err != nil {
			return err
		}
	}

	return table.Render()
}

// formatHours renders hours the way Forecast displays allocations.
func formatHours(h float64) string {
	return forecast.Hours(h).String()
}
