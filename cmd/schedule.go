package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/forecastctl/forecast"
	"github.com/s0up4200/forecastctl/schedule"
)

var (
	scheduleFrom    forecast.Date
	scheduleTo      forecast.Date
	scheduleProject forecast.ProjectID
	schedulePerson  forecast.PersonID
	scheduleTotals  bool
)

// scheduleCmd joins assignments with people and projects for a date window
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show who is booked on what for a date range",
	Long: `Show the schedule for a date range. Assignments are clipped to the range,
joined with their person or placeholder, project and client, and booked hours
are counted on each person's working days.

Without --from and --to the current week (Monday to Sunday) is shown.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().Var(&scheduleFrom, "from", "first day (YYYY-MM-DD)")
	scheduleCmd.Flags().Var(&scheduleTo, "to", "last day (YYYY-MM-DD)")
	scheduleCmd.Flags().Var(&scheduleProject, "project", "only this project")
	scheduleCmd.Flags().Var(&schedulePerson, "person", "only this person")
	scheduleCmd.Flags().BoolVar(&scheduleTotals, "totals", false, "show booked hours per person instead of each assignment")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	monday, sunday := currentWeek(time.Now())
	opts := schedule.Options{From: monday, To: sunday}
	if flags.Changed("from") {
		opts.From = scheduleFrom
		if !flags.Changed("to") {
			opts.To = scheduleFrom.AddDays(6)
		}
	}
	if flags.Changed("to") {
		opts.To = scheduleTo
	}
	if flags.Changed("project") {
		opts.ProjectID = &scheduleProject
	}
	if flags.Changed("person") {
		opts.PersonID = &schedulePerson
	}

	report, err := schedule.NewBuilder(api, logger).Build(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if renderOut.format != formatTable || renderOut.jq != nil {
		if scheduleTotals {
			return renderOut.Render(report.Totals(), table{})
		}
		return renderOut.Render(report, table{})
	}

	formatter := schedule.NewTableFormatter(renderOut.w)
	if scheduleTotals {
		return formatter.FormatTotals(report.Totals())
	}
	return formatter.FormatReport(report)
}

// currentWeek returns the Monday and Sunday around now
func currentWeek(now time.Time) (forecast.Date, forecast.Date) {
	offset := (int(now.Weekday()) + 6) % 7
	monday := forecast.DateOf(now).AddDays(-offset)
	return monday, monday.AddDays(6)
}
