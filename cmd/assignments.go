package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/forecastctl/filter"
	"github.com/s0up4200/forecastctl/forecast"
)

var (
	assignmentProject     forecast.ProjectID
	assignmentPerson      forecast.PersonID
	assignmentPlaceholder forecast.PlaceholderID
	assignmentFrom        forecast.Date
	assignmentTo          forecast.Date
	assignmentState       string
	assignmentWhere       string
	assignmentPreset      string

	milestoneProjects []int64
	milestoneFrom     forecast.Date
	milestoneTo       forecast.Date
)

// assignmentsCmd lists assignments, narrowed server-side by the query flags
// and client-side by --where
var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List assignments",
	Long: `List assignments. Project, person, placeholder, date range and state are
sent to Forecast as query parameters; --where and --preset narrow the result
locally.

Examples:
  forecastctl assignments --person 42 --from 2024-03-01 --to 2024-03-31
  forecastctl assignments --project 7 --where 'allocation >= 4 and !repeating'`,
	Args: cobra.NoArgs,
	RunE: runAssignments,
}

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "List milestones",
	Args:  cobra.NoArgs,
	RunE:  runMilestones,
}

func init() {
	rootCmd.AddCommand(assignmentsCmd, milestonesCmd)

	assignmentsCmd.Flags().Var(&assignmentProject, "project", "only assignments on this project")
	assignmentsCmd.Flags().Var(&assignmentPerson, "person", "only assignments of this person")
	assignmentsCmd.Flags().Var(&assignmentPlaceholder, "placeholder", "only assignments of this placeholder")
	assignmentsCmd.Flags().Var(&assignmentFrom, "from", "start of the date range (YYYY-MM-DD)")
	assignmentsCmd.Flags().Var(&assignmentTo, "to", "end of the date range (YYYY-MM-DD)")
	assignmentsCmd.Flags().StringVar(&assignmentState, "state", "", "active or archived")
	assignmentsCmd.Flags().StringVarP(&assignmentWhere, "where", "w", "", "filter expression")
	assignmentsCmd.Flags().StringVarP(&assignmentPreset, "preset", "p", "", "use a preset filter from config")

	milestonesCmd.Flags().Int64SliceVar(&milestoneProjects, "project", nil, "only milestones of these projects (repeatable)")
	milestonesCmd.Flags().Var(&milestoneFrom, "from", "start of the date range (YYYY-MM-DD)")
	milestonesCmd.Flags().Var(&milestoneTo, "to", "end of the date range (YYYY-MM-DD)")
}

// assignmentFilter builds the query from the flags that were set
func assignmentFilter(cmd *cobra.Command) (forecast.AssignmentFilter, error) {
	var f forecast.AssignmentFilter
	flags := cmd.Flags()

	if flags.Changed("project") {
		f.ProjectID = &assignmentProject
	}
	if flags.Changed("person") {
		f.PersonID = &assignmentPerson
	}
	if flags.Changed("placeholder") {
		f.PlaceholderID = &assignmentPlaceholder
	}
	if flags.Changed("from") {
		f.StartDate = &assignmentFrom
	}
	if flags.Changed("to") {
		f.EndDate = &assignmentTo
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, fmt.Errorf("--to %s is before --from %s", f.EndDate, f.StartDate)
	}

	switch state := forecast.AssignmentState(assignmentState); state {
	case "", forecast.AssignmentStateActive, forecast.AssignmentStateArchived:
		f.State = state
	default:
		return f, fmt.Errorf("invalid state: %s (must be 'active' or 'archived')", assignmentState)
	}

	return f, nil
}

func runAssignments(cmd *cobra.Command, args []string) error {
	f, err := assignmentFilter(cmd)
	if err != nil {
		return err
	}

	logger.Debug().Str("query", forecast.EncodeFilter(f)).Msg("Fetching assignments")

	assignments, err := api.Assignments(cmd.Context(), f)
	if err != nil {
		return err
	}

	assignments, err = narrow(cmd.Context(), assignments, filter.AssignmentEnv, assignmentWhere, assignmentPreset)
	if err != nil {
		return err
	}

	return renderOut.Render(assignments, tableOf(assignments, assignmentHeader, assignmentRow))
}

func runMilestones(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var f forecast.MilestoneFilter
	for _, id := range milestoneProjects {
		f.ProjectIDs = append(f.ProjectIDs, forecast.ProjectIDOf(id))
	}
	if flags.Changed("from") {
		f.StartDate = &milestoneFrom
	}
	if flags.Changed("to") {
		f.EndDate = &milestoneTo
	}

	var (
		milestones []forecast.Milestone
		err        error
	)
	if forecast.EncodeFilter(f) == "" {
		milestones, err = api.Milestones(cmd.Context())
	} else {
		milestones, err = api.MilestonesFiltered(cmd.Context(), f)
	}
	if err != nil {
		return err
	}

	return renderOut.Render(milestones, tableOf(milestones, milestoneHeader, milestoneRow))
}
