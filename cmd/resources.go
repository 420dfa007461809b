package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/forecastctl/filter"
	"github.com/s0up4200/forecastctl/forecast"
)

// listCommand builds a command that fetches a collection, optionally narrows
// it with --where/--preset and renders it
func listCommand[T any](
	use, short string,
	fetch func(*forecast.API, context.Context) ([]T, error),
	env filter.EnvFunc[T],
	header []string,
	row func(T) []string,
) *cobra.Command {
	var where, preset string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fetch(api, cmd.Context())
			if err != nil {
				return err
			}
			if env != nil {
				if records, err = narrow(cmd.Context(), records, env, where, preset); err != nil {
					return err
				}
			}
			return renderOut.Render(records, tableOf(records, header, row))
		},
	}

	if env != nil {
		cmd.Flags().StringVarP(&where, "where", "w", "", "filter expression")
		cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	}

	return cmd
}

// getCommand builds a command that fetches one resource by id
func getCommand[K, T any](
	use, short string,
	fetch func(*forecast.API, context.Context, forecast.ID[K]) (T, error),
	header []string,
	row func(T) []string,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id forecast.ID[K]
			if err := id.Set(args[0]); err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			record, err := fetch(api, cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOut.Render(record, table{header: header, rows: [][]string{row(record)}})
		},
	}
}

// narrow applies the filter picked from --where, --preset or the configured default
func narrow[T any](ctx context.Context, records []T, env filter.EnvFunc[T], where, preset string) ([]T, error) {
	f, err := filters.Resolve(where, preset)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return records, nil
	}

	matches, err := filter.Apply(ctx, f, records, env)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("filter", f.Expression()).
		Int("total", len(records)).
		Int("matched", len(matches)).
		Msg("Applied filter")

	return matches, nil
}

func tableOf[T any](records []T, header []string, row func(T) []string) table {
	t := table{header: header, rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.rows = append(t.rows, row(r))
	}
	return t
}

var (
	projectHeader     = []string{"ID", "Name", "Code", "Client", "Start", "End", "Tags", "Archived"}
	clientHeader      = []string{"ID", "Name", "Harvest ID", "Archived"}
	personHeader      = []string{"ID", "Name", "Email", "Roles", "Capacity", "Admin", "Archived"}
	placeholderHeader = []string{"ID", "Name", "Roles", "Archived"}
	milestoneHeader   = []string{"ID", "Name", "Date", "Project"}
	assignmentHeader  = []string{"ID", "Project", "Assignee", "Start", "End", "Allocation", "Notes"}
)

func projectRow(p forecast.Project) []string {
	return []string{
		p.ID.String(), p.Name, deref(p.Code), optional(p.ClientID),
		optional(p.StartDate), optional(p.EndDate), strings.Join(p.Tags, ", "), yesNo(p.Archived),
	}
}

func clientRow(c forecast.Client) []string {
	return []string{c.ID.String(), c.Name, optional(c.HarvestID), yesNo(c.Archived)}
}

func personRow(p forecast.Person) []string {
	return []string{
		p.ID.String(), p.FullName(), deref(p.Email), strings.Join(p.Roles, ", "),
		optional(p.WeeklyCapacity), yesNo(p.Admin), yesNo(p.Archived),
	}
}

func placeholderRow(p forecast.Placeholder) []string {
	return []string{p.ID.String(), p.Name, strings.Join(p.Roles, ", "), yesNo(p.Archived)}
}

func milestoneRow(m forecast.Milestone) []string {
	return []string{m.ID.String(), m.Name, optional(m.Date), m.ProjectID.String()}
}

func assignmentRow(a forecast.Assignment) []string {
	assignee := "-"
	switch {
	case a.PersonID != nil:
		assignee = "person " + a.PersonID.String()
	case a.PlaceholderID != nil:
		assignee = "placeholder " + a.PlaceholderID.String()
	}
	return []string{
		a.ID.String(), a.ProjectID.String(), assignee,
		optional(a.StartDate), optional(a.EndDate), optional(a.Allocation), truncate(deref(a.Notes), 40),
	}
}

func optional[T fmt.Stringer](v *T) string {
	if v == nil {
		return "-"
	}
	return (*v).String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := api.WhoAmI(cmd.Context())
		if err != nil {
			return err
		}

		accounts := make([]string, len(user.AccountIDs))
		for i, id := range user.AccountIDs {
			accounts[i] = id.String()
		}
		return renderOut.Render(user, table{
			header: []string{"Person ID", "Accounts"},
			rows:   [][]string{{user.ID.String(), strings.Join(accounts, ", ")}},
		})
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the configured account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := api.Account(cmd.Context())
		if err != nil {
			return err
		}
		return renderOut.Render(account, table{
			header: []string{"ID", "Name", "Weekly capacity", "Harvest", "Color labels"},
			rows: [][]string{{
				account.ID.String(), account.Name, optional(account.WeeklyCapacity),
				deref(account.HarvestSubdomain), strconv.Itoa(len(account.ColorLabels)),
			}},
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd, accountCmd)

	rootCmd.AddCommand(
		listCommand("projects", "List projects", (*forecast.API).Projects, filter.ProjectEnv, projectHeader, projectRow),
		getCommand("project <id>", "Show a project", (*forecast.API).Project, projectHeader, projectRow),
		listCommand("clients", "List clients", (*forecast.API).Clients, filter.ClientEnv, clientHeader, clientRow),
		getCommand("client <id>", "Show a client", (*forecast.API).Client, clientHeader, clientRow),
		listCommand("people", "List people", (*forecast.API).People, filter.PersonEnv, personHeader, personRow),
		getCommand("person <id>", "Show a person", (*forecast.API).Person, personHeader, personRow),
		listCommand("placeholders", "List placeholders", (*forecast.API).Placeholders, filter.PlaceholderEnv, placeholderHeader, placeholderRow),
		getCommand("placeholder <id>", "Show a placeholder", (*forecast.API).Placeholder, placeholderHeader, placeholderRow),
	)
}
