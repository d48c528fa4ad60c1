package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/outage-log/internal/config"
	"github.com/pfrederiksen/outage-log/internal/filter"
	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		filterQuery string
		sortFlag    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the summary of recorded outages",
		Long: `Show every recorded outage, most recently recorded first.

Filter terms (space separated, use _ for spaces inside a value):
  city:NAME  neighborhood:NAME  ongoing  since:YYYY-MM-DD  until:YYYY-MM-DD  text:WORD`,
		Example: `  outage-log list
  outage-log list --filter "city:Springfield ongoing"
  outage-log list --sort city --format json
  outage-log list --format ics > outages.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(flagFormat)
			if !config.ValidFormat(format) {
				return fmt.Errorf("invalid format: %s (must be one of %s)", flagFormat, strings.Join(config.Formats, ", "))
			}

			order, ok := parseSortOrder(sortFlag)
			if !ok {
				return fmt.Errorf("invalid sort: %s (must be 'recorded', 'started' or 'city')", sortFlag)
			}

			criteria, err := filter.Parse(filterQuery)
			if err != nil {
				return fmt.Errorf("parsing filter: %w", err)
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			events := criteria.Apply(store.List(cmdContext(cmd)))
			sortEvents(events, order)

			logger.Debug("listing events", logger.Fields{
				"count":  len(events),
				"filter": criteria.String(),
				"sort":   string(order),
			})

			result := &OutputResult{
				ListedAt:   time.Now().UTC(),
				Sort:       order,
				EventCount: len(events),
				Events:     events,
			}
			if !criteria.IsEmpty() {
				result.Filter = criteria.String()
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, OutputFormat(format), flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filterQuery, "filter", "", "Filter terms, e.g. \"city:Springfield ongoing\"")
	cmd.Flags().StringVar(&sortFlag, "sort", string(SortByRecorded), "Sort order: recorded, started or city")

	return cmd
}
