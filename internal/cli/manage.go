package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/pfrederiksen/outage-log/internal/outage"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var (
		id     string
		fields eventFlags
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of a recorded outage",
		Long: `Change fields of a recorded outage. Only the flags given are changed;
the id and recording time are kept.`,
		Example: `  outage-log update --id 3f1c... --ended-at "01/06/2025 18:00" --ongoing=false`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id = strings.TrimSpace(id)
			if id == "" {
				return fmt.Errorf("--id is required")
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			var current *outage.Event
			events := store.List(ctx)
			for i := range events {
				if events[i].ID == id {
					current = &events[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no outage event with id %s", id)
			}

			updated := applyChanges(cmd, *current, fields)
			if err := updated.Validate(); err != nil {
				return err
			}

			if !store.UpdateByID(ctx, updated) {
				return fmt.Errorf("updating %s: %w", id, errNotApplied)
			}

			logger.Info("event updated", logger.Fields{"id": id})
			fmt.Fprintf(cmd.OutOrStdout(), "Updated outage %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Id of the event to change (required)")
	fields.register(cmd)
	cmd.MarkFlagRequired("id")

	return cmd
}

// applyChanges copies the flags the user actually set onto evt
func applyChanges(cmd *cobra.Command, evt outage.Event, f eventFlags) outage.Event {
	changed := cmd.Flags().Changed

	if changed("city") {
		evt.Location.City = strings.TrimSpace(f.city)
	}
	if changed("neighborhood") {
		evt.Location.Neighborhood = strings.TrimSpace(f.neighborhood)
	}
	if changed("postal-code") {
		evt.Location.PostalCode = outage.FormatPostalCode(strings.TrimSpace(f.postalCode))
	}
	if changed("started-at") {
		evt.Window.StartedAt = strings.TrimSpace(f.startedAt)
	}
	if changed("ended-at") {
		evt.Window.EndedAt = strings.TrimSpace(f.endedAt)
	}
	if changed("estimated-duration") {
		evt.Window.EstimatedDuration = strings.TrimSpace(f.estimatedDuration)
	}
	if changed("ongoing") {
		evt.Window.Ongoing = f.ongoing
		if f.ongoing {
			evt.Window.EndedAt = ""
		}
	}
	if changed("damages") {
		evt.Damages.Description = strings.TrimSpace(f.damages)
	}

	return evt
}

func newDeleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a recorded outage",
		Long:  "Delete every recorded outage with the given id. Deleting an id that does not exist is not an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id = strings.TrimSpace(id)
			if id == "" {
				return fmt.Errorf("--id is required")
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			if !store.DeleteByID(cmdContext(cmd), id) {
				return fmt.Errorf("deleting %s: %w", id, errNotApplied)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted outage %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Id of the event to delete (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded outages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all events without --yes")
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			if !store.Clear(cmdContext(cmd)) {
				return fmt.Errorf("clearing events: %w", errNotApplied)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "All outage events deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every recorded event")

	return cmd
}
