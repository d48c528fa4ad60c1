package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/outage-log/internal/wizard"
	"github.com/spf13/cobra"
)

// eventFlags are the per-field flags shared by record and update
type eventFlags struct {
	city              string
	neighborhood      string
	postalCode        string
	startedAt         string
	endedAt           string
	estimatedDuration string
	ongoing           bool
	damages           string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.city, "city", "", "Affected city")
	cmd.Flags().StringVar(&f.neighborhood, "neighborhood", "", "Affected neighborhood")
	cmd.Flags().StringVar(&f.postalCode, "postal-code", "", "Postal code, e.g. 12345-678")
	cmd.Flags().StringVar(&f.startedAt, "started-at", "", "When the outage started, e.g. \"01/06/2025 14:30\"")
	cmd.Flags().StringVar(&f.endedAt, "ended-at", "", "When power returned")
	cmd.Flags().StringVar(&f.estimatedDuration, "estimated-duration", "", "Estimated duration, e.g. \"2 hours\"")
	cmd.Flags().BoolVar(&f.ongoing, "ongoing", false, "Still without power")
	cmd.Flags().StringVar(&f.damages, "damages", "", "Damages caused, or \"None\"")
}

func newRecordCmd() *cobra.Command {
	var fields eventFlags

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a new power outage",
		Long: `Record a new power outage in three steps: affected location, outage time
and damages caused. Without --city the steps are asked interactively;
with --city the event is built from the flags alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			w := wizard.New(store)
			ctx := cmdContext(cmd)

			if !cmd.Flags().Changed("city") {
				_, err := w.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
				if errors.Is(err, wizard.ErrSaveFailed) {
					return errNotApplied
				}
				return err
			}

			evt, err := w.Complete(ctx,
				wizard.LocationForm{
					Neighborhood: fields.neighborhood,
					City:         fields.city,
					PostalCode:   fields.postalCode,
				},
				wizard.WindowForm{
					StartedAt:         fields.startedAt,
					EndedAt:           fields.endedAt,
					EstimatedDuration: fields.estimatedDuration,
					Ongoing:           fields.ongoing,
				},
				wizard.DamagesForm{Description: fields.damages},
			)
			if errors.Is(err, wizard.ErrSaveFailed) {
				return fmt.Errorf("could not save the event: %w", errNotApplied)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded outage %s in %s\n", evt.ID, evt.Location.City)
			return nil
		},
	}

	fields.register(cmd)
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
