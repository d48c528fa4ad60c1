package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type tipSection struct {
	Title string
	Tips  []string
}

var tipSections = []tipSection{
	{
		Title: "Before an outage (prevention)",
		Tips: []string{
			"Keep an emergency kit: flashlights, spare batteries, a battery radio, charged power banks, drinking water and non-perishable food.",
			"Have a family plan: agree on meeting points and how to reach each other if phones stop working.",
			"Protect your electronics: use surge protectors on the outlets of the most sensitive devices.",
			"Preventive pruning: check trees near power lines on your property and ask the city or the utility to prune them if needed.",
			"Keep gutters and drains clear so flooding does not reach electrical installations.",
		},
	},
	{
		Title: "During the outage",
		Tips: []string{
			"Unplug appliances, especially sensitive electronics, to avoid damage from voltage spikes when power returns.",
			"Use flashlights instead of candles because of the fire risk.",
			"Keep the fridge and freezer closed so food stays cold longer.",
			"Report the outage in your area to the utility through its official channels (phone, app, website).",
			"Stay informed with a battery radio or your phone (while it has charge) for updates from civil defense and the utility.",
			"Be careful with generators: run them in a ventilated place away from windows and doors to avoid carbon monoxide poisoning.",
		},
	},
	{
		Title: "After power returns",
		Tips: []string{
			"Turn appliances back on gradually and wait a few minutes after power returns to avoid an overload.",
			"Check your food: discard perishables that stayed at room temperature for more than two hours.",
			"Inspect for damage to wiring or equipment before using it.",
		},
	},
}

func newTipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Show recommendations for dealing with power outages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeTips(cmd.OutOrStdout())
			return nil
		},
	}
}

func writeTips(w io.Writer) {
	fmt.Fprintln(w, "Recommendations and good practices for power outages")
	for _, section := range tipSections {
		fmt.Fprintf(w, "\n%s\n", section.Title)
		for _, tip := range section.Tips {
			fmt.Fprintf(w, "  • %s\n", tip)
		}
	}
}
