package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vinscope/vinscope/pkg/pipeline"
)

var flagJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <identifier>",
	Short: "Enrich a VIN or license plate into an intelligence report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&flagJSON, "json", false, "print the raw result as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return &pipeline.UsageError{}
	}

	_, log, pipe, err := setup()
	if err != nil {
		return err
	}

	log.Info().Str("identifier", args[0]).Msg("starting lookup")
	agg, err := pipe.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		data, err := json.MarshalIndent(agg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	printAggregate(cmd, agg)
	return nil
}

func printAggregate(cmd *cobra.Command, agg *pipeline.Aggregate) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Input: %s (%s)\n", agg.Input.Value, agg.Input.Kind)
	if facts := agg.Facts; facts != nil && !facts.IsZero() {
		fmt.Fprintln(out, "\nVehicle:")
		for _, field := range []struct{ name, value string }{
			{"Make", facts.Make},
			{"Model", facts.Model},
			{"Year", facts.ModelYear},
			{"Body", facts.BodyClass},
			{"Type", facts.VehicleType},
			{"Plant country", facts.PlantCountry},
		} {
			if field.value != "" {
				fmt.Fprintf(out, "  %-14s %s\n", field.name, field.value)
			}
		}
	}

	fmt.Fprintln(out, "\nMarkers:")
	for _, name := range agg.Markers.Names() {
		entry, _ := agg.Markers.Get(name)
		status := "OK  "
		if !entry.OK {
			status = "WARN"
		}
		fmt.Fprintf(out, "  [%s] %-13s %s\n", status, name, entry.Note)
	}

	if len(agg.WebHits) > 0 {
		fmt.Fprintln(out, "\nWeb evidence:")
		for i, hit := range agg.WebHits {
			fmt.Fprintf(out, "  %d. %s\n     %s\n", i+1, hit.Title, hit.Link)
		}
	}

	if agg.Report != "" {
		fmt.Fprintln(out, "\nReport:")
		fmt.Fprintln(out, agg.Report)
	}
}
