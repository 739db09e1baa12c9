package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rosterly/rosterly"
	"github.com/rosterly/rosterly/internal/ingest"
	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/logging"
)

var (
	leftPath    string
	rightPath   string
	profilePath string
	format      string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile two roster files",
	Long: `Reconcile reads two roster files (CSV or XLSX), standardizes
them according to the run profile's column mappings, matches the
records and prints the classified report.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&leftPath, "left", "", "left roster file (required)")
	reconcileCmd.Flags().StringVar(&rightPath, "right", "", "right roster file (required)")
	reconcileCmd.Flags().StringVar(&profilePath, "profile", "", "run profile YAML (required)")
	reconcileCmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	cobra.CheckErr(reconcileCmd.MarkFlagRequired("left"))
	cobra.CheckErr(reconcileCmd.MarkFlagRequired("right"))
	cobra.CheckErr(reconcileCmd.MarkFlagRequired("profile"))

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Default()

	profile, err := LoadProfile(profilePath)
	if err != nil {
		return err
	}
	opts, err := profile.EngineOptions()
	if err != nil {
		return err
	}

	left, err := ingest.ReadTable(ctx, leftPath)
	if err != nil {
		return err
	}
	right, err := ingest.ReadTable(ctx, rightPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("left", left.Name).
		Str("right", right.Name).
		Int("left_rows", len(left.Rows)).
		Int("right_rows", len(right.Rows)).
		Msg("reconciling rosters")

	rep, err := rosterly.Reconcile(ctx, left, right,
		profile.Left.FieldMapping(), profile.Right.FieldMapping(), opts...)
	if err != nil {
		if !errors.IsIncomplete(err) {
			return err
		}
		// An aborted fuzzy pass still has a usable partial report.
		msg := "run incomplete, rendering committed results"
		if errors.IsCanceled(err) {
			msg = "run interrupted, rendering committed results"
		}
		log.Warn().Err(err).Msg(msg)
	}

	return render(os.Stdout, rep, format)
}
