package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gomatch/adapters/excel"
	"gomatch/app"
	"gomatch/domain/match"
	"gomatch/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gomatch",
		Short: "Compatibility matching engine for questionnaire cohorts",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var catalogPath string
	var configPath string
	var outPath string
	var abortOnInvalid bool

	cmd := &cobra.Command{
		Use:   "run [respondents-file]",
		Short: "Run one matching batch over a respondent export",
		Long: `Run the full matching pipeline over an xlsx/csv respondent export.

Example: gomatch run respondents.xlsx --catalog catalog.toml --config matching.toml -o result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			cfg, err := config.LoadMatchingConfig(configPath)
			if err != nil {
				return err
			}

			reader := excel.NewRespondentReader(args[0])
			users, err := reader.LoadRespondents(cmd.Context())
			if err != nil {
				return err
			}

			policy := app.DropInvalid
			if abortOnInvalid {
				policy = app.AbortOnInvalid
			}
			service := app.NewMatchService(policy)

			pairs := len(users) * (len(users) - 1) / 2
			bar := progressbar.Default(int64(pairs), "Scoring pairs")
			service.Progress = func(done, total int) {
				_ = bar.Set(done)
			}

			result, err := service.RunMatching(cmd.Context(), users, cat, cfg)
			if err != nil {
				return err
			}
			_ = bar.Finish()

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(encoded))
				return nil
			}
			if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d matches, %d unmatched to %s\n",
				len(result.Matches), len(result.Unmatched), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "catalog.toml", "question catalog file")
	cmd.Flags().StringVar(&configPath, "config", "", "matching configuration file (defaults apply when omitted)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&abortOnInvalid, "abort-on-invalid", false, "fail the run on the first invalid respondent instead of dropping them")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [result-file]",
		Short: "Check a matching result against the assignment invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var result match.Result
			if err := json.Unmarshal(data, &result); err != nil {
				return err
			}

			v := match.ValidateMatching(result.Matches)
			if v.OK {
				fmt.Printf("ok: %d matches valid\n", len(result.Matches))
				return nil
			}
			for _, msg := range v.Errors {
				fmt.Fprintf(os.Stderr, "invalid: %s\n", msg)
			}
			return fmt.Errorf("%d invariant violations", len(v.Errors))
		},
	}
	return cmd
}
