package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/quality"
	"go-vacancy-enricher/internal/schema"
)

var validateFlags struct {
	org       string
	gatesPath string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check enriched outputs against the quality gates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateFlags.org, "org", "", "org abbreviation to validate (omit for all orgs)")
	validateCmd.Flags().StringVar(&validateFlags.gatesPath, "gates", "configs/quality_gates.yaml", "path to quality gate thresholds")
}

func runValidate() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	gates, err := quality.LoadGates(validateFlags.gatesPath)
	if err != nil {
		return err
	}

	orgs := cfg.Orgs
	if validateFlags.org != "" {
		found := false
		for _, org := range orgs {
			if org.Abbrev == validateFlags.org {
				orgs = []config.OrgConfig{org}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no org configured with abbreviation %q", validateFlags.org)
		}
	}

	store := schema.NewStore(cfg.OutputDir)
	today := time.Now().UTC()
	failing := 0
	for _, org := range orgs {
		output, err := store.Load(org.Abbrev)
		if err != nil {
			return fmt.Errorf("load %s output: %w", org.Abbrev, err)
		}
		if output == nil {
			fmt.Printf("%s: no output file, skipping\n", org.Abbrev)
			continue
		}
		violations := gates.ValidateOrg(output, today)
		if len(violations) == 0 {
			fmt.Printf("%s: OK (%d jobs)\n", org.Abbrev, output.JobCount)
			continue
		}
		failing++
		fmt.Printf("%s: FAILED\n%s\n", org.Abbrev, quality.FormatViolations(violations))
	}

	if failing > 0 {
		return fmt.Errorf("%d organization(s) failed quality gates", failing)
	}
	return nil
}
