package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"supply-chain-security/dependabot"
	"supply-chain-security/util"
)

var riskCmd = &cobra.Command{
	Use:     "risk",
	Aliases: []string{"risk"},
	Long:    "Enter your repository URL to retrieve the risk rating based on its open dependabot alerts",
	RunE:    GetRiskByRepoAlerts,
}

func GetRiskByRepoAlerts(cmd *cobra.Command, args []string) error {
	alerts, err := fetchAlerts(cmd.Context())
	if err != nil {
		return err
	}

	open := dependabot.Filter{States: []dependabot.State{dependabot.StateOpen}}.Apply(alerts)
	report := util.RepositoryRisk(open)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Open alerts: %d (%d critical, %d high)\n", len(open), report.Critical, report.High)
	if report.Unscored > 0 {
		fmt.Fprintf(out, "Alerts without CVSS information: %d\n", report.Unscored)
	}
	fmt.Fprintf(out, "Risk score: %s\n", strconv.FormatFloat(report.Score, 'f', 2, 64))
	return nil
}

func init() {
	rootCmd.AddCommand(riskCmd)
}
