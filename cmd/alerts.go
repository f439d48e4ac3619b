package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"supply-chain-security/dependabot"
)

var alertsCmd = &cobra.Command{
	Use:     "alerts",
	Aliases: []string{"alert"},
	Short:   "List the dependabot alerts of a repository",
	Long:    "Fetch every dependabot alert of a GitHub repository and print them as a table or as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromConfig()
		if err != nil {
			return err
		}

		alerts, err := fetchAlerts(cmd.Context())
		if err != nil {
			return err
		}
		alerts = filter.Apply(alerts)

		if viper.GetBool("json") {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(alerts)
		}

		if len(alerts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ No dependabot alerts found")
			return nil
		}
		printAlerts(cmd, alerts)
		return nil
	},
}

func filterFromConfig() (dependabot.Filter, error) {
	var filter dependabot.Filter
	for _, s := range viper.GetStringSlice("state") {
		state, err := dependabot.ParseState(strings.TrimSpace(s))
		if err != nil {
			return filter, err
		}
		filter.States = append(filter.States, state)
	}
	for _, s := range viper.GetStringSlice("scope") {
		scope, err := dependabot.ParseScope(strings.TrimSpace(s))
		if err != nil {
			return filter, err
		}
		filter.Scopes = append(filter.Scopes, scope)
	}
	if s := viper.GetString("severity"); s != "" {
		severity, err := dependabot.ParseSeverity(s)
		if err != nil {
			return filter, err
		}
		filter.MinSeverity = severity
	}
	return filter, nil
}

var severityColors = map[dependabot.Severity]text.Colors{
	dependabot.SeverityLow:      {text.FgBlue},
	dependabot.SeverityMedium:   {text.FgYellow},
	dependabot.SeverityHigh:     {text.FgRed},
	dependabot.SeverityCritical: {text.FgHiRed, text.Bold},
}

func printAlerts(cmd *cobra.Command, alerts []*dependabot.Alert) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetAllowedRowLength(180)
	tw.AppendHeader(table.Row{"#", "Severity", "CVSS", "Package", "Scope", "State", "Advisory", "CWEs", "Summary"})

	for _, alert := range alerts {
		score := "-"
		if s, ok := alert.CvssScore(); ok {
			score = strconv.FormatFloat(s, 'f', 1, 64)
		}
		pkg, err := alert.Dependency().Package().PURL()
		if err != nil {
			pkg = alert.PackageEcosystem() + "/" + alert.PackageName()
		}
		advisory := alert.GHSAID()
		if cve, ok := alert.CveID(); ok {
			advisory = cve
		}
		tw.AppendRow(table.Row{
			alert.Number(),
			severityColors[alert.Severity()].Sprint(string(alert.Severity())),
			score,
			pkg,
			alert.Scope(),
			alert.State(),
			advisory,
			strings.Join(alert.CweIDs(), ", "),
			text.WrapText(alert.SecurityAdvisory().Summary(), 60),
		})
	}
	tw.Render()
}

func init() {
	alertsCmd.Flags().StringSlice("state", nil, "Only show alerts in these states (dismissed, fixed, open)")
	alertsCmd.Flags().StringSlice("scope", nil, "Only show alerts with these scopes (development, runtime)")
	alertsCmd.Flags().StringP("severity", "s", "", "Only show alerts with at least this severity (low, medium, high, critical)")
	alertsCmd.Flags().BoolP("json", "j", false, "Output in JSON")

	rootCmd.AddCommand(alertsCmd)
}
