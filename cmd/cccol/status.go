package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"cccolutils"
)

var (
	statusQuery string
	statusRaw   bool
)

// StatusReport is the JSON document printed by "cccol status"
type StatusReport struct {
	Authenticated bool          `json:"authenticated"`
	Realms        []RealmStatus `json:"realms"`
	CheckedAt     time.Time     `json:"checked_at"`
}

// RealmStatus is the per-realm part of a StatusReport
type RealmStatus struct {
	Name          string `json:"name"`
	Realm         string `json:"realm"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Error         string `json:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status [realm...]",
	Short: "Print a JSON report of the credential cache collection",
	Long: `Status reports whether any credentials exist and, for each realm, whether
it is authenticated and by which principal. Realms default to the config file.

--query applies a jq filter to the report, e.g.
  cccol status --query '.realms[] | select(.authenticated) | .username' --raw`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusQuery, "query", "q", "", "jq filter applied to the report")
	statusCmd.Flags().BoolVarP(&statusRaw, "raw", "r", false, "print string results without JSON quoting")
}

func runStatus(cmd *cobra.Command, args []string) error {
	report := buildStatusReport(client, resolveRealms(args, appConfig), time.Now())

	if statusQuery == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	results, err := queryReport(report, statusQuery)
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), results, statusRaw)
}

func buildStatusReport(c *cccolutils.Client, realms []RealmEntry, now time.Time) StatusReport {
	report := StatusReport{
		Authenticated: c.HasCredentials(),
		Realms:        make([]RealmStatus, 0, len(realms)),
		CheckedAt:     now,
	}
	for _, r := range realms {
		rs := RealmStatus{Name: r.Name, Realm: r.Realm}
		ok, err := c.HasCredentialsForRealm(r.Realm)
		if err != nil {
			rs.Error = err.Error()
			report.Realms = append(report.Realms, rs)
			continue
		}
		rs.Authenticated = ok

		name, present, err := c.UsernameForRealm(r.Realm)
		switch {
		case err != nil:
			rs.Error = err.Error()
		case present:
			rs.Username = name
		}
		report.Realms = append(report.Realms, rs)
	}
	return report
}

// queryReport runs a jq filter over the report and collects every result
func queryReport(report StatusReport, q string) ([]any, error) {
	query, err := gojq.Parse(q)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	// gojq works on plain JSON values, not Go structs
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("query failed: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func printResults(w io.Writer, results []any, raw bool) error {
	for _, v := range results {
		if s, ok := v.(string); ok && raw {
			fmt.Fprintln(w, s)
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	}
	return nil
}
