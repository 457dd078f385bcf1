package validator

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/fixture"
)

const bannerWidth = 80

// Reporter renders case progress and verdicts to a console stream.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a Reporter writing to the given stream.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		panic("out cannot be nil")
	}
	return &Reporter{out: out}
}

func (r *Reporter) banner() {
	fmt.Fprintln(r.out, strings.Repeat("=", bannerWidth))
}

// ProcStart announces the case batch for one procedure.
func (r *Reporter) ProcStart(procName string, count int) {
	fmt.Fprintf(r.out, "\nFound %d test case(s) for %s\n", count, procName)
}

// CaseStart announces one case before it runs.
func (r *Reporter) CaseStart(index, total int, c fixture.Case) {
	fmt.Fprintln(r.out)
	r.banner()
	fmt.Fprintf(r.out, "[%d/%d] Case: %s\n", index, total, c.CaseID)
	fmt.Fprintf(r.out, "Type: %s\n", c.CaseType)
	if c.Description != "" {
		fmt.Fprintf(r.out, "Description: %s\n", c.Description)
	}
	r.banner()
}

// Rows prints the result rows of a single-procedure execution.
func (r *Reporter) Rows(rows []sptest.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "No results returned (OK if the procedure has no SELECT output)")
		return
	}
	fmt.Fprintf(r.out, "Results (%d row(s)):\n", len(rows))
	for i, row := range rows {
		fmt.Fprintf(r.out, "    Row %d: %v\n", i+1, row.Values())
	}
}

// ChainOutcome prints a chain execution's terminal state, including the
// chain data and partial results gathered before a failure.
func (r *Reporter) ChainOutcome(outcome *sptest.ChainOutcome) {
	if outcome.Success {
		fmt.Fprintln(r.out, "\n[SUCCESS] Chain execution completed")
		r.chainData(outcome.ChainData)
		return
	}

	fmt.Fprintln(r.out, "\n[FAILED] Chain execution aborted")
	fmt.Fprintf(r.out, "Failed at: step %d\n", outcome.FailedStep)
	fmt.Fprintf(r.out, "Error: %s\n", outcome.Error)

	if len(outcome.Results) > 0 {
		fmt.Fprintln(r.out, "\nPartial results (steps executed before abort):")
		labels := make([]string, 0, len(outcome.Results))
		for label := range outcome.Results {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(r.out, "  %s:\n", label)
			for _, row := range outcome.Results[label].Rows {
				fmt.Fprintf(r.out, "    %v\n", row.Values())
			}
		}
	}
	r.chainData(outcome.ChainData)
}

func (r *Reporter) chainData(data map[string]any) {
	if len(data) == 0 {
		fmt.Fprintln(r.out, "Chain data: (none extracted)")
		return
	}
	fmt.Fprintln(r.out, "Chain data:")
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.out, "  %s: %v\n", key, data[key])
	}
}

// CaseResult prints one case's verdict.
func (r *Reporter) CaseResult(v sptest.Verdict) {
	if v.Passed {
		fmt.Fprintf(r.out, "PASS  %s / %s\n", v.Proc, v.CaseID)
		return
	}
	fmt.Fprintf(r.out, "FAIL  %s / %s\n", v.Proc, v.CaseID)
	if v.Err != "" {
		fmt.Fprintf(r.out, "  error: %s\n", v.Err)
	}
	for _, failure := range v.Failures {
		fmt.Fprintf(r.out, "  - %s\n", failure)
	}
}

// Summary prints the aggregated run totals.
func (r *Reporter) Summary(s *sptest.RunSummary) {
	fmt.Fprintln(r.out)
	r.banner()
	fmt.Fprintf(r.out, "Run %s: %d case(s), %d passed, %d failed\n", s.RunID, s.Total, s.Passed, s.Failed)
	r.banner()
}
