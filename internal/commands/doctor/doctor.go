// Package doctor runs the setup diagnostics behind `stride doctor`.
package doctor

import (
	"context"
	"sync"
	"time"
)

// CheckTimeout bounds a single check so one unreachable API cannot stall the
// whole report.
const CheckTimeout = 10 * time.Second

// Status is the outcome of a check item.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckItem is a single line within a check result.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func pass(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusPass, Detail: detail} }
func warn(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusWarn, Detail: detail} }
func fail(label, detail string) CheckItem { return CheckItem{Label: label, Status: StatusFail, Detail: detail} }

// Result is the outcome of one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs the checks concurrently, each under CheckTimeout. Results keep
// the order of checks.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
			defer cancel()
			results[i] = check.Run(ctx)
		}()
	}
	wg.Wait()

	return results
}

// Summary counts passed, warned and failed items across all results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}
	return
}
