package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
)

// CredentialCheck reports whether a bearer token is available.
type CredentialCheck struct {
	creds  credential.Provider
	source string
}

// NewCredentialCheck creates a credential check. source describes where the
// token is read from, e.g. the credentials file path.
func NewCredentialCheck(creds credential.Provider, source string) *CredentialCheck {
	return &CredentialCheck{creds: creds, source: source}
}

func (c *CredentialCheck) Name() string { return "Credentials" }

func (c *CredentialCheck) Run(context.Context) Result {
	item := pass("Token", c.source)
	if !credential.Authenticated(c.creds) {
		item = fail("Token", "not set, run 'stride token set' or pass --token")
	}
	return Result{Name: c.Name(), Items: []CheckItem{item}}
}

// Probe is the part of the API used to check connectivity.
type Probe interface {
	Types(ctx context.Context) ([]activity.ActivityType, error)
	Settings(ctx context.Context) (activity.Settings, error)
}

// APICheck calls a public and an authenticated endpoint.
type APICheck struct {
	probe   Probe
	baseURL string
}

// NewAPICheck creates an API connectivity check.
func NewAPICheck(probe Probe, baseURL string) *APICheck {
	return &APICheck{probe: probe, baseURL: baseURL}
}

func (c *APICheck) Name() string { return "API" }

func (c *APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	types, err := c.probe.Types(ctx)
	if err != nil {
		result.Items = append(result.Items, fail("Reachable", err.Error()))
		return result
	}
	result.Items = append(result.Items,
		pass("Reachable", fmt.Sprintf("%s (%d activity types)", c.baseURL, len(types))),
		authItem(c.probeSettings(ctx)),
	)
	return result
}

func (c *APICheck) probeSettings(ctx context.Context) error {
	_, err := c.probe.Settings(ctx)
	return err
}

// authItem classifies the result of an authenticated call. A missing token
// is only a warning since public commands still work.
func authItem(err error) CheckItem {
	const label = "Authenticated"

	var apiErr *apierr.Error
	switch {
	case err == nil:
		return pass(label, "")
	case errors.Is(err, credential.ErrMissing):
		return warn(label, "skipped, no token")
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden):
		return fail(label, "token rejected by the server")
	default:
		return fail(label, err.Error())
	}
}
