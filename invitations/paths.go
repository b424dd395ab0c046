package invitations

import (
	"fmt"
	"net/url"
)

// Fixed navigation surfaces.
const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

// WorkspacePath resolves the landing path for a joined workspace. A
// non-positive workspace ID falls back to the dashboard; a non-positive
// organization ID yields the organization-less form.
func WorkspacePath(organizationID, workspaceID int64) string {
	if workspaceID <= 0 {
		return DashboardPath
	}
	if organizationID > 0 {
		return fmt.Sprintf("/orgs/%d/workspaces/%d", organizationID, workspaceID)
	}
	return fmt.Sprintf("/workspaces/%d", workspaceID)
}

// AcceptStatusPath is the invitation status surface, which re-derives a
// human-readable status for the token it is handed.
func AcceptStatusPath(token string) string {
	return "/invitations/accept?token=" + url.QueryEscape(token)
}

// Decision is a resolved navigation target plus whether the stashed pending
// token is consumed. The token is only consumed when the flow reached a
// workspace (joined or previewed) or exhausted recovery; otherwise it is
// retained so the status surface can re-derive what happened.
type Decision struct {
	Path         string
	ClearPending bool
}

// DecideFailure maps a terminal failure outcome to its decision. Accepted and
// already-member outcomes are not terminal here: accepted resolves through
// WorkspacePath, and already-member first attempts a preview.
func DecideFailure(outcome Outcome, token string) Decision {
	switch outcome {
	case OutcomeInvalidOrExpired:
		return Decision{Path: AcceptStatusPath(token)}
	case OutcomeUnauthorized:
		return Decision{Path: LoginPath}
	default:
		return Decision{Path: DashboardPath}
	}
}
