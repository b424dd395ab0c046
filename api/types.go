// Package api provides typed wrappers over the backend's JSON endpoints.
// Business endpoints ride the authenticated transport; the token-issuing
// endpoints (login, refresh) use a bare HTTP client so they are never subject
// to 401 refresh-and-replay handling themselves.
package api

import "github.com/chanyong1027/sesac-team2-sub001/session"

// TokenResponse is the pair returned by the login and refresh endpoints.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Pair converts the response into a session token pair.
func (t TokenResponse) Pair() session.TokenPair {
	return session.TokenPair{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

// InvitationResult is the outcome of accepting or previewing a workspace
// invitation. OrganizationID is zero when the workspace is not organization
// scoped.
type InvitationResult struct {
	OrganizationID int64  `json:"organizationId"`
	WorkspaceID    int64  `json:"workspaceId"`
	WorkspaceName  string `json:"workspaceName"`
}

// Workspace is a workspace summary row.
type Workspace struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

// Prompt is a stored prompt definition.
type Prompt struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspaceId"`
	Name        string `json:"name"`
	Content     string `json:"content"`
}

// Budget is a workspace's spending budget snapshot.
type Budget struct {
	WorkspaceID int64   `json:"workspaceId"`
	LimitUSD    float64 `json:"limitUsd"`
	SpentUSD    float64 `json:"spentUsd"`
}

// LogEntry is one API usage log row.
type LogEntry struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspaceId"`
	PromptID    int64  `json:"promptId"`
	Model       string `json:"model"`
	TokensUsed  int64  `json:"tokensUsed"`
	CreatedAt   string `json:"createdAt"`
}
