package api

import (
	"context"
	"net/url"

	"github.com/chanyong1027/sesac-team2-sub001/transport"
)

// Invitations wraps the workspace invitation endpoints.
type Invitations struct {
	client *transport.Client
}

// NewInvitations creates the invitation API surface.
func NewInvitations(client *transport.Client) *Invitations {
	return &Invitations{client: client}
}

// Accept joins the workspace behind the invitation token.
func (i *Invitations) Accept(ctx context.Context, token string) (*InvitationResult, error) {
	var result InvitationResult
	body := map[string]string{"token": token}
	if err := i.client.Post(ctx, "/invitations/accept", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Preview returns the workspace behind the invitation token without joining.
// Used when accept reports the user is already a member.
func (i *Invitations) Preview(ctx context.Context, token string) (*InvitationResult, error) {
	var result InvitationResult
	path := "/invitations/preview?token=" + url.QueryEscape(token)
	if err := i.client.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
