package invitations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chanyong1027/sesac-team2-sub001/api"
	"github.com/chanyong1027/sesac-team2-sub001/storage"
)

// API is the invitation endpoint surface the reconciler consumes.
// api.Invitations is its production implementation.
type API interface {
	Accept(ctx context.Context, token string) (*api.InvitationResult, error)
	Preview(ctx context.Context, token string) (*api.InvitationResult, error)
}

// NavigateFunc pushes the user to a path. Routing itself is an external
// collaborator; the reconciler only decides the destination.
type NavigateFunc func(path string)

// Reconciler completes a stashed invitation intent after login.
type Reconciler struct {
	pending  storage.Store
	api      API
	navigate NavigateFunc
}

// NewReconciler creates a reconciler over the transient pending-token store.
func NewReconciler(pending storage.Store, invAPI API, navigate NavigateFunc) (*Reconciler, error) {
	if pending == nil {
		return nil, errors.New("[invitations.NewReconciler] pending store is required")
	}
	if invAPI == nil {
		return nil, errors.New("[invitations.NewReconciler] invitation API is required")
	}
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Reconciler{pending: pending, api: invAPI, navigate: navigate}, nil
}

// Stash records a pending invitation token, overwriting any previous one.
func (r *Reconciler) Stash(token string) error {
	return r.pending.Set(storage.KeyPendingInvitation, token)
}

// Pending returns the stashed token, or false when none is stashed.
func (r *Reconciler) Pending() (string, bool) {
	token, err := r.pending.Get(storage.KeyPendingInvitation)
	if err != nil {
		return "", false
	}
	return token, true
}

// Run reconciles the stashed invitation after a successful login and returns
// the navigation target it pushed. With nothing stashed it resolves to the
// pre-login destination, or the dashboard when there is none.
func (r *Reconciler) Run(ctx context.Context, originalDestination string) (string, error) {
	token, ok := r.Pending()
	if !ok {
		dest := originalDestination
		if dest == "" {
			dest = DashboardPath
		}
		r.navigate(dest)
		return dest, nil
	}

	result, err := r.api.Accept(ctx, token)
	if err == nil {
		r.clearPending()
		path := WorkspacePath(result.OrganizationID, result.WorkspaceID)
		log.Debug().Str("path", path).Msg("invitation accepted")
		r.navigate(path)
		return path, nil
	}

	outcome := Classify(err)
	log.Debug().Stringer("outcome", outcome).Msg("invitation accept failed")

	if outcome == OutcomeAlreadyMember {
		return r.recoverAlreadyMember(ctx, token), nil
	}

	decision := DecideFailure(outcome, token)
	if decision.ClearPending {
		r.clearPending()
	}
	r.navigate(decision.Path)
	return decision.Path, nil
}

// recoverAlreadyMember resolves where an existing member should land. The
// token is consumed only when the preview reached a workspace; a failed
// preview retains it for the status surface, like the other branches that
// land there.
func (r *Reconciler) recoverAlreadyMember(ctx context.Context, token string) string {
	result, err := r.api.Preview(ctx, token)

	var path string
	if err != nil {
		log.Debug().Msg("invitation preview failed after already-member")
		path = AcceptStatusPath(token)
	} else {
		r.clearPending()
		path = WorkspacePath(result.OrganizationID, result.WorkspaceID)
	}
	r.navigate(path)
	return path
}

func (r *Reconciler) clearPending() {
	if err := r.pending.Delete(storage.KeyPendingInvitation); err != nil {
		log.Warn().Err(err).Msg("clear pending invitation token")
	}
}
