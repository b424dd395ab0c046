// Package invitations reconciles a deferred "join workspace by invitation"
// intent across a login detour. An unauthenticated user opening an invitation
// link gets the token stashed; after login the reconciler accepts it, maps any
// failure through a fixed decision table, and resolves a navigation target.
package invitations

import (
	"net/http"
	"strings"

	"github.com/chanyong1027/sesac-team2-sub001/apierr"
)

// Outcome is the classification of one accept attempt.
type Outcome int

const (
	// OutcomeAccepted: the invitation was accepted and the user joined.
	OutcomeAccepted Outcome = iota
	// OutcomeAlreadyMember: the user already belongs to the workspace.
	OutcomeAlreadyMember
	// OutcomeInvalidOrExpired: the link never existed or has expired.
	OutcomeInvalidOrExpired
	// OutcomeUnauthorized: the session was not accepted by the backend.
	OutcomeUnauthorized
	// OutcomeOther: any other failure.
	OutcomeOther
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeAlreadyMember:
		return "already_member"
	case OutcomeInvalidOrExpired:
		return "invalid_or_expired"
	case OutcomeUnauthorized:
		return "unauthorized"
	default:
		return "other"
	}
}

// Backend error codes and message markers. The backend disambiguates
// "already joined" from "link expired" only through these; the markers are
// free-text substrings of Korean messages and are kept here, in one place,
// because a backend wording change must not ripple past this file.
const (
	codeConflict   = "C409"
	codeNotFound   = "C404"
	codeBadRequest = "C400"

	alreadyMemberMarker = "이미 워크스페이스 멤버"
	expiredMarker       = "만료"
)

// Classify maps an accept failure onto the decision table. It is pure: it
// inspects only the error's status, code, and message.
func Classify(err error) Outcome {
	apiErr, ok := apierr.FromError(err)
	if !ok {
		return OutcomeOther
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return OutcomeUnauthorized
	case (apiErr.Status == http.StatusConflict || apiErr.Code == codeConflict) &&
		strings.Contains(apiErr.Message, alreadyMemberMarker):
		return OutcomeAlreadyMember
	case apiErr.Status == http.StatusNotFound || apiErr.Code == codeNotFound:
		return OutcomeInvalidOrExpired
	case (apiErr.Status == http.StatusBadRequest || apiErr.Code == codeBadRequest) &&
		strings.Contains(apiErr.Message, expiredMarker):
		return OutcomeInvalidOrExpired
	default:
		return OutcomeOther
	}
}
