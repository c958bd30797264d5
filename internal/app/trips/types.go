package trips

import (
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

type CreateTripInput struct {
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// MemberView is a membership row joined with the member's public identity.
type MemberView struct {
	MemberID domain.MemberID
	AddedAt  time.Time
	User     domain.UserSummary
}

// MembersView is the roster read model: the privileged creator plus the
// plain membership rows.
type MembersView struct {
	Creator domain.UserSummary
	Members []MemberView
}
