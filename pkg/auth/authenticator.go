package auth

import "log/slog"

type authenticator struct {
	allowedUserIDs map[int64]struct{}
}

// NewAuthenticator restricts the Telegram bridge to the listed user IDs. An
// empty list leaves the bridge open.
func NewAuthenticator(allowedUserIDs []int64) *authenticator {
	slog.Info("telegram allowed user IDs", "user_ids", allowedUserIDs)

	allowed := make(map[int64]struct{}, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}
	return &authenticator{allowedUserIDs: allowed}
}

func (a *authenticator) IsAuthorized(userID int64) bool {
	if len(a.allowedUserIDs) == 0 {
		return true
	}
	_, ok := a.allowedUserIDs[userID]
	return ok
}
