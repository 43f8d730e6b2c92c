package internal

import "context"

type ctxKey string

const ContextCurrentKey ctxKey = "currentUser"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// CurrentUser is the authenticated caller resolved from the access token.
type CurrentUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *CurrentUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func ContextWithUser(ctx context.Context, user *CurrentUser) context.Context {
	return context.WithValue(ctx, ContextCurrentKey, user)
}

func UserFromContext(ctx context.Context) (*CurrentUser, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextCurrentKey).(*CurrentUser)
	return user, ok && user != nil
}
