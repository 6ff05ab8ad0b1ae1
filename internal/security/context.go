package security

import "context"

type contextKey string

const (
	userKey         contextKey = "security.user"
	captchaTokenKey contextKey = "security.captchaToken"
	ipAddressKey    contextKey = "security.ipAddress"
)

// AnonymousUserID is reported for callers without a verified identity
const AnonymousUserID = "anonymous"

// User is the authenticated caller resolved from a bearer token
type User struct {
	ID    string
	Name  string
	Email string
	Roles []string

	// NhsNumber is asserted by NHS login; empty for staff and consumer tokens
	NhsNumber string
}

// HasRole reports whether u was granted role
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithUser attaches an authenticated user to ctx
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok && user != nil
}

// WithCaptchaToken attaches the captcha token the caller submitted
func WithCaptchaToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, captchaTokenKey, token)
}

// CaptchaTokenFromContext returns the submitted captcha token or ""
func CaptchaTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(captchaTokenKey).(string)
	return token
}

// WithIPAddress attaches the caller's address
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey, ip)
}

// IPAddressFromContext returns the caller's address or ""
func IPAddressFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipAddressKey).(string)
	return ip
}
