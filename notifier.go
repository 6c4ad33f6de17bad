package accounts

import "context"

// Notifier is the outbound-email boundary. Implementations send the
// three mail kinds the lifecycle produces; dispatch is fire-and-forget
// relative to the account mutation, so a send failure never rolls back
// committed state. It is surfaced to the caller as a reportable error.
type Notifier interface {
	SendRegistrationEmail(ctx context.Context, user *User, verificationURL string) error
	SendPasswordResetEmail(ctx context.Context, user *User, resetURL string) error
	SendTokenResendEmail(ctx context.Context, user *User, verificationURL, oldToken string) error
}

type noopNotifier struct{}

func (noopNotifier) SendRegistrationEmail(context.Context, *User, string) error { return nil }

func (noopNotifier) SendPasswordResetEmail(context.Context, *User, string) error { return nil }

func (noopNotifier) SendTokenResendEmail(context.Context, *User, string, string) error { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// Links mailed out by the lifecycle flows, relative to the application
// URL derived from the inbound request.
const (
	verifyEmailPath   = "/register/verifyEmail?token="
	resetPasswordPath = "/reset-password/verifyEmail?token="
)

// VerificationURL builds the absolute email-verification link.
func VerificationURL(appURL, token string) string {
	return appURL + verifyEmailPath + token
}

// PasswordResetURL builds the absolute password-reset link.
func PasswordResetURL(appURL, token string) string {
	return appURL + resetPasswordPath + token
}
