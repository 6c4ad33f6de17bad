package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by every failure the core raises. Controllers map
// these to user-facing pages; the human-readable title and message ride
// along in the error metadata, sourced from the message catalog.
const (
	TextCodeTokenNotFound    = "TOKEN_NOT_FOUND"
	TextCodeTokenConsumed    = "TOKEN_ALREADY_CONSUMED"
	TextCodeTokenExpired     = "TOKEN_ALREADY_EXPIRED"
	TextCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	TextCodeEntityDeletion   = "ENTITY_DELETION"
	TextCodeUsernameNotFound = "USERNAME_NOT_FOUND"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeMailSendError    = "MAIL_SEND_ERROR"
)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is returned when a cleartext password
// does not match the stored hash.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

func newTokenNotFoundError(msgs *Messages) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.New(msgs.Get(MsgTokenNotFound), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeTokenNotFound).
		WithMetadata(map[string]any{
			"title": msgs.Get(MsgTokenNotFoundTitle),
		})
}

func newTokenConsumedError(msgs *Messages) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.New(msgs.Get(MsgTokenConsumed), goerrors.CategoryConflict).
		WithTextCode(TextCodeTokenConsumed).
		WithMetadata(map[string]any{
			"title": msgs.Get(MsgTokenNotFoundTitle),
		})
}

// newTokenExpiredError carries the original token value so the caller
// can offer a resend.
func newTokenExpiredError(msgs *Messages, token string) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.New(msgs.Get(MsgTokenExpired), goerrors.CategoryValidation).
		WithTextCode(TextCodeTokenExpired).
		WithMetadata(map[string]any{
			"title": msgs.Get(MsgTokenNotFoundTitle),
			"token": token,
		})
}

func newResourceNotFoundError(msgs *Messages) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.New(msgs.Get(MsgResourceNotFound), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeResourceNotFound).
		WithMetadata(map[string]any{
			"title": msgs.Get(MsgResourceNotFoundTitle),
		})
}

// newUsernameNotFoundError is raised only by authentication and
// reset-by-email lookups, which unauthenticated actors can reach.
func newUsernameNotFoundError(msgs *Messages) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.New(msgs.Get(MsgUsernameNotFound), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeUsernameNotFound)
}

// newEntityDeletionError marks a mutation blocked by a state-integrity
// rule, such as sole-admin protection.
func newEntityDeletionError(title, message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(TextCodeEntityDeletion).
		WithMetadata(map[string]any{
			"title": title,
		})
}

// newMailError reports a notification dispatch failure. The state
// change it followed is already committed; the caller decides how to
// surface it.
func newMailError(msgs *Messages, cause error) *goerrors.Error {
	msgs = normalizeMessages(msgs)
	return goerrors.Wrap(cause, goerrors.CategoryOperation, msgs.Get(MsgMailError)).
		WithTextCode(TextCodeMailSendError).
		WithMetadata(map[string]any{
			"title": msgs.Get(MsgMailErrorTitle),
		})
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsTokenNotFound reports a TOKEN_NOT_FOUND failure.
func IsTokenNotFound(err error) bool { return hasTextCode(err, TextCodeTokenNotFound) }

// IsTokenConsumed reports a TOKEN_ALREADY_CONSUMED failure.
func IsTokenConsumed(err error) bool { return hasTextCode(err, TextCodeTokenConsumed) }

// IsTokenExpired reports a TOKEN_ALREADY_EXPIRED failure.
func IsTokenExpired(err error) bool { return hasTextCode(err, TextCodeTokenExpired) }

// IsResourceNotFound reports a RESOURCE_NOT_FOUND failure.
func IsResourceNotFound(err error) bool { return hasTextCode(err, TextCodeResourceNotFound) }

// IsEntityDeletion reports a mutation blocked by a state-integrity rule.
func IsEntityDeletion(err error) bool { return hasTextCode(err, TextCodeEntityDeletion) }

// IsUsernameNotFound reports a USERNAME_NOT_FOUND failure.
func IsUsernameNotFound(err error) bool { return hasTextCode(err, TextCodeUsernameNotFound) }

// IsMailError reports a notification dispatch failure after a
// committed state change.
func IsMailError(err error) bool { return hasTextCode(err, TextCodeMailSendError) }

// ExpiredTokenValue extracts the token string from an expired-token
// failure so the caller can offer a resend.
func ExpiredTokenValue(err error) (string, bool) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.TextCode != TextCodeTokenExpired {
		return "", false
	}
	token, ok := richErr.Metadata["token"].(string)
	return token, ok
}

// ErrorTitle returns the catalog-sourced title attached to a failure,
// or the empty string.
func ErrorTitle(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return ""
	}
	title, _ := richErr.Metadata["title"].(string)
	return title
}
