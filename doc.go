// Package accounts provides the account-lifecycle core of a donation
// management application: registration with email verification, token
// issuance and validation, password reset, and admin-safe role and
// account management backed by Bun repositories.
//
// Token lifecycle:
//   - VerificationToken and PasswordResetToken are single-use,
//     time-boxed credentials. TokenLifecycle issues them (replacing any
//     prior token of the same kind for the user), validates them, and
//     always reports consumption before expiry when both apply, so a
//     stale link for an already-verified account reads as "used" rather
//     than "expired".
//
// Account management:
//   - UserManager owns the mutations: register, block/unblock, grant or
//     revoke ROLE_ADMIN, delete, change email or password, and start a
//     password reset. Role revocation and deletion of an admin are
//     refused unless another enabled, unblocked admin remains, so the
//     system can never lose its last working administrator. Every
//     check-then-act sequence runs inside one transaction.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing lifecycle
//     events (registered, verified, blocked, role changes, deletion).
//     Sinks run best-effort (errors are logged) so you can forward to a
//     database or queue without blocking the mutation.
//
// Outbound mail:
//   - Notifier is the email boundary; SMTPNotifier is the gomail-backed
//     implementation. Mail failures after a committed mutation surface
//     as typed, reportable errors and never roll back persisted state.
package accounts
