package accounts_test

import (
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestRequestContextApplicationURL(t *testing.T) {
	tests := []struct {
		name string
		ctx  accounts.RequestContext
		want string
	}{
		{
			name: "no context path",
			ctx:  accounts.RequestContext{Host: "localhost", Port: 8080},
			want: "http://localhost:8080",
		},
		{
			name: "with context path",
			ctx:  accounts.RequestContext{Host: "donations.local", Port: 80, ContextPath: "/app"},
			want: "http://donations.local:80/app",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.ctx.ApplicationURL())
		})
	}
}

func TestEmailLinkBuilders(t *testing.T) {
	app := "http://localhost:8080"

	assert.Equal(t,
		"http://localhost:8080/register/verifyEmail?token=abc",
		accounts.VerificationURL(app, "abc"),
	)
	assert.Equal(t,
		"http://localhost:8080/reset-password/verifyEmail?token=abc",
		accounts.PasswordResetURL(app, "abc"),
	)
}
