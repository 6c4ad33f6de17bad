package accounts

// Config carries the externally configured knobs of the account core.
// The token validity window is deliberately not hardcoded anywhere
// else; flows read it from here unless the caller passes an explicit
// window.
type Config struct {
	// TokenValidityMinutes bounds both verification and password reset
	// tokens.
	TokenValidityMinutes int
}

// DefaultTokenValidityMinutes is the window both token kinds get when
// no explicit value is configured.
const DefaultTokenValidityMinutes = 15

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		TokenValidityMinutes: DefaultTokenValidityMinutes,
	}
}

func (c Config) validityMinutes() int {
	if c.TokenValidityMinutes <= 0 {
		return DefaultTokenValidityMinutes
	}
	return c.TokenValidityMinutes
}
