package auth

// Credentials bundles password hashing and token handling behind the
// four-method surface the services and the auth gate consume.
type Credentials struct {
	passwords *PasswordService
	tokens    *TokenService
}

// NewCredentials combines a PasswordService and a TokenService.
func NewCredentials(passwords *PasswordService, tokens *TokenService) *Credentials {
	return &Credentials{passwords: passwords, tokens: tokens}
}

func (c *Credentials) Hash(plaintext string) (string, error) {
	return c.passwords.Hash(plaintext)
}

func (c *Credentials) Verify(hash, plaintext string) error {
	return c.passwords.Verify(hash, plaintext)
}

func (c *Credentials) IssueToken(userID, name string) (string, error) {
	return c.tokens.Issue(userID, name)
}

func (c *Credentials) VerifyToken(token string) (Caller, error) {
	return c.tokens.Verify(token)
}
