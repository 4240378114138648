package testutil

// FixedTokenGenerator returns the same run token every time.
//
// Persisting runs with a fixed token makes database contents and golden
// snapshots byte-identical across test executions.
//
// Implements store.TokenGenerator.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for the given token. An
// empty token defaults to "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
