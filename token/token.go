package token

// Pair holds the access and refresh token values minted for one
// authorised credential set.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Generator mints a fresh token pair for a principal/client binding.
// Implementations must produce unguessable values with at least 128
// bits of entropy.
type Generator interface {
	Generate(principalID, clientID string) (Pair, error)
}
