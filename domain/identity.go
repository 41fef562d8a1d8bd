package domain

// Identity is the verified output of the external identity provider.
// It is never reconstructed from client input; the only sources are a
// successful provider sign-in and a session whose signature verified.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
