package servicedef

// AuthParams is the body of the credential exchange request.
type AuthParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by the credential exchange. The service reports rejected
// credentials either with an error status or with a Reason and no Token.
type AuthResponse struct {
	Token  string `json:"token"`
	Reason string `json:"reason,omitempty"`
}

// TokenCookieName is the cookie that carries the token on privileged requests.
const TokenCookieName = "token"
