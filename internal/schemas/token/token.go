// Package token holds the bodies of the login endpoint.
package token

const TypeBearer = "bearer"

type Token struct {
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	RefreshToken *string `json:"refresh_token"`
}

func NewToken(access string) Token {
	return Token{AccessToken: access, TokenType: TypeBearer}
}

// WithRefresh returns t carrying refresh.
func (t Token) WithRefresh(refresh string) Token {
	t.RefreshToken = &refresh
	return t
}
