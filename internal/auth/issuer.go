package auth

import "time"

// Credential is an issued token together with its kind and expiry.
type Credential struct {
	Token     string
	Kind      Kind
	ExpiresAt time.Time
}

// TokenPair is the result of a login.
type TokenPair struct {
	Access  Credential
	Refresh Credential
}

// Issuer produces credentials through the codec.
type Issuer struct {
	codec *Codec
}

// NewIssuer constructs an issuer.
func NewIssuer(codec *Codec) *Issuer {
	return &Issuer{codec: codec}
}

// Issue returns a fresh access/refresh pair for subject.
func (i *Issuer) Issue(subject string) (TokenPair, error) {
	access, err := i.issue(subject, KindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.issue(subject, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess returns a new access credential only, used by the refresh exchange.
func (i *Issuer) IssueAccess(subject string) (Credential, error) {
	return i.issue(subject, KindAccess)
}

func (i *Issuer) issue(subject string, kind Kind) (Credential, error) {
	token, expiresAt, err := i.codec.Sign(subject, kind)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Token: token, Kind: kind, ExpiresAt: expiresAt}, nil
}
