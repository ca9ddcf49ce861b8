package auth

import "fmt"

// Kind identifies the credential variant of a Session.
type Kind int

const (
	KindNone Kind = iota
	KindBasic
	KindServiceAccount
	KindBearer
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBasic:
		return "basic"
	case KindServiceAccount:
		return "service-account"
	case KindBearer:
		return "bearer"
	default:
		return "unknown"
	}
}

// Credentials is the closed set of credential variants a Session may hold.
type Credentials interface {
	Kind() Kind
	credentials()
}

// BasicCredentials authenticate with HTTP basic auth. A secrets file resolves
// to this variant.
type BasicCredentials struct {
	Username string
	Password string
}

func (BasicCredentials) Kind() Kind   { return KindBasic }
func (BasicCredentials) credentials() {}

func (c BasicCredentials) String() string {
	return fmt.Sprintf("basic(%s:***)", c.Username)
}

// ServiceAccountCredentials authenticate with tokens signed by a
// service-account key.
type ServiceAccountCredentials struct {
	Key *ServiceAccountKey
}

func (ServiceAccountCredentials) Kind() Kind   { return KindServiceAccount }
func (ServiceAccountCredentials) credentials() {}

func (c ServiceAccountCredentials) String() string {
	return fmt.Sprintf("service-account(%s)", c.Key.ClientEmail)
}

// BearerCredentials send a caller-supplied token as is.
type BearerCredentials struct {
	Token string
}

func (BearerCredentials) Kind() Kind   { return KindBearer }
func (BearerCredentials) credentials() {}

func (BearerCredentials) String() string {
	return "bearer(***)"
}

// NoCredentials send no Authorization header.
type NoCredentials struct{}

func (NoCredentials) Kind() Kind   { return KindNone }
func (NoCredentials) credentials() {}

func (NoCredentials) String() string {
	return "none"
}
