package auth

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenURI is used when a service-account key names no token_uri.
	DefaultTokenURI = "https://oauth2.googleapis.com/token"

	// serviceAccountType is the only "type" a key file may declare.
	serviceAccountType = "service_account"
)

// DefaultScopes are requested when a service-account key lists none.
var DefaultScopes = []string{"email", "openid", "profile"}

// SecretsFile is the JSON document holding basic-auth credentials and,
// optionally, the server URL.
type SecretsFile struct {
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
}

// ServiceAccountKey is a parsed service-account key file.
type ServiceAccountKey struct {
	Type         string   `json:"type,omitempty"`
	PrivateKeyID string   `json:"private_key_id,omitempty"`
	PrivateKey   string   `json:"private_key"`
	ClientEmail  string   `json:"client_email"`
	TokenURI     string   `json:"token_uri,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`

	signer *rsa.PrivateKey
}

// Signer returns the parsed RSA private key.
func (k *ServiceAccountKey) Signer() *rsa.PrivateKey {
	return k.signer
}

// LoadSecretsFile reads and validates the secrets file at path.
func LoadSecretsFile(path string) (SecretsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SecretsFile{}, fmt.Errorf("%w: %v", ErrCredentialFile, err)
	}
	if err = validateDocument(secretsFileSchema, data); err != nil {
		return SecretsFile{}, fmt.Errorf("%w: secrets file %s: %v", ErrCredentialFile, path, err)
	}

	var secrets SecretsFile
	if err = json.Unmarshal(data, &secrets); err != nil {
		return SecretsFile{}, fmt.Errorf("%w: secrets file %s: %v", ErrCredentialFile, path, err)
	}
	return secrets, nil
}

// LoadServiceAccountKey reads the key file at path and parses it with
// ParseServiceAccountKey.
func LoadServiceAccountKey(path string) (*ServiceAccountKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialFile, err)
	}

	key, err := ParseServiceAccountKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: key file %s", err, path)
	}
	return key, nil
}

// ParseServiceAccountKey validates data, parses the PEM private key and
// fills in the default token URI and scopes.
func ParseServiceAccountKey(data []byte) (*ServiceAccountKey, error) {
	if err := validateDocument(serviceAccountKeySchema, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialFile, err)
	}

	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialFile, err)
	}

	signer, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrCredentialFile, err)
	}
	key.signer = signer

	if key.Type == "" {
		key.Type = serviceAccountType
	}
	if key.TokenURI == "" {
		key.TokenURI = DefaultTokenURI
	}
	if len(key.Scopes) == 0 {
		key.Scopes = DefaultScopes
	}
	return &key, nil
}
