package testserver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// ServiceAccountKey is a generated service-account identity. Pass PublicKey
// to WithServiceAccount and write the key file once the token URI is known.
type ServiceAccountKey struct {
	ClientEmail string
	PublicKey   *rsa.PublicKey

	private *rsa.PrivateKey
}

// NewServiceAccountKey generates a 2048-bit RSA key for clientEmail.
func NewServiceAccountKey(clientEmail string) (*ServiceAccountKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("error generating key: %w", err)
	}
	return &ServiceAccountKey{ClientEmail: clientEmail, PublicKey: &key.PublicKey, private: key}, nil
}

// WriteFile writes a service-account key file into dir and returns its
// path. tokenURI may be empty.
func (k *ServiceAccountKey) WriteFile(dir, tokenURI string) (string, error) {
	doc := map[string]string{
		"type":           "service_account",
		"private_key_id": "test-key",
		"private_key": string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(k.private),
		})),
		"client_email": k.ClientEmail,
	}
	if tokenURI != "" {
		doc["token_uri"] = tokenURI
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error encoding key file: %w", err)
	}

	path := filepath.Join(dir, "service-account.json")
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("error writing key file: %w", err)
	}
	return path, nil
}
