package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// RSAKeySize is the key size used for the proof server's registration
// key pair.
const RSAKeySize = 2048

// RegistrationKeyPair is the proof server's one-shot RSA-OAEP key pair used
// to receive tablet symmetric keys during registration.
type RegistrationKeyPair struct {
	private *rsa.PrivateKey
}

// GenerateRegistrationKeyPair creates a fresh 2048-bit RSA key pair.
func GenerateRegistrationKeyPair() (*RegistrationKeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, RSAKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return &RegistrationKeyPair{private: priv}, nil
}

// PublicKeyPEM returns the PEM-encoded SubjectPublicKeyInfo of the public
// key, as handed to tablets during registration.
func (kp *RegistrationKeyPair) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&kp.private.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// Decrypt unwraps an RSA-OAEP-SHA256 ciphertext produced by
// EncryptWithPublicKeyPEM, recovering a tablet's symmetric secret.
func (kp *RegistrationKeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, kp.private, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-OAEP decryption failed: %w", err)
	}
	return plaintext, nil
}

// EncryptWithPublicKeyPEM RSA-OAEP-SHA256 encrypts plaintext (a tablet's
// symmetric secret) under the PEM-encoded public key fetched from the
// proof server.
func EncryptWithPublicKeyPEM(pemBytes, plaintext []byte) ([]byte, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, rsaPub, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-OAEP encryption failed: %w", err)
	}
	return ciphertext, nil
}
