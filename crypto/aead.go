package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SymmetricKey is a tablet's per-election secret, used to authenticate and
// encrypt the SVR components it sends to the proof server. The 128-bit
// secret is stretched to a 256-bit AES key via SHA-256, matching the key
// sizes called out in the channel's design (16-byte secret, 32-byte cipher
// key).
type SymmetricKey struct {
	secret [16]byte
}

// NewSymmetricKey generates a fresh random 128-bit tablet secret.
func NewSymmetricKey() SymmetricKey {
	var k SymmetricKey
	copy(k.secret[:], RandomBytes(16))
	return k
}

// SymmetricKeyFromBytes reconstructs a key from its raw 16-byte secret, as
// decrypted by the proof server from a tablet's registration message.
func SymmetricKeyFromBytes(b []byte) (SymmetricKey, error) {
	var k SymmetricKey
	if len(b) != 16 {
		return k, fmt.Errorf("symmetric key must be 16 bytes, got %d", len(b))
	}
	copy(k.secret[:], b)
	return k, nil
}

// Bytes returns the raw 16-byte secret, as sent RSA-OAEP-wrapped during
// tablet registration.
func (k SymmetricKey) Bytes() []byte {
	return append([]byte(nil), k.secret[:]...)
}

func (k SymmetricKey) aead() (cipher.AEAD, error) {
	derived := sha256.Sum256(k.secret[:])
	block, err := aes.NewCipher(derived[:])
	if err != nil {
		return nil, fmt.Errorf("failed to build AES cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt authenticates and encrypts plaintext, returning nonce||ciphertext.
// Each call uses a fresh random nonce, matching the per-message nonce
// requirement of the channel.
func (k SymmetricKey) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := k.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt verifies and decrypts a ciphertext produced by Encrypt.
func (k SymmetricKey) Decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := k.aead()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ct := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption/authentication failed: %w", err)
	}
	return plaintext, nil
}
