package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// KemPublicKey represents a public key for key encapsulation.
type KemPublicKey [32]byte

// KemPrivateKey represents a private key for key encapsulation.
type KemPrivateKey [32]byte

// SharedKey represents a Diffie-Hellman shared secret.
// Security: must always be derived from, never used as-is.
type SharedKey []byte

// Bytes returns a copy of the shared key material.
func (sk SharedKey) Bytes() []byte {
	return slices.Clone(sk)
}

// GenerateKemKeyPair generates a new X25519 key pair for key exchange.
func GenerateKemKeyPair(rng io.Reader) (KemPublicKey, KemPrivateKey, error) {
	var privKey KemPrivateKey
	var pubKey KemPublicKey

	if _, err := io.ReadFull(rng, privKey[:]); err != nil {
		return pubKey, privKey, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}

	curve25519.ScalarBaseMult((*[32]byte)(&pubKey), (*[32]byte)(&privKey))
	return pubKey, privKey, nil
}

// DeriveSharedSecret performs X25519 key agreement and derives a 32-byte
// shared secret via HKDF-SHA256 with the given context info.
func DeriveSharedSecret(privateKey KemPrivateKey, publicKey KemPublicKey, info []byte) (SharedKey, error) {
	var sharedPoint [32]byte
	curve25519.ScalarMult(&sharedPoint, (*[32]byte)(&privateKey), (*[32]byte)(&publicKey))

	kdf := hkdf.New(sha256.New, sharedPoint[:], nil, info)
	secret := make([]byte, 32)
	if _, err := io.ReadFull(kdf, secret); err != nil {
		return nil, err
	}

	return SharedKey(secret), nil
}

// SealSharePayload encrypts a recipient's share payload with AES-256-GCM
// under the shared key. Output format: nonce (12 bytes) || ciphertext+tag.
// The relay forwarding the payload learns only its length.
func SealSharePayload(key SharedKey, plaintext []byte, rng io.Reader) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("shared key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenSharePayload decrypts a payload produced by SealSharePayload.
func OpenSharePayload(key SharedKey, sealed []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("shared key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed payload too short")
	}
	plaintext, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
