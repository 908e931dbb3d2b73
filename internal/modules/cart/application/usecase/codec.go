package usecase

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"pratoJaEdge/internal/modules/cart/domain"
)

const (
	saltSize   = 16
	nonceSize  = 12
	keySize    = 32
	iterations = 10000
)

// Codec seals carts with AES-256-GCM under a key derived from the configured
// secret. Every Seal draws a fresh salt and nonce, so equal carts produce
// different ciphertexts.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Seal encrypts the cart into a base64 blob: salt || nonce || ciphertext.
func (c *Codec) Seal(cart domain.Cart) (string, error) {
	plain, err := json.Marshal(cart)
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, plain, nil)
	blob := make([]byte, 0, saltSize+nonceSize+len(sealed))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open decrypts a sealed cart. Anything that fails to decode or authenticate
// comes back as the empty cart; the customer starts over instead of seeing an
// error for a blob only the edge ever wrote.
func (c *Codec) Open(encoded string) domain.Cart {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(blob) <= saltSize+nonceSize {
		return domain.Cart{}
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	sealed := blob[saltSize+nonceSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return domain.Cart{}
	}
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal(plain, &cart); err != nil {
		return domain.Cart{}
	}
	return cart
}

func (c *Codec) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.secret, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
