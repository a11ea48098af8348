// Package zk provides the commitment, card-encryption and proof
// collaborators the table engine consumes. These are integrity anchors
// and opaque equality-checkable tokens, stand-ins for real zero-
// knowledge machinery: PoseidonHash is a sha256 digest, not a circuit
// hash, and proofs are deterministic digests of their payload.
package zk

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"livepoker.com/server/util/hashing"
)

// PoseidonHash computes the one-way digest used for deck commitments.
func PoseidonHash(input string) string {
	return hashing.GenerateStringHash(input)
}

// Proof is an opaque authentication token over arbitrary payload data.
// It is equality-checkable evidence, not a verified zk proof.
type Proof struct {
	Proof         string        `json:"proof"`
	PublicSignals PublicSignals `json:"publicSignals"`
}

type PublicSignals struct {
	Commitment string `json:"commitment"`
}

// CreateProof derives a deterministic proof token from the payload, so
// that a recomputed proof over the same payload compares equal.
func CreateProof(payload interface{}) Proof {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		data = []byte{}
	}
	digest := PoseidonHash(string(data))
	return Proof{
		Proof:         "proof_" + digest[:16],
		PublicSignals: PublicSignals{Commitment: digest[:32]},
	}
}

// VerifyProof checks a proof token by recomputing it over the payload.
func VerifyProof(payload interface{}, proof Proof) bool {
	return CreateProof(payload).Proof == proof.Proof
}

// EncryptCard produces the opaque per-viewer token for one hole card,
// keyed by the viewer's registered uuid key (AES-GCM over the uuid
// bytes). The engine stores and returns these tokens but never
// decrypts them.
func EncryptCard(card string, key uuid.UUID) (string, error) {
	keyBytes, err := uuidToBytes(key)
	if err != nil {
		return "", err
	}
	encrypted, err := encrypt([]byte(card), keyBytes)
	if err != nil {
		return "", errors.Wrap(err, "Unable to encrypt card")
	}
	return base64.RawURLEncoding.EncodeToString(encrypted), nil
}

// DecryptCard is the client-side counterpart of EncryptCard, kept here
// so the token format stays round-trippable.
func DecryptCard(token string, key uuid.UUID) (string, error) {
	keyBytes, err := uuidToBytes(key)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", errors.Wrap(err, "Unable to decode card token")
	}
	decrypted, err := decrypt(data, keyBytes)
	if err != nil {
		return "", errors.Wrap(err, "Unable to decrypt card token")
	}
	return string(decrypted), nil
}

func uuidToBytes(key uuid.UUID) ([]byte, error) {
	bytes, err := key.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to convert encryption key (uuid) to bytes")
	}
	return bytes, nil
}

func encrypt(data []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

func decrypt(data []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("card token is too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
