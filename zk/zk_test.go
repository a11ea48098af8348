package zk

import (
	"testing"

	"github.com/google/uuid"
)

func TestEncryptDecryptCard(t *testing.T) {
	key := uuid.New()
	token, err := EncryptCard("A♠", key)
	if err != nil {
		t.Fatalf("EncryptCard failed: %v", err)
	}
	if token == "A♠" {
		t.Error("token should not be the plaintext card")
	}
	card, err := DecryptCard(token, key)
	if err != nil {
		t.Fatalf("DecryptCard failed: %v", err)
	}
	if card != "A♠" {
		t.Errorf("expected A♠, got %s", card)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	token, err := EncryptCard("K♥", uuid.New())
	if err != nil {
		t.Fatalf("EncryptCard failed: %v", err)
	}
	if _, err := DecryptCard(token, uuid.New()); err == nil {
		t.Error("expected decryption with the wrong key to fail")
	}
}

func TestDecryptGarbageToken(t *testing.T) {
	if _, err := DecryptCard("not base64 %%%", uuid.New()); err == nil {
		t.Error("expected an error for a malformed token")
	}
	if _, err := DecryptCard("YWJj", uuid.New()); err == nil {
		t.Error("expected an error for a truncated token")
	}
}

func TestEncryptionIsNonDeterministic(t *testing.T) {
	key := uuid.New()
	token1, err := EncryptCard("7♦", key)
	if err != nil {
		t.Fatalf("EncryptCard failed: %v", err)
	}
	token2, err := EncryptCard("7♦", key)
	if err != nil {
		t.Fatalf("EncryptCard failed: %v", err)
	}
	if token1 == token2 {
		t.Error("expected distinct nonces to produce distinct tokens")
	}
}

func TestPoseidonHashDeterministic(t *testing.T) {
	h1 := PoseidonHash("A♠,K♠,Q♠")
	h2 := PoseidonHash("A♠,K♠,Q♠")
	if h1 != h2 {
		t.Error("hash should be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("expected a 64 hex char digest, got %d chars", len(h1))
	}
	if h1 == PoseidonHash("A♠,K♠,Q♥") {
		t.Error("different inputs should not collide")
	}
}

type proofPayload struct {
	Cards      []string `json:"cards"`
	Commitment string   `json:"commitment"`
}

func TestCreateAndVerifyProof(t *testing.T) {
	payload := proofPayload{
		Cards:      []string{"A♠", "K♦"},
		Commitment: PoseidonHash("deck"),
	}
	proof := CreateProof(payload)
	if proof.Proof == "" || proof.PublicSignals.Commitment == "" {
		t.Fatal("proof fields should be populated")
	}
	if !VerifyProof(payload, proof) {
		t.Error("proof should verify against its own payload")
	}

	tampered := payload
	tampered.Cards = []string{"A♠", "K♥"}
	if VerifyProof(tampered, proof) {
		t.Error("proof should not verify against a tampered payload")
	}
}

func TestCreateProofDeterministic(t *testing.T) {
	payload := proofPayload{Cards: []string{"2♣", "3♣"}, Commitment: "c"}
	if CreateProof(payload) != CreateProof(payload) {
		t.Error("identical payloads should produce identical proofs")
	}
}
