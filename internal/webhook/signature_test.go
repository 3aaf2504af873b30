package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignatureAccepts(t *testing.T) {
	body := []byte(`{"action":"created"}`)
	if !VerifySignature(body, sign("s3cret", body), "s3cret") {
		t.Fatalf("expected valid signature to be accepted")
	}
}

func TestVerifySignatureRejectsMutatedBody(t *testing.T) {
	body := []byte(`{"action":"created"}`)
	header := sign("s3cret", body)

	mutated := append([]byte(nil), body...)
	mutated[0] ^= 0x01
	if VerifySignature(mutated, header, "s3cret") {
		t.Fatalf("expected mutated body to be rejected")
	}
}

func TestVerifySignatureRejectsMutatedHeader(t *testing.T) {
	body := []byte(`{"action":"created"}`)
	header := sign("s3cret", body)

	mutated := []byte(header)
	mutated[len(mutated)-1] ^= 0x01
	if VerifySignature(body, string(mutated), "s3cret") {
		t.Fatalf("expected mutated header to be rejected")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"action":"created"}`)
	if VerifySignature(body, sign("other", body), "s3cret") {
		t.Fatalf("expected signature from wrong secret to be rejected")
	}
}

func TestVerifySignatureRejectsMissingHeader(t *testing.T) {
	if VerifySignature([]byte("{}"), "", "s3cret") {
		t.Fatalf("expected empty header to be rejected")
	}
}

func TestVerifySignatureRejectsHeaderWithoutSeparator(t *testing.T) {
	// A header with no '=' separator is an invalid signature, not a crash.
	for _, header := range []string{"sha256", "garbage", "sha256garbage"} {
		if VerifySignature([]byte("{}"), header, "s3cret") {
			t.Fatalf("expected header %q to be rejected", header)
		}
	}
}
