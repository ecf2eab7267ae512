package hash

import "testing"

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("Pass1234")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h == "Pass1234" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !Verify("Pass1234", h) {
		t.Fatalf("Verify should match the original plaintext")
	}
	if Verify("Pass1235", h) {
		t.Fatalf("Verify matched the wrong plaintext")
	}
}

func TestHash_Salted(t *testing.T) {
	h1, err := Hash("Pass1234")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	h2, err := Hash("Pass1234")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same plaintext should differ")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	if Verify("Pass1234", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash should not verify")
	}
}
