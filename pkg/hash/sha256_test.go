package hash

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sha256("abc")
const abc = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestIncremental(t *testing.T) {
	h := New()
	for _, part := range []string{"a", "b", "c"} {
		if err := h.Add([]byte(part)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	d, err := h.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if d.String() != abc {
		t.Errorf("Expected %s, got %s", abc, d)
	}

	if err := h.Add([]byte("more")); !errors.Is(err, ErrFinished) {
		t.Errorf("Expected ErrFinished from Add, got %v", err)
	}
	if _, err := h.Finish(); !errors.Is(err, ErrFinished) {
		t.Errorf("Expected ErrFinished from Finish, got %v", err)
	}
}

func TestComputeVariants(t *testing.T) {
	want, _ := Parse(abc)

	if !Equal(Compute([]byte("abc")), want) {
		t.Errorf("Compute mismatch")
	}
	if !Equal(ComputeString("abc"), want) {
		t.Errorf("ComputeString mismatch")
	}

	d, err := ComputeReader(strings.NewReader("abc"))
	if err != nil || !Equal(d, want) {
		t.Errorf("ComputeReader mismatch: %v %v", d, err)
	}

	details, err := ComputeDetails(bytes.NewReader([]byte("abc")))
	if err != nil {
		t.Fatal(err)
	}
	if details.Size != 3 || !Equal(details.Hash, want) {
		t.Errorf("Unexpected details: %+v", details)
	}

	path := filepath.Join(t.TempDir(), "abc.txt")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	d, err = ComputeFile(path)
	if err != nil || !Equal(d, want) {
		t.Errorf("ComputeFile mismatch: %v %v", d, err)
	}
}

func TestComputeFileMissing(t *testing.T) {
	if _, err := ComputeFile(filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse(strings.ToUpper(abc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.String() != abc {
		t.Errorf("Expected lower-case round trip, got %s", d)
	}

	for _, bad := range []string{"", "abc", strings.Repeat("zz", Size)} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestEqual(t *testing.T) {
	a := ComputeString("a")
	b := ComputeString("b")
	if Equal(a, b) {
		t.Errorf("Different digests compared equal")
	}
	if !Equal(a, ComputeString("a")) {
		t.Errorf("Same digests compared unequal")
	}
}
