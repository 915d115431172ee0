package storageutil

import (
	"bytes"
	"testing"

	"github.com/perfsnap/perfsnap/internal/testutil"
)

type payload struct {
	Frames []string `json:"frames"`
	Totals []uint64 `json:"totals"`
}

func TestCompressedRoundTrip(t *testing.T) {
	original := payload{
		Frames: []string{"main", "foo", "bar"},
		Totals: []uint64{100, 90, 10},
	}

	var buf bytes.Buffer
	if err := CompressedWrite(&buf, original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// lz4 frame magic number
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x04, 0x22, 0x4d, 0x18}) {
		t.Fatal("payload should be lz4-framed")
	}

	var decoded payload
	if err := UnmarshalCompressed(bytes.NewReader(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := testutil.Diff(decoded, original); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestUnmarshalCompressedRejectsRawJSON(t *testing.T) {
	var decoded payload
	err := UnmarshalCompressed(bytes.NewReader([]byte(`{"frames":[]}`)), &decoded)
	if err == nil {
		t.Fatal("expected an error for a payload that is not lz4-framed")
	}
}
