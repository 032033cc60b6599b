package nyxlog

import "testing"

func TestMakeRecordShortPayload(t *testing.T) {
	r := MakeRecord(Info, 123, []byte("hello"))
	if r.Len != 5 {
		t.Fatalf("Len = %d, want 5", r.Len)
	}
	if string(r.Bytes()) != "hello" {
		t.Errorf("Bytes() = %q, want %q", r.Bytes(), "hello")
	}
	if r.Truncated() {
		t.Errorf("Truncated() = true for a short payload")
	}
}

func TestMakeRecordEmptyPayload(t *testing.T) {
	r := MakeRecord(Debug, 0, nil)
	if r.Len != 0 {
		t.Errorf("Len = %d, want 0", r.Len)
	}
}

func TestMakeRecordTruncation(t *testing.T) {
	big := make([]byte, payloadCapacity+500)
	for i := range big {
		big[i] = 'a'
	}
	r := MakeRecord(Error, 0, big)

	if r.Len != payloadCapacity {
		t.Fatalf("Len = %d, want %d", r.Len, payloadCapacity)
	}
	if !r.Truncated() {
		t.Errorf("Truncated() = false, want true")
	}
	got := r.Bytes()
	if string(got[len(got)-len(truncatedSuffix):]) != truncatedSuffix {
		t.Errorf("payload does not end with %q: %q", truncatedSuffix, got)
	}
}

func TestMakeRecordExactCapacityNotTruncated(t *testing.T) {
	exact := make([]byte, payloadCapacity)
	for i := range exact {
		exact[i] = 'b'
	}
	r := MakeRecord(Warn, 0, exact)
	if r.Len != payloadCapacity {
		t.Fatalf("Len = %d, want %d", r.Len, payloadCapacity)
	}
}
