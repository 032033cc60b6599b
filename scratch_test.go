package nyxlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveAllocationStrategyPassesThroughExplicit(t *testing.T) {
	if got := resolveAllocationStrategy(AllocDynamic); got != AllocDynamic {
		t.Errorf("AllocDynamic resolved to %v", got)
	}
	if got := resolveAllocationStrategy(AllocZero); got != AllocZero {
		t.Errorf("AllocZero resolved to %v", got)
	}
}

func TestResolveAllocationStrategyAutoPicksConcreteValue(t *testing.T) {
	got := resolveAllocationStrategy(AllocAuto)
	if got != AllocDynamic && got != AllocZero {
		t.Errorf("AllocAuto resolved to non-concrete strategy %v", got)
	}
}

func TestFormattingScratchRenderZeroAlloc(t *testing.T) {
	fs := newFormattingScratch(AllocZero, defaultTLSFormatBufferSize)
	r := MakeRecord(Info, 1, []byte("hello"))

	var out []byte
	err := fs.render(&r, func(line []byte) error {
		out = append(out, line...)
		return nil
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(out, []byte("hello")) {
		t.Errorf("rendered line missing payload: %q", out)
	}
}

func TestFormattingScratchRenderDynamic(t *testing.T) {
	fs := newFormattingScratch(AllocDynamic, defaultTLSFormatBufferSize)
	r := MakeRecord(Error, 2, []byte("boom"))

	var got string
	err := fs.render(&r, func(line []byte) error {
		got = string(line)
		return nil
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "boom") || !strings.Contains(got, "ERROR") {
		t.Errorf("rendered line = %q, missing expected content", got)
	}
}

func TestFormattingScratchReentrantRenderDoesNotCorrupt(t *testing.T) {
	fs := newFormattingScratch(AllocZero, defaultTLSFormatBufferSize)
	outer := MakeRecord(Info, 10, []byte("outer"))
	inner := MakeRecord(Warn, 20, []byte("inner"))

	var outerLine, innerLine string
	err := fs.render(&outer, func(line []byte) error {
		// Reentrant render while the first is still "in flight".
		return fs.render(&inner, func(l2 []byte) error {
			innerLine = string(l2)
			outerLine = string(line)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(outerLine, "outer") {
		t.Errorf("outer line corrupted by reentrant render: %q", outerLine)
	}
	if !strings.Contains(innerLine, "inner") {
		t.Errorf("inner line missing payload: %q", innerLine)
	}
}

func TestUtf16ScratchLazyAllocationIsStable(t *testing.T) {
	fs := newFormattingScratch(AllocZero, defaultTLSFormatBufferSize)
	a := fs.utf16Scratch()
	b := fs.utf16Scratch()
	if &a[0] != &b[0] {
		t.Errorf("utf16Scratch reallocated on second call")
	}
}
