// Package cpp holds the C++ side of the translator: the memory-model
// selection, identifier mangling, type lowering and the statement/expression
// generator the emission phases delegate to.
package cpp

import (
	"fmt"
	"strings"
)

// MemoryModel selects between the two mutually exclusive emission styles for
// allocation and ownership. It is resolved once before the pipeline starts
// and never changes mid-run.
type MemoryModel uint8

const (
	// ModelManual emits raw pointers and plain new-expressions against the
	// mylib runtime.
	ModelManual MemoryModel = iota
	// ModelGC emits rooted locals and Alloc<T> against the gc_heap runtime.
	ModelGC
)

func (m MemoryModel) String() string {
	switch m {
	case ModelManual:
		return "manual"
	case ModelGC:
		return "gc"
	}
	return "unknown"
}

// ParseMemoryModel converts a string to a MemoryModel.
func ParseMemoryModel(s string) (MemoryModel, error) {
	switch strings.ToLower(s) {
	case "manual", "":
		return ModelManual, nil
	case "gc":
		return ModelGC, nil
	default:
		return ModelManual, fmt.Errorf("invalid memory model: %q (expected: manual|gc)", s)
	}
}

// RuntimeHeader returns the runtime-support include written at the top of
// every output stream.
func (m MemoryModel) RuntimeHeader() string {
	if m == ModelGC {
		return "gc_heap.h"
	}
	return "mylib.h"
}

// LocalType returns the declaration type for a local binding. Under the GC
// model pointer-typed locals become rooted Local<T> handles.
func (m MemoryModel) LocalType(ctype string) string {
	if m == ModelGC && strings.HasSuffix(ctype, "*") {
		return "Local<" + strings.TrimSuffix(ctype, "*") + ">"
	}
	return ctype
}

// AllocExpr returns the instantiation expression for a class.
func (m MemoryModel) AllocExpr(class string, args string) string {
	if m == ModelGC {
		return "Alloc<" + class + ">(" + args + ")"
	}
	return "new " + class + "(" + args + ")"
}
