package diag

import "testing"

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{UnknownCode, "MC0000"},
		{FrontTypeError, "MC1001"},
		{SchedDuplicateName, "MC3002"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Fatalf("Code(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Diagnostic{Code: SchedInfo}) {
		t.Fatal("first Add() rejected")
	}
	if !bag.Add(Diagnostic{Code: SchedInfo}) {
		t.Fatal("second Add() rejected")
	}
	if bag.Add(Diagnostic{Code: SchedInfo}) {
		t.Fatal("Add() beyond the limit accepted")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bag.Len())
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Severity: SevInfo, Code: SchedDuplicateName, Module: "b", Message: "dup"})
	bag.Add(Diagnostic{Severity: SevError, Code: FrontTypeError, Module: "b", Message: "type"})
	bag.Add(Diagnostic{Severity: SevWarning, Code: SchedNothingMatched, Module: "a", Message: "none"})

	bag.Sort()
	items := bag.Items()
	if items[0].Module != "a" {
		t.Fatalf("items[0].Module = %q, want a", items[0].Module)
	}
	// Within a module, errors come before infos.
	if items[1].Severity != SevError || items[2].Severity != SevInfo {
		t.Fatalf("severity order = %v, %v", items[1].Severity, items[2].Severity)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	d := Diagnostic{Severity: SevInfo, Code: SchedDuplicateName, Module: "m", Message: "dup"}
	bag.Add(d)
	bag.Add(d)
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("Len() after Dedup = %d, want 1", bag.Len())
	}
}

func TestBagReporter(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag}
	ReportError(r, FrontTypeError, "m", "boom")
	ReportWarning(r, SchedNothingMatched, "", "empty")
	ReportInfo(r, SchedMissingPinned, "core.main", "skipped")

	if bag.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("HasErrors() = false")
	}

	// A nil bag must be safe.
	BagReporter{}.Report(UnknownCode, SevInfo, "", "dropped")
	NopReporter{}.Report(UnknownCode, SevInfo, "", "dropped")
}
