package stats

import "testing"

func TestExitStatusPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status     ExitStatus
		successful bool
		errors     bool
		cancelled  bool
		str        string
	}{
		{NoChange, true, false, false, "no-change"},
		{FilesCopied, true, false, false, "copied"},
		{FilesCopied | ExtraFiles | MismatchedItems, true, false, false, "copied|extra|mismatch"},
		{FilesCopied | CopyErrors, false, true, false, "copied|errors"},
		{SeriousError, false, true, false, "serious"},
		{Cancelled, false, false, true, "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.Successful(); got != tt.successful {
				t.Errorf("Successful() = %v, want %v", got, tt.successful)
			}
			if got := tt.status.HasErrors(); got != tt.errors {
				t.Errorf("HasErrors() = %v, want %v", got, tt.errors)
			}
			if got := tt.status.WasCancelled(); got != tt.cancelled {
				t.Errorf("WasCancelled() = %v, want %v", got, tt.cancelled)
			}
			if got := tt.status.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestCombinedStatus(t *testing.T) {
	t.Parallel()
	c := FromStatuses(FilesCopied, ExtraFiles, FilesCopied)
	if c.Flags() != FilesCopied|ExtraFiles {
		t.Errorf("Flags() = %v", c.Flags())
	}
	if !c.Successful() || c.AnyCancelled() || c.Count() != 3 {
		t.Errorf("unexpected combined status %v (count %d)", c, c.Count())
	}

	c = c.Merge(Cancelled)
	if !c.AnyCancelled() || c.Successful() {
		t.Error("cancellation should be sticky and unsuccessful")
	}
	if c.Flags() != FilesCopied|ExtraFiles {
		t.Error("cancellation must not disturb flag bits")
	}
	if c.String() != "copied|extra+cancelled" {
		t.Errorf("String() = %q", c.String())
	}

	c = c.Merge(CopyErrors)
	if !c.HasErrors() {
		t.Error("HasErrors() should report merged error bits")
	}

	var empty CombinedStatus
	if !empty.Successful() || empty.Count() != 0 {
		t.Error("empty combined status should be successful with zero count")
	}
}
