package diagnostic

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: CategoryMissingID,
		Subject:  "example.com/shop/domain.Invoice",
		Message:  "no identifier property found on the type or its bases",
		Hint:     "add an Id property or set missingId: defaultGuid",
	}

	s := d.String()
	if !strings.Contains(s, "example.com/shop/domain.Invoice") {
		t.Errorf("expected subject, got %q", s)
	}
	if !strings.Contains(s, "warning") {
		t.Errorf("expected 'warning', got %q", s)
	}
	if !strings.Contains(s, "[missing-id]") {
		t.Errorf("expected category, got %q", s)
	}
	if !strings.Contains(s, "hint:") {
		t.Errorf("expected hint, got %q", s)
	}
}

func TestDiagnostic_StringWithoutSubject(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Category: CategoryPolicyInvalid,
		Message:  "missingId must be fail or defaultGuid",
	}

	s := d.String()
	if strings.Contains(s, " - ") {
		t.Errorf("expected no subject separator, got %q", s)
	}
	if !strings.HasPrefix(s, "error:") {
		t.Errorf("expected severity prefix, got %q", s)
	}
}

func TestCollector_WarnAndError(t *testing.T) {
	c := NewCollector(false, false)
	c.Warnf(CategoryNoCreateMechanism, "domain.Order", "no public creation mechanism")
	c.Errorf(CategoryMissingID, "domain.Order", "no identifier property")

	if c.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", c.WarningCount())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", c.ErrorCount())
	}
	if !c.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

func TestCollector_StrictPromotesWarnings(t *testing.T) {
	c := NewCollector(true, false)
	c.Warnf(CategoryRootRejected, "domain.Draft", "base list does not name a root marker")

	if c.ErrorCount() != 1 {
		t.Errorf("expected strict warning to become an error, got %d errors", c.ErrorCount())
	}
	if c.WarningCount() != 0 {
		t.Errorf("expected 0 warnings in strict mode, got %d", c.WarningCount())
	}
}

func TestCollector_QuietSuppressesWarnings(t *testing.T) {
	c := NewCollector(false, true)
	c.Warnf(CategoryNoCreateMechanism, "domain.Order", "suppressed")
	c.Infof(CategoryTypeUnsupported, "domain.Order", "suppressed too")
	c.Errorf(CategoryOutputConflict, "out/order.json", "errors always recorded")

	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected only the error to be recorded, got %d", len(c.Diagnostics()))
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	c := NewCollector(false, false)

	const workers = 8
	const perWorker = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				subject := fmt.Sprintf("domain.Type%d_%d", w, i)
				c.Warnf(CategoryNoCreateMechanism, subject, "no public creation mechanism")
				c.Errorf(CategoryMissingID, subject, "no identifier property")
			}
		}(w)
	}
	wg.Wait()

	if got := c.WarningCount(); got != workers*perWorker {
		t.Errorf("expected %d warnings, got %d", workers*perWorker, got)
	}
	if got := c.ErrorCount(); got != workers*perWorker {
		t.Errorf("expected %d errors, got %d", workers*perWorker, got)
	}
	if got := len(c.Diagnostics()); got != 2*workers*perWorker {
		t.Errorf("expected %d diagnostics, got %d", 2*workers*perWorker, got)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Warnf(CategoryRootRejected, "x", "ignored")
	c.Errorf(CategoryMissingID, "x", "ignored")

	if c.HasErrors() {
		t.Error("nil collector must report no errors")
	}
	if c.Summary() != "" {
		t.Errorf("nil collector summary must be empty, got %q", c.Summary())
	}
}

func TestCollector_FormatAllAndSummary(t *testing.T) {
	c := NewCollector(false, false)
	if c.Summary() != "no issues" {
		t.Errorf("expected 'no issues', got %q", c.Summary())
	}

	c.Warnf(CategoryNoCreateMechanism, "domain.Order", "first")
	c.Warnf(CategoryNoCreateMechanism, "domain.Invoice", "second")
	c.Errorf(CategoryMissingID, "domain.Payment", "third")

	out := c.FormatAll()
	if strings.Count(out, "\n") != 3 {
		t.Errorf("expected 3 lines, got %q", out)
	}
	if c.Summary() != "1 error(s), 2 warning(s)" {
		t.Errorf("unexpected summary %q", c.Summary())
	}
}
