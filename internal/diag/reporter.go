package diag

// Reporter — минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, module string, msg string)
}

// BagReporter складывает диагностики в Bag.
type BagReporter struct {
	Bag *Bag
}

// Report implements Reporter.
func (r BagReporter) Report(code Code, sev Severity, module string, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Module:   module,
		Message:  msg,
	})
}

// NopReporter отбрасывает все диагностики.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Code, Severity, string, string) {}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, module string, msg string) {
	r.Report(code, SevError, module, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, module string, msg string) {
	r.Report(code, SevWarning, module, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, module string, msg string) {
	r.Report(code, SevInfo, module, msg)
}
