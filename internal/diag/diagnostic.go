package diag

type Diagnostic struct {
	Severity Severity
	Code     Code
	Module   string
	Message  string
}
