package diag

import "encoding/json"

// encoded is the JSON wire shape for a Diagnostic, consumed by the LSP
// collaborator (out of core scope) for `textDocument/publishDiagnostics`.
type encoded struct {
	Schema  string `json:"schema"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Length  int    `json:"length"`
	Hint    string `json:"hint,omitempty"`
}

// ToJSON renders d as deterministic, schema-tagged JSON.
func (d Diagnostic) ToJSON() (string, error) {
	e := encoded{
		Schema:  "ferrule.diagnostic/v1",
		Level:   d.Level.String(),
		Code:    string(d.Code),
		Phase:   d.Code.Phase(),
		Message: d.Message,
		File:    d.Span.File,
		Line:    d.Span.Line,
		Column:  d.Span.Column,
		Length:  d.Span.Length,
		Hint:    d.Hint,
	}
	bytes, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ToJSON renders every diagnostic in r as a JSON array, in source order.
func (r *Report) ToJSON() (string, error) {
	diags := r.SortedBySpan()
	encodedAll := make([]encoded, len(diags))
	for i, d := range diags {
		encodedAll[i] = encoded{
			Schema:  "ferrule.diagnostic/v1",
			Level:   d.Level.String(),
			Code:    string(d.Code),
			Phase:   d.Code.Phase(),
			Message: d.Message,
			File:    d.Span.File,
			Line:    d.Span.Line,
			Column:  d.Span.Column,
			Length:  d.Span.Length,
			Hint:    d.Hint,
		}
	}
	bytes, err := json.Marshal(encodedAll)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
