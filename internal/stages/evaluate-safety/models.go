// internal/stages/evaluate-safety/models.go
package evaluatesafety

type Input struct {
	Text string `json:"text"`
}

// Output is the SafetyResult for one request. Category is set only
// when Blocked is true and names the pattern group that fired.
type Output struct {
	Blocked  bool   `json:"blocked"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}
