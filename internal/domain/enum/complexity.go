package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Complexity grades how involved a recipe is to produce
type Complexity int

const (
	ComplexityLow    Complexity = 0
	ComplexityMedium Complexity = 1
	ComplexityHigh   Complexity = 2
)

func (c Complexity) String() string {
	names := [...]string{"Low", "Medium", "High"}
	if int(c) < 0 || int(c) >= len(names) {
		return "Low"
	}
	return names[c]
}

// ParseComplexity accepts the names case-insensitively.
func ParseComplexity(s string) (Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "":
		return ComplexityLow, nil
	case "medium":
		return ComplexityMedium, nil
	case "high":
		return ComplexityHigh, nil
	}
	return ComplexityLow, fmt.Errorf("unknown complexity %q", s)
}

func (c Complexity) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Complexity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*c = Complexity(i)
		return nil
	}
	parsed, err := ParseComplexity(str)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Complexity) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Complexity) Scan(value interface{}) error {
	if value == nil {
		*c = ComplexityLow
		return nil
	}
	switch v := value.(type) {
	case int64:
		*c = Complexity(v)
	case int32:
		*c = Complexity(v)
	case int:
		*c = Complexity(v)
	}
	return nil
}
