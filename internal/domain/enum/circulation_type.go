package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CirculationType says whether copies went out to or came back from a member.
type CirculationType int

const (
	CirculationTypeIssue  CirculationType = 0
	CirculationTypeReturn CirculationType = 1
)

var circulationTypeNames = [...]string{"Issue", "Return"}

func (t CirculationType) String() string {
	if t < 0 || int(t) >= len(circulationTypeNames) {
		return fmt.Sprintf("CirculationType(%d)", int(t))
	}
	return circulationTypeNames[t]
}

func (t CirculationType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CirculationType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = CirculationType(i)
		return nil
	}
	for i, name := range circulationTypeNames {
		if name == str {
			*t = CirculationType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown circulation type %q", str)
}

func (t CirculationType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CirculationType) Scan(value interface{}) error {
	if value == nil {
		*t = CirculationTypeIssue
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = CirculationType(v)
	case int:
		*t = CirculationType(v)
	}
	return nil
}

// SequenceKind returns the document-number sequence used by this type.
func (t CirculationType) SequenceKind() string {
	if t == CirculationTypeReturn {
		return "return"
	}
	return "issue"
}
