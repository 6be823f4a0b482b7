package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CopyStatus is the shelf state of a single book copy.
type CopyStatus int

const (
	CopyStatusAvailable CopyStatus = 0
	CopyStatusIssued    CopyStatus = 1
	CopyStatusScrapped  CopyStatus = 2
)

var copyStatusNames = [...]string{"Available", "Issued", "Scrapped"}

func (s CopyStatus) String() string {
	if s < 0 || int(s) >= len(copyStatusNames) {
		return fmt.Sprintf("CopyStatus(%d)", int(s))
	}
	return copyStatusNames[s]
}

func (s CopyStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CopyStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CopyStatus(i)
		return nil
	}
	parsed, err := ParseCopyStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseCopyStatus maps a status name to its value.
func ParseCopyStatus(str string) (CopyStatus, error) {
	for i, name := range copyStatusNames {
		if name == str {
			return CopyStatus(i), nil
		}
	}
	return CopyStatusAvailable, fmt.Errorf("unknown copy status %q", str)
}

func (s CopyStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CopyStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CopyStatusAvailable
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CopyStatus(v)
	case int:
		*s = CopyStatus(v)
	}
	return nil
}

// CopyStatuses lists every status in display order.
func CopyStatuses() []CopyStatus {
	return []CopyStatus{CopyStatusAvailable, CopyStatusIssued, CopyStatusScrapped}
}
