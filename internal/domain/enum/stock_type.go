package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StockType distinguishes stock entries that add copies from those that
// write them off.
type StockType int

const (
	StockTypePurchase StockType = 0
	StockTypeScrap    StockType = 1
)

var stockTypeNames = [...]string{"Purchase", "Scrap"}

func (s StockType) String() string {
	if s < 0 || int(s) >= len(stockTypeNames) {
		return fmt.Sprintf("StockType(%d)", int(s))
	}
	return stockTypeNames[s]
}

func (s StockType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StockType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = StockType(i)
		return nil
	}
	for i, name := range stockTypeNames {
		if name == str {
			*s = StockType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stock type %q", str)
}

func (s StockType) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *StockType) Scan(value interface{}) error {
	if value == nil {
		*s = StockTypePurchase
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = StockType(v)
	case int:
		*s = StockType(v)
	}
	return nil
}

// SequenceKind returns the document-number sequence used by this stock type.
func (s StockType) SequenceKind() string {
	if s == StockTypeScrap {
		return "scrap"
	}
	return "purchase"
}
