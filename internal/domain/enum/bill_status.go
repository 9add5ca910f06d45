package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BillStatus represents the lifecycle state of a bill
type BillStatus int

const (
	BillStatusPaid      BillStatus = 0
	BillStatusCancelled BillStatus = 1
)

func (s BillStatus) String() string {
	names := [...]string{"Paid", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Paid"
	}
	return names[s]
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "Paid":
		*s = BillStatusPaid
	case "Cancelled":
		*s = BillStatusCancelled
	default:
		return fmt.Errorf("unknown bill status %q", str)
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusPaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int32:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
