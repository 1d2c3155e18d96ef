package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a custom type for handling JSONB string arrays in PostgreSQL.
// Used for salon service lists such as ["Haircut", "Facial", "Spa"].
type StringList []string

// Value implements the driver.Valuer interface. A nil list serializes to
// an empty JSON array so the column never receives NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
}
