package expense

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// MonthAmounts maps a month index (0-11) to an override amount in cents.
// Stored as JSONB; JSON object keys are strings, which encoding/json handles
// for integer-keyed maps.
type MonthAmounts map[int]int64

func (m MonthAmounts) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MonthAmounts) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// SeasonAmounts maps a season label (winter/spring/summer/fall) to an
// override amount in cents.
type SeasonAmounts map[string]int64

func (s SeasonAmounts) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SeasonAmounts) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// MonthList is a JSONB-persisted list of month indices.
type MonthList []int

func (l MonthList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *MonthList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON scan")
	}
}

// Expense is the persistence model for a sponsorable monthly operating cost.
type Expense struct {
	ID               string        `json:"id" gorm:"primaryKey"`
	Name             string        `json:"name" gorm:"not null"`
	Description      string        `json:"description"`
	AmountCents      int64         `json:"amount_cents" gorm:"column:amount_cents;not null"`
	IsHighPriority   bool          `json:"is_high_priority" gorm:"column:is_high_priority"`
	IsFlexible       bool          `json:"is_flexible" gorm:"column:is_flexible"`
	SeasonalAmounts  SeasonAmounts `json:"seasonal_amounts,omitempty" gorm:"column:seasonal_amounts;type:jsonb"`
	HasSpecialMonths bool          `json:"has_special_months" gorm:"column:has_special_months"`
	SpecialMonths    MonthList     `json:"special_months,omitempty" gorm:"column:special_months;type:jsonb"`
	MonthlyAmounts   MonthAmounts  `json:"monthly_amounts,omitempty" gorm:"column:monthly_amounts;type:jsonb"`
	Position         int           `json:"position" gorm:"column:position"`
	CreatedAt        time.Time     `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
