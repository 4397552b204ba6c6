package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date - календарная дата без времени и таймзоны
type Date struct {
	Date time.Time
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(str string) (Date, error) {
	parsedDate, err := time.Parse(dateLayout, str)
	// Если не удалось, пробуем дату со временем
	if err != nil {
		parsedDate, err = time.Parse(time.RFC3339, str)
		if err != nil {
			parsedDate, err = time.Parse("2006-01-02T15:04:05", str)
			if err != nil {
				return Date{}, fmt.Errorf("failed to parse date: %v", err)
			}
		}
	}

	return NewDate(parsedDate), nil
}

func (t *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("failed to parse date: %s", string(data))
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedDate, err := ParseDate(str)
	if err != nil {
		return err
	}

	*t = parsedDate
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format(dateLayout))
}

func (t Date) String() string {
	return t.Date.Format(dateLayout)
}

func (t Date) IsZero() bool {
	return t.Date.IsZero()
}

func (t Date) Weekday() time.Weekday {
	return t.Date.Weekday()
}

func (t Date) Equal(other Date) bool {
	return t.Date.Equal(other.Date)
}

// Before сравнивает календарные дни, игнорируя таймзону аргумента
func (t Date) Before(other time.Time) bool {
	day := time.Date(other.Year(), other.Month(), other.Day(), 0, 0, 0, 0, time.UTC)
	return t.Date.Before(day)
}
