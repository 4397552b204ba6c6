package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay - время дня в минутах от полуночи, в JSON сериализуется как "15:04"
type TimeOfDay struct {
	Minutes int
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Minutes: hour*60 + minute}
}

func ParseTimeOfDay(str string) (TimeOfDay, error) {
	parsedTime, err := time.Parse("15:04", str)
	// Если не удалось, пробуем формат с секундами
	if err != nil {
		parsedTime, err = time.Parse("15:04:05", str)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("failed to parse time: %v", err)
		}
	}

	return NewTimeOfDay(parsedTime.Hour(), parsedTime.Minute()), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("failed to parse time: %s", string(data))
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedTime, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}

	*t = parsedTime
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Minutes/60, t.Minutes%60)
}

func (t TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	return TimeOfDay{Minutes: t.Minutes + minutes}
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes < other.Minutes
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Minutes == other.Minutes
}

// Valid проверяет, что время лежит в пределах суток
func (t TimeOfDay) Valid() bool {
	return t.Minutes >= 0 && t.Minutes < 24*60
}
