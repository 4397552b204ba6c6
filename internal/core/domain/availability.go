package domain

import (
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
)

// TimeWindow - полуоткрытый интервал [Start, End) внутри одного дня
type TimeWindow struct {
	Start json_types.TimeOfDay `json:"start"`
	End   json_types.TimeOfDay `json:"end"`
}

// Overlaps проверяет пересечение интервалов [s1,e1) и [s2,e2): s1 < e2 && s2 < e1.
// Соприкосновение границ пересечением не считается
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Minutes < other.End.Minutes && other.Start.Minutes < w.End.Minutes
}

// Contains проверяет, что other целиком лежит внутри окна
func (w TimeWindow) Contains(other TimeWindow) bool {
	return w.Start.Minutes <= other.Start.Minutes && other.End.Minutes <= w.End.Minutes
}

func (w TimeWindow) DurationMinutes() int {
	return w.End.Minutes - w.Start.Minutes
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
