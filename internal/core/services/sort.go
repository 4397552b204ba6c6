package services

import "github.com/clinicore/medical-automation-api/internal/core/domain"

type TimeWindowSlice []domain.TimeWindow

// quickSort сортирует окна по возрастанию времени начала
func (s TimeWindowSlice) quickSort() TimeWindowSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	// Разделяем слайс на три части
	less := TimeWindowSlice{}
	equal := TimeWindowSlice{}
	greater := TimeWindowSlice{}

	for _, window := range s {
		if window.Start.Before(pivot.Start) {
			less = append(less, window)
		} else if window.Start.Equal(pivot.Start) {
			equal = append(equal, window)
		} else {
			greater = append(greater, window)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
