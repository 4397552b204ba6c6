package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonDigitRegexp = regexp.MustCompile(`\D`)
)

// OnlyDigits убирает из строки все символы кроме цифр
func OnlyDigits(str string) string {
	return nonDigitRegexp.ReplaceAllString(str, "")
}

// IsValidCPF проверяет бразильский CPF: 11 цифр и две контрольные цифры по модулю 11.
// Формат на входе свободный, маска "529.982.247-25" допустима
func IsValidCPF(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}

	// CPF из одинаковых цифр проходит контрольную сумму, но невалиден
	if strings.Count(digits, string(digits[0])) == 11 {
		return false
	}

	nums := make([]int, 11)
	for i, r := range digits {
		nums[i] = int(r - '0')
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += nums[i] * (10 - i)
	}
	if nums[9] != sum*10%11%10 {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += nums[i] * (11 - i)
	}
	return nums[10] == sum*10%11%10
}

func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// IsValidPhone проверяет бразильский номер телефона: 10 цифр для городского, 11 для мобильного
func IsValidPhone(phone string) bool {
	digits := OnlyDigits(phone)
	return len(digits) == 10 || len(digits) == 11
}
