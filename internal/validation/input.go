package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MaxJobDescriptionLength = 5000
	MinNameLength           = 2
	MaxNameLength           = 100
	MaxLocationLength       = 100
	MaxPayLength            = 100
	MaxSkillsCount          = 12
	MinWorkersNeeded        = 1
	MaxWorkersNeeded        = 100
	MinDuration             = 1
	MaxDuration             = 365
	MinPhoneDigits          = 7
	MaxPhoneDigits          = 15
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]+$`)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateRange проверяет, что целое число лежит в границах.
func ValidateRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s должно быть от %d до %d", fieldName, min, max)
	}
	return nil
}

// NormalizePhone убирает пробелы, дефисы, точки и скобки.
// Телефон служит ключом поиска работника: один номер в разной записи должен совпадать.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			// Недопустимый символ оставляем, чтобы ValidatePhone его отклонил
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone проверяет уже нормализованный номер телефона.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("телефон обязателен")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("телефон может содержать только цифры и ведущий +")
	}
	digits := len(strings.TrimPrefix(phone, "+"))
	if digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return fmt.Errorf("телефон должен содержать от %d до %d цифр", MinPhoneDigits, MaxPhoneDigits)
	}
	return nil
}

// ValidatePersonName проверяет имя заказчика или работника.
func ValidatePersonName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", name, MinNameLength, MaxNameLength)
}

// ValidateJobTitle проверяет название задания.
func ValidateJobTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("название задания обязательно")
	}
	return ValidateLength("название задания", title, MinJobTitleLength, MaxJobTitleLength)
}

// ValidateJobDescription проверяет описание задания.
func ValidateJobDescription(description string) error {
	return ValidateLength("описание задания", strings.TrimSpace(description), 0, MaxJobDescriptionLength)
}

// ValidateLocation проверяет местоположение. Пустое значение допускается, если required=false.
func ValidateLocation(location string, required bool) error {
	location = strings.TrimSpace(location)
	if required && location == "" {
		return fmt.Errorf("местоположение обязательно")
	}
	return ValidateLength("местоположение", location, 0, MaxLocationLength)
}

// ValidatePay проверяет описание оплаты.
func ValidatePay(pay string) error {
	pay = strings.TrimSpace(pay)
	if pay == "" {
		return fmt.Errorf("оплата обязательна")
	}
	return ValidateLength("оплата", pay, 0, MaxPayLength)
}

// ValidateSkillsCount ограничивает количество навыков.
func ValidateSkillsCount(count int) error {
	if count > MaxSkillsCount {
		return fmt.Errorf("можно указать не более %d навыков", MaxSkillsCount)
	}
	return nil
}

// ValidateWorkersNeeded проверяет количество требуемых работников.
func ValidateWorkersNeeded(n int) error {
	return ValidateRange("количество работников", n, MinWorkersNeeded, MaxWorkersNeeded)
}

// ValidateDuration проверяет длительность задания.
func ValidateDuration(n int) error {
	return ValidateRange("длительность", n, MinDuration, MaxDuration)
}
