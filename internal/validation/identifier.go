package validation

import (
	"fmt"
	"regexp"
)

// IdentifierPattern определяет допустимый формат типа и ID документа
// Только латинские буквы (a-z, A-Z), цифры (0-9), дефис (-) и нижнее подчеркивание (_)
// Длина: 1-64 символа
var IdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// MaxIdentifierLen максимальная длина идентификатора
const MaxIdentifierLen = 64

// ValidateIdentifier проверяет идентификатор, который попадает в имя файла реплики
// или в query string запроса синхронизации. kind используется в тексте ошибки.
func ValidateIdentifier(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}

	if len(value) > MaxIdentifierLen {
		return fmt.Errorf("%s must not exceed %d characters", kind, MaxIdentifierLen)
	}

	if !IdentifierPattern.MatchString(value) {
		return fmt.Errorf("%s can only contain letters (a-z, A-Z), numbers (0-9), hyphens (-) and underscores (_)", kind)
	}

	return nil
}

// ValidateDocument проверяет пару (тип, ID) документа
func ValidateDocument(docType, id string) error {
	if err := ValidateIdentifier("document type", docType); err != nil {
		return err
	}
	return ValidateIdentifier("document id", id)
}

// ValidateDomain проверяет имя домена кэша из конфигурации
func ValidateDomain(domain string) error {
	return ValidateIdentifier("cache domain", domain)
}
