package validator

import (
	"log"
	"strings"

	"innerai_backend/internal/utils"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила формы
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'notblank': строка не пустая после обрезки пробелов
	mustRegister("notblank", validateNotBlank)

	// 'datetime-input': пустое значение или дата, которую понимает utils.NormalizeDateTime
	mustRegister("datetime-input", validateDateTimeInput)

	// 'option-type': тип справочника из /api/options/:type
	mustRegister("option-type", validateOptionType)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateDateTimeInput(fl validator.FieldLevel) bool {
	_, err := utils.NormalizeDateTime(fl.Field().String())
	return err == nil
}

func validateOptionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "client", "vendor", "product", "tag":
		return true
	default:
		return false
	}
}
