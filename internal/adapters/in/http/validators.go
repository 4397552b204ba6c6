package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinicore/medical-automation-api/internal/utils"
)

// RegisterCustomValidators добавляет в gin-движок валидации теги
// cpf и brphone для полей пациента
func RegisterCustomValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := engine.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return utils.IsValidCPF(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := engine.RegisterValidation("brphone", func(fl validator.FieldLevel) bool {
		return utils.IsValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}

	return nil
}
