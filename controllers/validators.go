package controllers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"smartroad-be/models"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators adds the hazard report tags to gin's validator.
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("hazardtype", validateHazardType); err != nil {
			validatorsErr = err
			return
		}
		validatorsErr = v.RegisterValidation("latlng", validateLatLng)
	})
	return validatorsErr
}

func validateHazardType(fl validator.FieldLevel) bool {
	return models.HazardType(fl.Field().String()).Valid()
}

func validateLatLng(fl validator.FieldLevel) bool {
	pos, ok := fl.Field().Interface().(models.Position)
	return ok && pos.Valid()
}
