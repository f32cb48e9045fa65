// Package validation envuelve go-playground/validator y convierte sus errores al formato
// {campo: [mensajes]} que consume el cliente web.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Error fallo de validación con mensajes por campo. Las claves usan los nombres JSON
// ("company.eik", "items[0].quantity").
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "datos inválidos: " + strings.Join(parts, "; ")
}

// Add agrega un mensaje al campo.
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty no hay errores acumulados.
func (e *Error) Empty() bool { return len(e.Fields) == 0 }

// First primer mensaje de cada campo.
func (e *Error) First() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Field crea un Error con un solo campo.
func Field(field, msg string) *Error {
	e := &Error{}
	e.Add(field, msg)
	return e
}

// Validator validador compartido; seguro para uso concurrente una vez construido.
type Validator struct {
	v *validator.Validate
}

// New registra nombres JSON, el tipo decimal.Decimal y las reglas propias.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("eik", validateEIK)
	return &Validator{v: v}
}

// RegisterStructRule regla a nivel de struct (dependencias entre secciones).
func (val *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...interface{}) {
	val.v.RegisterStructValidation(fn, types...)
}

// Struct valida s. Devuelve *Error con los campos inválidos o nil.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validación: %w", err)
	}
	out := &Error{}
	for _, fe := range verrs {
		out.Add(fieldKey(fe.Namespace()), message(fe))
	}
	return out
}

// fieldKey quita el nombre del struct raíz del namespace.
func fieldKey(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "Полето е задължително"
	case "email":
		return "Невалиден имейл адрес"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Минимум %s символа", fe.Param())
		}
		return fmt.Sprintf("Минималната стойност е %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Максимум %s символа", fe.Param())
		}
		return fmt.Sprintf("Максималната стойност е %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Стойността трябва да е по-голяма от %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Стойността трябва да е поне %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Стойността трябва да е най-много %s", fe.Param())
	case "oneof":
		return "Невалидна стойност"
	case "eqfield":
		return "Стойностите не съвпадат"
	case "datetime":
		return "Невалидна дата"
	case "numeric":
		return "Допускат се само цифри"
	case "eik":
		return "Невалиден ЕИК"
	case "uuid":
		return "Невалиден идентификатор"
	}
	return "Невалидна стойност"
}

// validateEIK ЕИК/Булстат: 9 или 13 цифри.
func validateEIK(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 9 && len(s) != 13 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
