// Package forms validates user input before it reaches a provider mutation and tracks the
// open/closed state of the dialog collecting it.
package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps json field names to a message for the user.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err came from form validation rather than the submit callback.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// normalizer lets form data clean itself up (trim, defaults) before validation.
type normalizer interface {
	normalize()
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks data against its validate tags. The message of a failing field is its msg
// tag when present.
func Validate(data any) error {
	err := validatorInstance().Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = defaultMessage(fe)
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Obrigatório"
	case "email":
		return "Email inválido"
	case "min":
		return fmt.Sprintf("Mínimo %s", fe.Param())
	case "max":
		return fmt.Sprintf("Máximo %s", fe.Param())
	case "oneof":
		return "Valor inválido, use um de: " + fe.Param()
	case "datetime":
		return "Data inválida, use AAAA-MM-DD"
	case "numeric":
		return "Deve ser um número"
	}
	return "Valor inválido"
}

// Form holds the state of one dialog: whether it is open and the values it shows.
type Form[T any] struct {
	mu      sync.Mutex
	initial T
	values  T
	open    bool
}

func New[T any](initial T) *Form[T] {
	return &Form[T]{initial: initial, values: initial}
}

// Open shows the dialog prefilled with values (the record being edited, or empty defaults).
func (f *Form[T]) Open(values T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
	f.open = true
}

func (f *Form[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *Form[T]) Values() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Close dismisses the dialog and resets it.
func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.values = f.initial
}

// Submit validates data and hands it to onSubmit. onSubmit is not called when validation
// fails. On success the form closes and resets; on any failure it stays open with data kept.
func (f *Form[T]) Submit(ctx context.Context, data T, onSubmit func(context.Context, T) error) error {
	if n, ok := any(&data).(normalizer); ok {
		n.normalize()
	}

	f.mu.Lock()
	f.values = data
	f.mu.Unlock()

	if err := Validate(data); err != nil {
		return err
	}
	if err := onSubmit(ctx, data); err != nil {
		return err
	}
	f.Close()
	return nil
}
