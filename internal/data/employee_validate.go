package data

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	MessageRequired   string = "Please fill in all required fields."
	MessageSalary     string = "Salary must be greater than 0."
	MessageEmail      string = "Please enter a valid email address."
	MessagePhone      string = "Phone number must be 10 digits."
	MessageDepartment string = "Please select a valid department."
	MessageStatus     string = "Please select a valid status."
)

const (
	tagRequired   string = "required"
	tagGreater    string = "gt"
	tagEmail      string = "employee_email"
	tagPhone      string = "employee_phone"
	tagDepartment string = "employee_department"
	tagStatus     string = "employee_status"
)

var (
	// whitespace includes vertical tab, unicode separators and the byte
	// order mark
	emailPattern = regexp.MustCompile(`^[^\s\x0b\p{Z}\x{feff}@]+@[^\s\x0b\p{Z}\x{feff}@]+\.[^\s\x0b\p{Z}\x{feff}@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// rules are in the order they're reported, only the first violated
// rule is shown to the user
var rules = []struct {
	tag     string
	message string
}{
	{tagRequired, MessageRequired},
	{tagGreater, MessageSalary},
	{tagEmail, MessageEmail},
	{tagPhone, MessagePhone},
	{tagDepartment, MessageDepartment},
	{tagStatus, MessageStatus},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func employeeValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation(tagDepartment, func(fl validator.FieldLevel) bool {
			return IsDepartment(fl.Field().String())
		})
		_ = validate.RegisterValidation(tagStatus, func(fl validator.FieldLevel) bool {
			return IsStatus(fl.Field().String())
		})
	})
	return validate
}

func employeeFieldErrors(employee Employee) validator.ValidationErrors {
	err := employeeValidator().Struct(employee)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	return fieldErrors
}

// ValidateEmployee checks the employee a form is about to submit, it returns
// nil if it can be submitted, otherwise a *ValidationError describing the
// first violated rule.
func ValidateEmployee(employee Employee) error {
	fieldErrors := employeeFieldErrors(employee)
	if len(fieldErrors) == 0 {
		return nil
	}
	for _, rule := range rules {
		for _, fieldError := range fieldErrors {
			if fieldError.Tag() == rule.tag {
				return &ValidationError{Message: rule.message}
			}
		}
	}
	return &ValidationError{Message: fieldErrors[0].Error()}
}

// ValidateEmployeeFields reports every violation keyed by the json name of
// the field; it returns nil if the employee is valid.
func ValidateEmployeeFields(employee Employee) map[string]string {
	fieldErrors := employeeFieldErrors(employee)
	if len(fieldErrors) == 0 {
		return nil
	}
	messages := make(map[string]string, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		default:
			messages[field] = fmt.Sprintf("%s is invalid", field)
		case tagRequired:
			messages[field] = fmt.Sprintf("%s is required", field)
		case tagGreater:
			messages[field] = fmt.Sprintf("%s must be greater than 0", field)
		case tagEmail:
			messages[field] = "email should be valid"
		case tagPhone:
			messages[field] = "phone number must be 10 digits"
		case tagDepartment:
			messages[field] = fmt.Sprintf("department must be one of: %s",
				strings.Join(Departments, ", "))
		case tagStatus:
			messages[field] = fmt.Sprintf("status must be one of: %s",
				strings.Join(Statuses, ", "))
		}
	}
	return messages
}
