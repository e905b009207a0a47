package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DocumentRequest is the form input for one loading plan.
type DocumentRequest struct {
	CustomerName string `form:"customer_name" validate:"required,max=200"`
	QueueNo      string `form:"queue_no" validate:"required,max=100"`
	ProductType  string `form:"product_type" validate:"required,max=200"`
	LoadDate     string `form:"load_date" validate:"required,max=64"`
	TimeSlot     string `form:"time_slot" validate:"max=100"`
}

// Normalize trims every field in place.
func (r *DocumentRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.QueueNo = strings.TrimSpace(r.QueueNo)
	r.ProductType = strings.TrimSpace(r.ProductType)
	r.LoadDate = strings.TrimSpace(r.LoadDate)
	r.TimeSlot = strings.TrimSpace(r.TimeSlot)
}

// Validate trims the request and checks the required fields. The returned
// error wraps ErrInvalidRequest and names the first offending form field.
func (r *DocumentRequest) Validate() error {
	r.Normalize()
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		name := formNames[fe.Field()]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, name)
		}
		return fmt.Errorf("%w: %s is too long", ErrInvalidRequest, name)
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}

var formNames = map[string]string{
	"CustomerName": "customer_name",
	"QueueNo":      "queue_no",
	"ProductType":  "product_type",
	"LoadDate":     "load_date",
	"TimeSlot":     "time_slot",
}
