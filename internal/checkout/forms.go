package checkout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/storefront-demo/internal/orders"
	pkgcheckout "github.com/angelmondragon/storefront-demo/pkg/checkout"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("shipping_country", func(fl validator.FieldLevel) bool {
		return enums.ShippingCountry(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("mmyy", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != pkgcheckout.ExpiryMaxLen || value[2] != '/' {
			return false
		}
		month := value[:2]
		return month >= "01" && month <= "12"
	})
	return v
}

// ShippingDetails is the shipping form. Every field is required.
type ShippingDetails struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country" validate:"required,shipping_country"`
}

// Normalize trims fields and applies the default country.
func (s ShippingDetails) Normalize() ShippingDetails {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.Country = strings.TrimSpace(s.Country)
	if s.Country == "" {
		s.Country = string(enums.DefaultShippingCountry)
	}
	return s
}

func (s ShippingDetails) Validate() error {
	return validateForm(s)
}

func (s ShippingDetails) ToAddress() orders.ShippingAddress {
	return orders.ShippingAddress{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		ZipCode:   s.ZipCode,
		Country:   s.Country,
	}
}

// PaymentDetails is the payment form. The card is never stored beyond its last four digits.
type PaymentDetails struct {
	CardNumber string `json:"card_number" validate:"required,max=19"`
	CardName   string `json:"card_name" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"required,mmyy"`
	CVV        string `json:"cvv" validate:"required,max=4"`
}

// Normalize applies the card and expiry input masks.
func (p PaymentDetails) Normalize() PaymentDetails {
	p.CardNumber = pkgcheckout.FormatCardNumber(p.CardNumber)
	p.CardName = strings.TrimSpace(p.CardName)
	p.ExpiryDate = pkgcheckout.FormatExpiry(p.ExpiryDate)
	p.CVV = pkgcheckout.TruncateCVV(p.CVV)
	return p
}

func (p PaymentDetails) Validate() error {
	return validateForm(p)
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return pkgerrors.Validation("validation failed", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "shipping_country":
		return "must be United States, Canada or United Kingdom"
	case "mmyy":
		return "must be MM/YY"
	}
	return "is invalid"
}
