package validator

// Validator bundles struct validation and business rules behind one
// handle that services share.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Validate runs struct-tag validation on any request type.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}
