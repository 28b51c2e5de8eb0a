package types

import (
	"github.com/go-playground/validator/v10"
)

// FilterRequest carries unresolved report filter identifiers as entered by a user.
type FilterRequest struct {
	Pilot        string `json:"pilot,omitempty" validate:"omitempty,max=150"`
	Airstrip     string `json:"airstrip,omitempty" validate:"omitempty,max=4,excluded_with=Base"`
	Base         string `json:"base,omitempty" validate:"omitempty,max=4,excluded_with=Airstrip"`
	AircraftType string `json:"aircraft_type,omitempty" validate:"omitempty,max=10"`
}

// CheckoutEditRequest adds or removes checkouts for one pilot at one airstrip.
type CheckoutEditRequest struct {
	Pilot         string   `json:"pilot" yaml:"pilot" validate:"required,max=150"`
	Airstrip      string   `json:"airstrip" yaml:"airstrip" validate:"required,max=4"`
	AircraftTypes []string `json:"aircraft_types" yaml:"aircraft_types" validate:"required,min=1,dive,required,max=10"`
	Actor         string   `json:"actor,omitempty" yaml:"-"`
}

// AttachmentRequest replaces the set of airstrips attached to a base.
type AttachmentRequest struct {
	Base      string   `json:"base" validate:"required,max=4"`
	Airstrips []string `json:"airstrips" validate:"dive,required,max=4"`
	Actor     string   `json:"actor,omitempty"`
}

// Fixture is a declarative description of entities and checkouts used to seed a store.
type Fixture struct {
	Pilots        []Pilot               `yaml:"pilots" validate:"dive"`
	Airstrips     []Airstrip            `yaml:"airstrips" validate:"dive"`
	AircraftTypes []AircraftType        `yaml:"aircraft_types" validate:"dive"`
	Checkouts     []CheckoutEditRequest `yaml:"checkouts" validate:"dive"`
}

// Validate validates the FilterRequest using the validator.
func (r *FilterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CheckoutEditRequest using the validator.
func (r *CheckoutEditRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AttachmentRequest using the validator.
func (r *AttachmentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates every entity in the Fixture.
func (f *Fixture) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}
