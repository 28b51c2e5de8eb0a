// Package types provides type definitions for structured data used throughout the checkniner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Pilot is a user who belongs to the Pilots population.
type Pilot struct {
	Username  string `json:"username" yaml:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" yaml:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" yaml:"last_name" validate:"max=150"`
}

// FullName returns the pilot's name in 'Last, First' order, falling back to
// the username when either part is missing.
func (p Pilot) FullName() string {
	if p.LastName != "" && p.FirstName != "" {
		return p.LastName + ", " + p.FirstName
	}
	return p.Username
}

// Airstrip is identified by its short ident code. Bases lists the idents of
// the base airstrips this airstrip is attached to.
type Airstrip struct {
	Ident  string   `json:"ident" yaml:"ident" validate:"required,max=4"`
	Name   string   `json:"name" yaml:"name" validate:"required,max=255"`
	IsBase bool     `json:"is_base" yaml:"is_base"`
	Bases  []string `json:"bases,omitempty" yaml:"bases,omitempty" validate:"dive,required,max=4"`
}

// String formats the airstrip as "IDENT (Name)".
func (a Airstrip) String() string {
	return a.Ident + " (" + a.Name + ")"
}

// AircraftType is identified by name. SortPosition controls report column order.
type AircraftType struct {
	Name         string `json:"name" yaml:"name" validate:"required,max=10"`
	SortPosition int    `json:"sort_position" yaml:"sort_position"`
}

// CompletionFact records that a pilot has completed checkout for an aircraft
// type at an airstrip. Fields hold entity identities.
type CompletionFact struct {
	Pilot        string `json:"pilot"`
	Airstrip     string `json:"airstrip"`
	AircraftType string `json:"aircraft_type"`
}

// Snapshot is a point-in-time copy of every entity and fact in the store.
type Snapshot struct {
	Pilots        []Pilot          `json:"pilots"`
	Airstrips     []Airstrip       `json:"airstrips"`
	AircraftTypes []AircraftType   `json:"aircraft_types"`
	Facts         []CompletionFact `json:"facts"`
}

// Pair is a (pilot, airstrip) combination in scope for a query.
type Pair struct {
	Pilot    Pilot
	Airstrip Airstrip
}

// Filter holds the resolved entities narrowing a report. Nil fields are
// unrestricted. Airstrip and Base are mutually exclusive.
type Filter struct {
	Pilot        *Pilot
	Airstrip     *Airstrip
	Base         *Airstrip
	AircraftType *AircraftType
}

// Validate validates the Pilot using the validator.
func (p Pilot) Validate() error {
	return validator.New().Struct(p)
}

// Validate validates the Airstrip using the validator.
func (a Airstrip) Validate() error {
	return validator.New().Struct(a)
}

// Validate validates the AircraftType using the validator.
func (t AircraftType) Validate() error {
	return validator.New().Struct(t)
}
