// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Client is a person/company profile tracked by the service.
// Money columns are NUMERIC(10,2) and NUMERIC(15,2) in the store.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Salary       float64   `json:"salary"`
	CompanyValue float64   `json:"companyValue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateClientInput is the creation payload. Pointers let validation tell
// "missing" apart from an explicit zero.
type CreateClientInput struct {
	Name         *string  `json:"name" validate:"required,min=1,max=255"`
	Salary       *float64 `json:"salary" validate:"required,gte=0,lte=99999999.99"`
	CompanyValue *float64 `json:"companyValue" validate:"required,gte=0,lte=9999999999999.99"`
}

// UpdateClientInput is a partial update; nil fields are left untouched.
type UpdateClientInput struct {
	Name         *string  `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Salary       *float64 `json:"salary,omitempty" validate:"omitnil,gte=0,lte=99999999.99"`
	CompanyValue *float64 `json:"companyValue,omitempty" validate:"omitnil,gte=0,lte=9999999999999.99"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u UpdateClientInput) IsEmpty() bool {
	return u.Name == nil && u.Salary == nil && u.CompanyValue == nil
}

// Apply overwrites the fields present in u on a copy of c.
func (u UpdateClientInput) Apply(c Client) Client {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Salary != nil {
		c.Salary = *u.Salary
	}
	if u.CompanyValue != nil {
		c.CompanyValue = *u.CompanyValue
	}
	return c
}
