package dto

import (
	"strings"

	"schoolhub_backend/internals/features/schools/schools/model"
)

type CreateSchoolRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=160"`
	Address  string  `json:"address" validate:"required,max=500"`
	Location *string `json:"location" validate:"omitempty,max=160"`
}

func (r *CreateSchoolRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Location = trimPtr(r.Location)
}

func (r CreateSchoolRequest) ToModel() model.SchoolModel {
	return model.SchoolModel{
		SchoolName:     r.Name,
		SchoolAddress:  r.Address,
		SchoolLocation: r.Location,
	}
}

// UpdateSchoolRequest: partial update, nil fields are left alone.
type UpdateSchoolRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=160"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=160"`
}

func (r *UpdateSchoolRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Address = trimPtr(r.Address)
	r.Location = trimPtr(r.Location)
}

func (r UpdateSchoolRequest) Changes() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["school_name"] = *r.Name
	}
	if r.Address != nil {
		m["school_address"] = *r.Address
	}
	if r.Location != nil {
		m["school_location"] = *r.Location
	}
	return m
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
