package model

import (
	"time"
)

// Update payloads list only the columns a caller may change. Nil fields are
// left untouched.

type ClientUpdate struct {
	Name   *string `json:"name" validate:"omitnil,min=1,max=200"`
	Active *bool   `json:"active"`
}

func (u ClientUpdate) IsEmpty() bool {
	return u.Name == nil && u.Active == nil
}

type ProjectUpdate struct {
	Name      *string `json:"name" validate:"omitnil,min=1,max=200"`
	ManagerID *string `json:"manager_id" validate:"omitnil,uuid"`
	Active    *bool   `json:"active"`
}

func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.ManagerID == nil && u.Active == nil
}

type RFIUpdate struct {
	Title    *string    `json:"title" validate:"omitnil,min=1,max=300"`
	Question *string    `json:"question" validate:"omitnil,max=10000"`
	Status   *string    `json:"status" validate:"omitnil,oneof=open answered closed"`
	DueDate  *time.Time `json:"due_date"`
}

func (u RFIUpdate) IsEmpty() bool {
	return u.Title == nil && u.Question == nil && u.Status == nil && u.DueDate == nil
}
