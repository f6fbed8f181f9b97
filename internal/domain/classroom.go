package domain

import (
	"strings"
	"time"

	"classbook/internal/pkg/apperror"
)

var ErrInvalidClassroom = apperror.Validation("VALIDATION_ERROR", "Classroom requires name, building, room number and a capacity of at least 1")

type Classroom struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Capacity   int       `json:"capacity"`
	Building   string    `json:"building"`
	Floor      int       `json:"floor"`
	RoomNumber string    `json:"room_number"`
	Features   []string  `json:"features"`
	Available  bool      `json:"available"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Classroom) Validate() error {
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Building) == "" ||
		strings.TrimSpace(c.RoomNumber) == "" ||
		c.Capacity < 1 {
		return ErrInvalidClassroom
	}
	return nil
}
