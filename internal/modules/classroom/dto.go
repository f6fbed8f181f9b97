package classroom

type CreateClassroomRequest struct {
	Name       string   `json:"name" validate:"required"`
	Capacity   int      `json:"capacity" validate:"required,gte=1"`
	Building   string   `json:"building" validate:"required"`
	Floor      *int     `json:"floor" validate:"required"`
	RoomNumber string   `json:"room_number" validate:"required"`
	Features   []string `json:"features"`
	Available  *bool    `json:"available"`
}

// UpdateClassroomRequest changes only the fields that are present.
type UpdateClassroomRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1"`
	Capacity   *int      `json:"capacity" validate:"omitempty,gte=1"`
	Building   *string   `json:"building" validate:"omitempty,min=1"`
	Floor      *int      `json:"floor"`
	RoomNumber *string   `json:"room_number" validate:"omitempty,min=1"`
	Features   *[]string `json:"features"`
	Available  *bool     `json:"available"`
}
