package repository

// Models lists every table model for AutoMigrate on SQLite. Postgres schemas
// come from the embedded SQL migrations instead.
func Models() []any {
	return []any{
		&userModel{},
		&classroomModel{},
		&bookingModel{},
		&notificationModel{},
	}
}
