package repository

import (
	"context"
	"time"

	"classbook/internal/domain"

	"gorm.io/gorm"
)

type ClassroomRepository struct {
	db *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

type classroomModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Capacity   int       `gorm:"column:capacity;not null"`
	Building   string    `gorm:"column:building;not null"`
	Floor      int       `gorm:"column:floor"`
	RoomNumber string    `gorm:"column:room_number;not null"`
	Features   []string  `gorm:"column:features;type:text;serializer:json"`
	Available  bool      `gorm:"column:available;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (classroomModel) TableName() string { return "classrooms" }

func toDomainClassroom(m classroomModel) *domain.Classroom {
	features := m.Features
	if features == nil {
		features = []string{}
	}
	return &domain.Classroom{
		ID:         m.ID,
		Name:       m.Name,
		Capacity:   m.Capacity,
		Building:   m.Building,
		Floor:      m.Floor,
		RoomNumber: m.RoomNumber,
		Features:   features,
		Available:  m.Available,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toClassroomModel(c *domain.Classroom) classroomModel {
	features := c.Features
	if features == nil {
		features = []string{}
	}
	return classroomModel{
		ID:         c.ID,
		Name:       c.Name,
		Capacity:   c.Capacity,
		Building:   c.Building,
		Floor:      c.Floor,
		RoomNumber: c.RoomNumber,
		Features:   features,
		Available:  c.Available,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r *ClassroomRepository) Create(ctx context.Context, c *domain.Classroom) error {
	m := toClassroomModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainClassroom(m)
	return nil
}

func (r *ClassroomRepository) GetByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	var m classroomModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainClassroom(m), nil
}

func (r *ClassroomRepository) GetByName(ctx context.Context, name string) (*domain.Classroom, error) {
	var m classroomModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainClassroom(m), nil
}

func (r *ClassroomRepository) List(ctx context.Context) ([]domain.Classroom, error) {
	var rows []classroomModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Classroom, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainClassroom(m))
	}
	return out, nil
}

// Update saves every field of c. The caller merges partial changes first.
func (r *ClassroomRepository) Update(ctx context.Context, c *domain.Classroom) error {
	m := toClassroomModel(c)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Model(&classroomModel{}).Where("id = ?", c.ID).Select("*").Omit("id", "created_at").Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&classroomModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
