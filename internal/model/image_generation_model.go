package model

import (
	"time"

	"github.com/google/uuid"
)

type ImageGeneration struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index:idx_image_generations_user_created,priority:1"`
	Prompt      string    `gorm:"type:varchar(1000);not null"`
	Style       string    `gorm:"type:varchar(20);not null;default:'realistic'"`
	AspectRatio string    `gorm:"type:varchar(10);not null;default:'1:1'"`
	ImageRef    string    `gorm:"type:text;not null"`
	Visibility  string    `gorm:"type:varchar(20);not null;default:'private';index:idx_image_generations_visibility_created,priority:1"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_image_generations_user_created,priority:2;index:idx_image_generations_visibility_created,priority:2"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId"`
}

func (ImageGeneration) TableName() string {
	return "image_generations"
}
