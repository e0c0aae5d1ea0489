package mapper

import (
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"
)

type ImageGenerationMapper struct{}

func NewImageGenerationMapper() *ImageGenerationMapper {
	return &ImageGenerationMapper{}
}

func (m *ImageGenerationMapper) ToEntity(g *model.ImageGeneration) *entity.ImageGeneration {
	if g == nil {
		return nil
	}
	e := &entity.ImageGeneration{
		Id:          g.Id,
		UserId:      g.UserId,
		Prompt:      g.Prompt,
		Style:       entity.ImageStyle(g.Style),
		AspectRatio: entity.AspectRatio(g.AspectRatio),
		ImageRef:    g.ImageRef,
		Visibility:  entity.Visibility(g.Visibility),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.User != nil {
		e.AuthorName = g.User.FullName
	}
	return e
}

func (m *ImageGenerationMapper) ToModel(g *entity.ImageGeneration) *model.ImageGeneration {
	if g == nil {
		return nil
	}
	return &model.ImageGeneration{
		Id:          g.Id,
		UserId:      g.UserId,
		Prompt:      g.Prompt,
		Style:       string(g.Style),
		AspectRatio: string(g.AspectRatio),
		ImageRef:    g.ImageRef,
		Visibility:  string(g.Visibility),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (m *ImageGenerationMapper) ToEntities(gs []*model.ImageGeneration) []*entity.ImageGeneration {
	res := make([]*entity.ImageGeneration, 0, len(gs))
	for _, g := range gs {
		res = append(res, m.ToEntity(g))
	}
	return res
}
