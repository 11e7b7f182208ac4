package instancebuilder

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	ConfigID    uuid.UUID
	Title       string
	Description string
	Slug        string
	StartDate   *time.Time
	EndDate     *time.Time
}

func WithConfigID(configID uuid.UUID) Option {
	return func(p *FactoryParams) { p.ConfigID = configID }
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithSlug(slug string) Option {
	return func(p *FactoryParams) { p.Slug = slug }
}

func WithStartDate(start time.Time) Option {
	return func(p *FactoryParams) { p.StartDate = &start }
}

func WithEndDate(end time.Time) Option {
	return func(p *FactoryParams) { p.EndDate = &end }
}
