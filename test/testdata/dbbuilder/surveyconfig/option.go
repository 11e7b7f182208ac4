package surveyconfigbuilder

import (
	"survey-studio/backend/internal/survey"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	Title       string
	Description string
	Sections    []survey.Section
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithSections(sections []survey.Section) Option {
	return func(p *FactoryParams) { p.Sections = sections }
}
