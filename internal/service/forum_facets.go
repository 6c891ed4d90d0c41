package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

type CategoryCount struct {
	Category    string `json:"category"`
	ThreadCount int64  `json:"thread_count"`
}

type LanguageCount struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ThreadCount int64  `json:"thread_count"`
}

var defaultCategories = []string{"general", "música", "recomendaciones", "discusión", "ayuda"}

var defaultLanguages = []LanguageCount{
	{Code: "es", Name: "Español"},
	{Code: "en", Name: "English"},
	{Code: "fr", Name: "Français"},
	{Code: "de", Name: "Deutsch"},
	{Code: "it", Name: "Italiano"},
	{Code: "pt", Name: "Português"},
}

func (s *forumService) Categories(ctx context.Context) ([]CategoryCount, error) {
	facets, err := s.forum.Facets(ctx, repository.FacetCategory)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryCount, 0, len(facets)+len(defaultCategories))
	seen := make(map[string]bool, len(facets))
	for _, f := range facets {
		seen[f.Value] = true
		out = append(out, CategoryCount{Category: f.Value, ThreadCount: f.ThreadCount})
	}
	for _, c := range defaultCategories {
		if !seen[c] {
			out = append(out, CategoryCount{Category: c})
		}
	}
	return out, nil
}

// Languages 统计失败时退回默认语言表，计数为 0
func (s *forumService) Languages(ctx context.Context) []LanguageCount {
	facets, err := s.forum.Facets(ctx, repository.FacetLanguage)
	if err != nil {
		logger.Warn("forum language facets failed", zap.Error(err))
		facets = nil
	}
	return mergeLanguages(facets)
}

func mergeLanguages(facets []model.ForumFacet) []LanguageCount {
	names := make(map[string]string, len(defaultLanguages))
	for _, l := range defaultLanguages {
		names[l.Code] = l.Name
	}
	out := make([]LanguageCount, 0, len(facets)+len(defaultLanguages))
	seen := make(map[string]bool, len(facets))
	for _, f := range facets {
		seen[f.Value] = true
		name, ok := names[f.Value]
		if !ok {
			name = f.Value
		}
		out = append(out, LanguageCount{Code: f.Value, Name: name, ThreadCount: f.ThreadCount})
	}
	for _, l := range defaultLanguages {
		if !seen[l.Code] {
			out = append(out, l)
		}
	}
	return out
}
