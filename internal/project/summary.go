// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"cmp"
	"context"
	"slices"
)

// AreaUnknown labels projects without a recognised area.
const AreaUnknown = "Sin área"

// topAreas is how many areas the dashboard ranks.
const topAreas = 5

// Summary holds the home dashboard counters.
type Summary struct {
	Active          int
	Paused          int
	AverageProgress int
	Completed       int

	Categories   []CategorySummary
	TopAreas     []NamedCount
	Responsibles []NamedCount
}

// CategorySummary counts the projects of one category and their rounded
// average progress.
type CategorySummary struct {
	Name    string
	Count   int
	Average int
}

// NamedCount is one bar of a ranking.
type NamedCount struct {
	Name  string
	Count int
}

// Summary computes the dashboard over every project. Responsibles are shown
// by paternal surname when the directory knows them.
func (service *Service) Summary(context context.Context) (*Summary, error) {
	projects, err := service.repo.ListAll(context)
	if err != nil {
		return nil, err
	}

	surnames := map[string]string{}
	if roster, err := service.roster.FetchRoster(context); err == nil {
		for _, person := range roster {
			if person.PaternalSurname != "" {
				surnames[person.UserCode] = person.PaternalSurname
			}
		}
	} else {
		service.logger.WarnContext(context, "project_names_unavailable")
	}

	return Summarize(projects, surnames), nil
}

/*
Summarize derives the dashboard counters:

  - Active projects are not in production and not on stand-by.
  - Paused projects are on stand-by.
  - The average progress covers unfinished projects not in production.
  - Completed projects are in production.

Averages round half up. Rankings break ties by name.
*/
func Summarize(projects []*Project, surnames map[string]string) *Summary {
	summary := &Summary{}

	var progressSum, progressCount int
	categories := make(map[string]*CategorySummary, len(Categories))
	categorySums := make(map[string]int, len(Categories))
	areas := map[string]int{}
	responsibles := map[string]int{}

	for _, project := range projects {
		switch {
		case project.Priority == PriorityStandBy:
			summary.Paused++
		case !project.Prod:
			summary.Active++
		}
		if project.Prod {
			summary.Completed++
		} else if project.ProgressPercentage < 100 {
			progressSum += project.ProgressPercentage
			progressCount++
		}

		entry, ok := categories[project.Category]
		if !ok {
			entry = &CategorySummary{Name: categoryTitle(project.Category)}
			categories[project.Category] = entry
		}
		entry.Count++
		categorySums[project.Category] += project.ProgressPercentage

		area := AreaUnknown
		if name, known := AreaName(project.Area); known {
			area = name
		}
		areas[area]++

		for _, code := range project.Responsible {
			name := code
			if surname, known := surnames[code]; known {
				name = surname
			}
			responsibles[name]++
		}
	}

	summary.AverageProgress = roundedAverage(progressSum, progressCount)

	for _, category := range Categories {
		if entry, ok := categories[category.Slug]; ok {
			entry.Average = roundedAverage(categorySums[category.Slug], entry.Count)
			summary.Categories = append(summary.Categories, *entry)
		}
	}

	summary.TopAreas = ranked(areas)
	if len(summary.TopAreas) > topAreas {
		summary.TopAreas = summary.TopAreas[:topAreas]
	}
	summary.Responsibles = ranked(responsibles)

	return summary
}

func categoryTitle(slug string) string {
	if category, ok := LookupCategory(slug); ok {
		return category.Title
	}
	return slug
}

func roundedAverage(sum, count int) int {
	if count == 0 {
		return 0
	}
	return (2*sum + count) / (2 * count)
}

// ranked orders counts descending, then by name.
func ranked(counts map[string]int) []NamedCount {
	ranking := make([]NamedCount, 0, len(counts))
	for name, count := range counts {
		ranking = append(ranking, NamedCount{Name: name, Count: count})
	}
	slices.SortFunc(ranking, func(left, right NamedCount) int {
		if byCount := cmp.Compare(right.Count, left.Count); byCount != 0 {
			return byCount
		}
		return cmp.Compare(left.Name, right.Name)
	})
	return ranking
}
