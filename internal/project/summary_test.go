// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/project"
)

/*
TestSummarize checks every dashboard counter on a small portfolio: stand-by
projects are paused, production projects completed, and only unfinished
projects outside production feed the average.
*/
func TestSummarize(t *testing.T) {
	projects := []*project.Project{
		{Category: "cartera1", Priority: "1", Area: "004", ProgressPercentage: 25, Responsible: []string{"LJP001"}},
		{Category: "cartera1", Priority: "2", Area: "004", ProgressPercentage: 50, Responsible: []string{"LJP001", "KVA001"}},
		{Category: "cartera1", Priority: project.PriorityStandBy, Area: "001", ProgressPercentage: 10},
		{Category: "proyectos-ti", Priority: "1", Area: "004", ProgressPercentage: 100, Prod: true, Responsible: []string{"KVA001"}},
		{Category: "proyectos-ti", Priority: "3", Area: "", ProgressPercentage: 100},
		{Category: "isco-cargo", Priority: "1", Area: "999", ProgressPercentage: 0, Responsible: []string{"ZZZ001"}},
	}
	surnames := map[string]string{"LJP001": "Jara", "KVA001": "Vidal"}

	summary := project.Summarize(projects, surnames)

	assert.Equal(t, 4, summary.Active)
	assert.Equal(t, 1, summary.Paused)
	assert.Equal(t, 1, summary.Completed)
	// (25 + 50 + 10 + 0) / 4 = 21.25
	assert.Equal(t, 21, summary.AverageProgress)

	assert.Equal(t, []project.CategorySummary{
		{Name: "Cartera #1", Count: 3, Average: 28},
		{Name: "Proyectos TI", Count: 2, Average: 100},
		{Name: "ISCO Cargo", Count: 1, Average: 0},
	}, summary.Categories)

	require.NotEmpty(t, summary.TopAreas)
	assert.Equal(t, project.NamedCount{Name: "SISTEMAS", Count: 3}, summary.TopAreas[0])
	assert.Contains(t, summary.TopAreas, project.NamedCount{Name: project.AreaUnknown, Count: 2})

	assert.Equal(t, []project.NamedCount{
		{Name: "Jara", Count: 2},
		{Name: "Vidal", Count: 2},
		{Name: "ZZZ001", Count: 1},
	}, summary.Responsibles)
}

func TestSummarize_Empty(t *testing.T) {
	summary := project.Summarize(nil, nil)
	assert.Zero(t, summary.Active)
	assert.Zero(t, summary.AverageProgress)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.TopAreas)
}

func TestSummarize_RoundsHalfUp(t *testing.T) {
	summary := project.Summarize([]*project.Project{
		{Category: "cartera2", ProgressPercentage: 10},
		{Category: "cartera2", ProgressPercentage: 15},
	}, nil)
	assert.Equal(t, 13, summary.AverageProgress)
	assert.Equal(t, 13, summary.Categories[0].Average)
}

func TestService_Summary(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{roster: people})
	seedProject(t, service)

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Active)
	assert.Equal(t, []project.NamedCount{{Name: "Jara", Count: 1}, {Name: "Vidal", Count: 1}}, summary.Responsibles)

	down := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{err: directory.ErrUnavailable})
	seedProject(t, down)

	summary, err = down.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []project.NamedCount{{Name: "KVA001", Count: 1}, {Name: "LJP001", Count: 1}}, summary.Responsibles)
}
