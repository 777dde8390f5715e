// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"log/slog"

	"github.com/ascinsa/pms/internal/platform/directory"
)

// RosterSource supplies the personnel list used to resolve user codes.
type RosterSource interface {
	FetchRoster(context context.Context) (directory.Roster, error)
}

// dayLayout keys history groups.
const dayLayout = "2006-01-02"

type Service struct {
	repo   Repository
	roster RosterSource
	logger *slog.Logger
}

func NewService(repo Repository, roster RosterSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, roster: roster, logger: logger}
}

/*
History returns every entry, newest first, grouped by creation date.

Each line reads "<name> <action>[: <details>]". A stored actor that matches a
roster user code is shown as that person's name; anything else is shown as
stored. When the directory is down the stored labels are used as they are.
*/
func (service *Service) History(context context.Context) ([]Day, error) {
	entries, err := service.repo.ListNewestFirst(context)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if roster, err := service.roster.FetchRoster(context); err != nil {
		service.logger.WarnContext(context, "history_roster_unavailable", slog.String("error", err.Error()))
	} else {
		names = roster.Names()
	}

	return groupByDay(entries, names), nil
}

func groupByDay(entries []*Entry, names map[string]string) []Day {
	var days []Day
	index := map[string]int{}

	for _, entry := range entries {
		date := entry.CreatedAt.Format(dayLayout)
		position, seen := index[date]
		if !seen {
			position = len(days)
			index[date] = position
			days = append(days, Day{Date: date})
		}
		days[position].Lines = append(days[position].Lines, line(entry, names))
	}

	return days
}

func line(entry *Entry, names map[string]string) string {
	name := entry.Actor
	if resolved, ok := names[entry.Actor]; ok {
		name = resolved
	}

	text := name + " " + entry.Action
	if entry.Details != "" {
		text += ": " + entry.Details
	}
	return text
}
