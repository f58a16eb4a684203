package main

import (
	"strconv"

	"anoa.com/dailyguessr/internal/entity"
	"github.com/pterm/pterm"
)

func leaderboardTable(records []entity.ParticipantRecord) pterm.TableData {
	data := pterm.TableData{{"#", "Name", "Best", "Games", "Today"}}
	for i, rec := range records {
		today := "-"
		if rec.TodayScore != nil {
			today = strconv.FormatInt(*rec.TodayScore, 10)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			rec.DisplayName,
			strconv.FormatInt(rec.BestScore, 10),
			strconv.Itoa(rec.TotalGames),
			today,
		})
	}
	return data
}
