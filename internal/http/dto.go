package http

import (
	"fmt"

	"github.com/example/academic-scheduler/internal/timetable"
)

// windowDTO is the wire form of one availability window. Days travel as
// lowercase names so payloads stay readable in logs and fixtures.
type windowDTO struct {
	Day       string `json:"day"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

func toWindowDTOs(windows []timetable.Window) []windowDTO {
	if len(windows) == 0 {
		return nil
	}
	out := make([]windowDTO, 0, len(windows))
	for _, w := range windows {
		out = append(out, windowDTO{
			Day:       w.Day.String(),
			StartHour: w.StartHour,
			EndHour:   w.EndHour,
		})
	}
	return out
}

func fromWindowDTOs(dtos []windowDTO) ([]timetable.Window, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	out := make([]timetable.Window, 0, len(dtos))
	for i, dto := range dtos {
		day, err := timetable.ParseDay(dto.Day)
		if err != nil {
			return nil, fmt.Errorf("availability window %d: %w", i, err)
		}
		out = append(out, timetable.Window{
			Day:       day,
			StartHour: dto.StartHour,
			EndHour:   dto.EndHour,
		})
	}
	return out, nil
}
