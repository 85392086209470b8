package model

type ScheduleStats struct {
	TotalSchedules       int64                   `json:"totalSchedules"`
	ActiveSchedules      int64                   `json:"activeSchedules"`
	InactiveSchedules    int64                   `json:"inactiveSchedules"`
	UniqueInstruments    int                     `json:"uniqueInstruments"`
	SchedulesByDay       map[Day]int64           `json:"schedulesByDay"`
	SchedulesByFrequency map[IterationTime]int64 `json:"schedulesByFrequency"`
}

// NewScheduleStats returns empty stats with every day and frequency present.
func NewScheduleStats() ScheduleStats {
	stats := ScheduleStats{
		SchedulesByDay:       make(map[Day]int64, len(Days)),
		SchedulesByFrequency: make(map[IterationTime]int64, len(IterationTimes)),
	}
	for _, d := range Days {
		stats.SchedulesByDay[d] = 0
	}
	for _, i := range IterationTimes {
		stats.SchedulesByFrequency[i] = 0
	}
	return stats
}

// Add accounts one schedule.
func (s *ScheduleStats) Add(schedule Schedule) {
	s.TotalSchedules++
	if schedule.IsActive {
		s.ActiveSchedules++
	} else {
		s.InactiveSchedules++
	}
	s.SchedulesByDay[schedule.Day]++
	s.SchedulesByFrequency[schedule.IterationTime]++
}
