package extract

import (
	"flighttrack-service/internal/domain/entity"
)

// BuildStatistics derives reporting numbers from a merged record set.
func BuildStatistics(records []*entity.FlightRecord) *entity.Statistics {
	stats := &entity.Statistics{
		TotalFlights:   len(records),
		FlightsByMonth: make(map[string]int),
	}

	airlines := make(map[string]struct{})
	routes := make(map[string]int)

	for _, r := range records {
		if r.Airline != "" {
			airlines[r.Airline] = struct{}{}
		}
		if !r.DepartureTime.IsZero() {
			stats.FlightsByMonth[r.DepartureTime.Format("2006-01")]++
		}
		routes[r.Route()]++
		if routes[r.Route()] > stats.RouteCount {
			stats.RouteCount = routes[r.Route()]
			stats.MostFrequentRoute = r.Route()
		}
	}

	stats.UniqueAirlines = len(airlines)
	return stats
}
