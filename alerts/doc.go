// Package alerts reads GTFS-Realtime service alerts and selects the ones that
// concern a fare line.
//
// Lines are tied to GTFS route IDs in the configuration. The Monitor keeps
// the latest parsed feed in memory and refreshes it on an interval; a failed
// refresh keeps the previous feed.
//
// Example:
//
//	mon := alerts.NewMonitor(alerts.NewClient(10*time.Second), feedURL, time.Minute)
//	go mon.Run(ctx)
//	active := mon.Feed().ForRoutes([]string{"400"}, time.Now())
package alerts
