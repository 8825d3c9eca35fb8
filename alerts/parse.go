package alerts

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Parse decodes a GTFS-RT FeedMessage and keeps its alert entities.
func Parse(data []byte) (*Feed, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse alert feed: %w", err)
	}
	return FromMessage(&fm), nil
}

// FromMessage converts an already decoded feed.
func FromMessage(fm *gtfsrtpb.FeedMessage) *Feed {
	feed := &Feed{
		Timestamp: int64(fm.GetHeader().GetTimestamp()),
		Alerts:    []Alert{},
		byRoute:   map[string][]int{},
	}
	for _, e := range fm.GetEntity() {
		a := e.GetAlert()
		if a == nil {
			continue
		}
		ra := Alert{ID: e.GetId()}
		if a.HeaderText != nil {
			ra.Header = translatedText(a.HeaderText)
		}
		if a.DescriptionText != nil {
			ra.Description = translatedText(a.DescriptionText)
		}
		if a.Cause != nil {
			ra.Cause = a.Cause.String()
		}
		if a.Effect != nil {
			ra.Effect = a.Effect.String()
		}
		if a.SeverityLevel != nil {
			ra.Severity = a.SeverityLevel.String()
		}
		for i, ap := range a.GetActivePeriod() {
			p := Period{Start: int64(ap.GetStart()), End: int64(ap.GetEnd())}
			if i == 0 {
				ra.Start, ra.End = p.Start, p.End
			}
			ra.Periods = append(ra.Periods, p)
		}
		for _, ie := range a.GetInformedEntity() {
			if ie.RouteId != nil {
				ra.RouteIDs = append(ra.RouteIDs, ie.GetRouteId())
			} else if rid := ie.GetTrip().GetRouteId(); rid != "" {
				ra.RouteIDs = append(ra.RouteIDs, rid)
			}
			if ie.StopId != nil {
				ra.StopIDs = append(ra.StopIDs, ie.GetStopId())
			}
		}

		idx := len(feed.Alerts)
		feed.Alerts = append(feed.Alerts, ra)
		for _, rid := range ra.RouteIDs {
			feed.byRoute[rid] = append(feed.byRoute[rid], idx)
		}
	}
	return feed
}

// translatedText prefers the translation without a language tag, then the
// first one.
func translatedText(ts *gtfsrtpb.TranslatedString) string {
	var first string
	for i, tr := range ts.GetTranslation() {
		if tr.GetLanguage() == "" {
			return tr.GetText()
		}
		if i == 0 {
			first = tr.GetText()
		}
	}
	return first
}
