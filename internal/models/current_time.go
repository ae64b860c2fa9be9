package models

import "time"

// CurrentTimeModel is the server's notion of "now" in the network's zone,
// with the fare period that applies to it.
type CurrentTimeModel struct {
	ReadableTime  string `json:"readableTime"`
	Time          int64  `json:"time"`
	TimeZone      string `json:"timeZone"`
	OffPeak       bool   `json:"offPeak"`
	Holiday       bool   `json:"holiday"`
	NextDeparture int64  `json:"nextDeparture"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData renders t in loc. A nil loc keeps t's own zone. The fare
// period and next departure are left for the caller.
func NewCurrentTimeData(t time.Time, loc *time.Location) CurrentTimeData {
	if loc != nil {
		t = t.In(loc)
	}
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
			TimeZone:     t.Location().String(),
		},
		References: NewEmptyReferences(),
	}
}
