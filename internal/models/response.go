package models

import (
	"net/http"

	"metroplanner.transit.org/internal/clock"
)

// ResponseModel is the envelope every API response is wrapped in.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the envelope timestamp in Unix milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	if c == nil {
		c = clock.RealClock{}
	}
	return c.NowUnixMilli()
}

func NewResponse(code int, data interface{}, text string, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

func NewOKResponse(data interface{}, c clock.Clock) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK", c)
}

// NewEntryResponse wraps a single object as {"entry": ..., "references": ...}.
func NewEntryResponse(entry interface{}, references ReferencesModel, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"entry":      entry,
		"references": references,
	}
	return NewOKResponse(data, c)
}

// NewListResponse wraps a collection as {"list": ..., "references": ..., "limitExceeded": false}.
func NewListResponse(list interface{}, references ReferencesModel, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
		"references":    references,
	}
	return NewOKResponse(data, c)
}
