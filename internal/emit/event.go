// Package emit assembles generated events into structured records, keeps the
// metrics registry current, and forwards each record to the log sink.
package emit

import (
	"encoding/json"
	"time"

	"github.com/loadhound/trafficgen/internal/geo"
)

// Event is one fabricated HTTP access-log record.
type Event struct {
	Timestamp  time.Time
	Level      string
	ClientIP   string
	UserID     int // zero means anonymous
	UserName   string
	SessionID  string
	Method     string
	Referrer   string
	StatusCode int
	Bytes      int
	URL        string
	Version    string
	UserAgent  string
	Message    string
	FlowName   string
	ErrorMsg   string
	Geo        *geo.Entry
}

type wireLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type wireGeocode struct {
	Location       wireLocation `json:"location"`
	CountryISOCode string       `json:"country_iso_code"`
	CountryName    string       `json:"country_name"`
	CityName       string       `json:"city_name"`
}

type wireRequest struct {
	Method   string `json:"method"`
	Referrer string `json:"referrer"`
}

type wireResponse struct {
	StatusCode int `json:"status_code"`
	Bytes      int `json:"bytes"`
}

type wireHTTP struct {
	Request  wireRequest  `json:"request"`
	Response wireResponse `json:"response"`
	URL      string       `json:"url"`
	Version  string       `json:"version"`
}

type wireUserAgent struct {
	Original string `json:"original"`
}

type wireEvent struct {
	Timestamp string        `json:"timestamp"`
	Level     string        `json:"level"`
	ClientIP  string        `json:"client_ip"`
	UserID    *int          `json:"user_id"`
	UserName  string        `json:"user_name"`
	SessionID string        `json:"session_id"`
	HTTP      wireHTTP      `json:"http"`
	UserAgent wireUserAgent `json:"user_agent"`
	Message   string        `json:"message"`
	Error     string        `json:"error,omitempty"`
	FlowName  string        `json:"flow_name,omitempty"`
	Geocode   *wireGeocode  `json:"geocode,omitempty"`
}

// MarshalJSON renders the sink schema: nested http / user_agent / geocode
// objects and an ISO-8601 UTC timestamp. Anonymous users serialize with a
// null user_id.
func (e *Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		Level:     e.Level,
		ClientIP:  e.ClientIP,
		UserName:  e.UserName,
		SessionID: e.SessionID,
		HTTP: wireHTTP{
			Request:  wireRequest{Method: e.Method, Referrer: e.Referrer},
			Response: wireResponse{StatusCode: e.StatusCode, Bytes: e.Bytes},
			URL:      e.URL,
			Version:  e.Version,
		},
		UserAgent: wireUserAgent{Original: e.UserAgent},
		Message:   e.Message,
		FlowName:  e.FlowName,
	}
	if e.UserID > 0 {
		id := e.UserID
		w.UserID = &id
	}
	if e.StatusCode >= 400 {
		w.Error = e.ErrorMsg
	}
	if e.Geo != nil {
		w.Geocode = &wireGeocode{
			Location:       wireLocation{Lat: e.Geo.Lat, Lon: e.Geo.Lon},
			CountryISOCode: e.Geo.CountryISOCode,
			CountryName:    e.Geo.CountryName,
			CityName:       e.Geo.CityName,
		}
	}
	return json.Marshal(w)
}
