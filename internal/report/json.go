package report

import (
	"encoding/json"
	"fmt"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

type jsonReport struct {
	Count   int             `json:"count"`
	Flights []flight.Record `json:"flights"`
}

// RenderJSON keeps every record field; absent fields are omitted rather
// than written as N/A.
func RenderJSON(records []flight.Record) ([]byte, error) {
	if records == nil {
		records = []flight.Record{}
	}
	payload, err := json.MarshalIndent(jsonReport{Count: len(records), Flights: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json report: %w", err)
	}
	return append(payload, '\n'), nil
}
