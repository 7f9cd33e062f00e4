package flight

import "strings"

const DefaultURLTemplate = "https://www.kayak.com/flights/{origin}-{destination}/{date}"

// Query is the free-text search triple taken from the command line.
type Query struct {
	Origin      string
	Destination string
	Date        string
}

// URL substitutes the query values into template verbatim. Nothing is
// validated or escaped.
func (q Query) URL(template string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultURLTemplate
	}
	return strings.NewReplacer(
		"{origin}", q.Origin,
		"{destination}", q.Destination,
		"{date}", q.Date,
	).Replace(template)
}

// Slug joins the query values for artifact file names.
func (q Query) Slug() string {
	return q.Origin + "_" + q.Destination + "_" + q.Date
}
