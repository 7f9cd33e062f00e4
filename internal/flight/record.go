package flight

// Field names as they appear in extraction schemas.
const (
	FieldAirline        = "airline"
	FieldDepartureTime  = "departure_time"
	FieldArrivalTime    = "arrival_time"
	FieldTimes          = "times"
	FieldDuration       = "duration"
	FieldStops          = "stops"
	FieldLayoverAirport = "layover_airport"
	FieldPrice          = "price"
	FieldFareType       = "fare_type"
	FieldProvider       = "provider"
	FieldOrigin         = "origin"
	FieldDestination    = "destination"
)

// Record is one extracted search result. Every field is an optional display
// string; the empty string means the selector matched nothing.
type Record struct {
	Airline        string `json:"airline,omitempty"`
	DepartureTime  string `json:"departure_time,omitempty"`
	ArrivalTime    string `json:"arrival_time,omitempty"`
	Times          string `json:"times,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Stops          string `json:"stops,omitempty"`
	LayoverAirport string `json:"layover_airport,omitempty"`
	Price          string `json:"price,omitempty"`
	FareType       string `json:"fare_type,omitempty"`
	Provider       string `json:"provider,omitempty"`
	Origin         string `json:"origin,omitempty"`
	Destination    string `json:"destination,omitempty"`
}

var fieldNames = []string{
	FieldAirline,
	FieldDepartureTime,
	FieldArrivalTime,
	FieldTimes,
	FieldDuration,
	FieldStops,
	FieldLayoverAirport,
	FieldPrice,
	FieldFareType,
	FieldProvider,
	FieldOrigin,
	FieldDestination,
}

func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

func KnownField(name string) bool {
	return (&Record{}).ref(name) != nil
}

// Set assigns value to the named field and reports whether the name is known.
func (r *Record) Set(name, value string) bool {
	ptr := r.ref(name)
	if ptr == nil {
		return false
	}
	*ptr = value
	return true
}

func (r Record) Get(name string) string {
	ptr := r.ref(name)
	if ptr == nil {
		return ""
	}
	return *ptr
}

func (r Record) IsEmpty() bool {
	return r == Record{}
}

func (r *Record) ref(name string) *string {
	switch name {
	case FieldAirline:
		return &r.Airline
	case FieldDepartureTime:
		return &r.DepartureTime
	case FieldArrivalTime:
		return &r.ArrivalTime
	case FieldTimes:
		return &r.Times
	case FieldDuration:
		return &r.Duration
	case FieldStops:
		return &r.Stops
	case FieldLayoverAirport:
		return &r.LayoverAirport
	case FieldPrice:
		return &r.Price
	case FieldFareType:
		return &r.FareType
	case FieldProvider:
		return &r.Provider
	case FieldOrigin:
		return &r.Origin
	case FieldDestination:
		return &r.Destination
	default:
		return nil
	}
}
