// Package model holds the fixed catalogue of Jumuia resort properties.
package model

const (
	Limuru  = "limuru"
	Kanamai = "kanamai"
	Kisumu  = "kisumu"
	// All selects every property in filters and statistics.
	All = "all"

	// RoomsPerProperty is the nominal room count used for occupancy.
	RoomsPerProperty = 30
)

type Property struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	BorderColor string `json:"border_color"`
}

var catalogue = []Property{
	{Code: Limuru, Name: "Jumuia Conference & Country Home Limuru", Location: "Limuru", BorderColor: "#2E7D32"},
	{Code: Kanamai, Name: "Jumuia Conference & Beach Resort Kanamai", Location: "Kanamai, Mombasa", BorderColor: "#0277BD"},
	{Code: Kisumu, Name: "Jumuia Hotel Kisumu", Location: "Kisumu", BorderColor: "#6A1B9A"},
}

// Codes lists property codes in catalogue order.
func Codes() []string {
	codes := make([]string, len(catalogue))
	for i, property := range catalogue {
		codes[i] = property.Code
	}

	return codes
}

func List() []Property {
	return append([]Property(nil), catalogue...)
}

func Get(code string) (Property, bool) {
	for _, property := range catalogue {
		if property.Code == code {
			return property, true
		}
	}

	return Property{}, false
}

func Valid(code string) bool {
	_, ok := Get(code)

	return ok
}

// Name returns the display name, or the code itself for unknown properties.
func Name(code string) string {
	if property, ok := Get(code); ok {
		return property.Name
	}

	return code
}

// Capacity is RoomsPerProperty for one property and the sum over the catalogue for All.
func Capacity(code string) int {
	if code == "" || code == All {
		return RoomsPerProperty * len(catalogue)
	}

	return RoomsPerProperty
}

// BorderColor returns the calendar border color for a property, grey when unknown.
func BorderColor(code string) string {
	if property, ok := Get(code); ok {
		return property.BorderColor
	}

	return "#6c757d"
}
