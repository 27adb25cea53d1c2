package geo

import (
	"fmt"
	"strings"
)

// NotAvailable is shown when a report has no usable position.
const NotAvailable = "N/A"

// Display is a human-readable position with the primary point, if any.
type Display struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Format renders a decoded location with five decimals.
func Format(loc Location) string {
	if loc.Secondary != nil {
		return fmt.Sprintf("%.5f, %.5f → %.5f, %.5f",
			loc.Primary.Lat, loc.Primary.Lng, loc.Secondary.Lat, loc.Secondary.Lng)
	}
	return fmt.Sprintf("%.5f, %.5f", loc.Primary.Lat, loc.Primary.Lng)
}

// DisplayPosition decodes payload for list and detail views. Undecodable
// payloads render as NotAvailable.
func DisplayPosition(payload string) Display {
	loc, err := Decode(payload)
	if err != nil {
		return Display{Text: NotAvailable}
	}
	return displayOf(loc)
}

// DisplayPositionOrRaw is DisplayPosition, except that a non-empty payload
// that cannot be decoded is shown verbatim instead of NotAvailable.
func DisplayPositionOrRaw(payload string) Display {
	loc, err := Decode(payload)
	if err != nil {
		if strings.TrimSpace(payload) == "" {
			return Display{Text: NotAvailable}
		}
		return Display{Text: payload}
	}
	return displayOf(loc)
}

func displayOf(loc Location) Display {
	lat, lng := loc.Primary.Lat, loc.Primary.Lng
	return Display{Text: Format(loc), Lat: &lat, Lng: &lng}
}
