package mapping

import (
	"fmt"
	"strings"

	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

// DefaultTimezone is used for locations that cannot be resolved any better.
const DefaultTimezone = "America/Denver"

// cityLocations covers offices whose city/state pair is not resolvable from
// the state alone or that need an explicit override.
var cityLocations = map[string]domain.Location{
	"Greenwood Village CO": {State: "CO", Timezone: "America/Denver"},
	"Abilene TX":           {State: "TX", Timezone: "America/Chicago"},
	"Tyler TX":             {State: "TX", Timezone: "America/Chicago"},
	"Rock Springs WY":      {State: "WY", Timezone: "America/Denver"},
	"Houston TX":           {State: "TX", Timezone: "America/Chicago"},
	"Denver CO":            {State: "CO", Timezone: "America/Denver"},
	"El Paso TX":           {State: "TX", Timezone: "America/Denver"},
	"Phoenix AZ":           {State: "AZ", Timezone: "America/Phoenix"},
}

var stateTimezones = map[string]string{
	"AL": "America/Chicago", "AK": "America/Anchorage", "AZ": "America/Phoenix",
	"AR": "America/Chicago", "CA": "America/Los_Angeles", "CO": "America/Denver",
	"CT": "America/New_York", "DE": "America/New_York", "DC": "America/New_York",
	"FL": "America/New_York", "GA": "America/New_York", "HI": "Pacific/Honolulu",
	"ID": "America/Boise", "IL": "America/Chicago", "IN": "America/Indiana/Indianapolis",
	"IA": "America/Chicago", "KS": "America/Chicago", "KY": "America/New_York",
	"LA": "America/Chicago", "ME": "America/New_York", "MD": "America/New_York",
	"MA": "America/New_York", "MI": "America/Detroit", "MN": "America/Chicago",
	"MS": "America/Chicago", "MO": "America/Chicago", "MT": "America/Denver",
	"NE": "America/Chicago", "NV": "America/Los_Angeles", "NH": "America/New_York",
	"NJ": "America/New_York", "NM": "America/Denver", "NY": "America/New_York",
	"NC": "America/New_York", "ND": "America/Chicago", "OH": "America/New_York",
	"OK": "America/Chicago", "OR": "America/Los_Angeles", "PA": "America/New_York",
	"RI": "America/New_York", "SC": "America/New_York", "SD": "America/Chicago",
	"TN": "America/Chicago", "TX": "America/Chicago", "UT": "America/Denver",
	"VT": "America/New_York", "VA": "America/New_York", "WA": "America/Los_Angeles",
	"WV": "America/New_York", "WI": "America/Chicago", "WY": "America/Denver",
}

// ResolveLocation finds the state and timezone for a city, using the state
// code when the city itself is unknown. ok is false when nothing matched.
func ResolveLocation(city, state string) (domain.Location, bool) {
	state = strings.ToUpper(strings.TrimSpace(state))

	key := city
	if len(state) == 2 {
		key = city + " " + state
	}

	if loc, found := cityLocations[key]; found {
		loc.Name = city
		return loc, true
	}

	if tz, found := stateTimezones[state]; found {
		return domain.Location{Name: city, State: state, Timezone: tz}, true
	}

	return domain.Location{Name: city, State: state, Timezone: DefaultTimezone}, false
}

// LocationsFromUsers derives the unique set of office locations from users'
// cities. Cities that cannot be resolved are reported in problems and skipped.
func LocationsFromUsers(users []domain.DirectoryUser) (locations []domain.Location, problems []string) {
	seen := make(map[string]struct{})

	for _, u := range users {
		city := strings.TrimSpace(u.City)
		if city == "" || city == "None" {
			continue
		}
		if _, dup := seen[city]; dup {
			continue
		}
		seen[city] = struct{}{}

		loc, ok := ResolveLocation(city, u.State)
		if !ok {
			problems = append(problems, fmt.Sprintf("could not find location info for: %s", city))
			continue
		}

		locations = append(locations, loc)
	}

	return locations, problems
}

// User maps a directory user to its stored record.
func User(u domain.DirectoryUser, locationID *int64) (domain.UserRecord, error) {
	created, err := domain.ParseDirectoryTime(u.CreatedDateTime)
	if err != nil {
		return domain.UserRecord{}, &coreerrors.Error{
			Kind:   coreerrors.KindMapping,
			Serial: u.ID,
			Field:  "createdDateTime",
			Msg:    fmt.Sprintf("user mapping failed for %s", u.DisplayName),
			Err:    err,
		}
	}

	return domain.UserRecord{
		DirectoryID:    u.ID,
		Name:           u.DisplayName,
		Email:          u.UserPrincipalName,
		JobTitle:       optional(u.JobTitle),
		Department:     optional(u.Department),
		CompanyName:    optional(u.CompanyName),
		City:           optional(strings.TrimSpace(u.City)),
		LocationID:     locationID,
		DirectoryAdded: created,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
