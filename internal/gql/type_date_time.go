package gql

import (
	"fmt"
	"time"
)

// serverLayouts are the timestamp formats the build server emits, most specific first.
// Timestamps without a zone are UTC.
var serverLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// DateTime represents a custom scalar for time.Time values
type DateTime struct {
	time.Time
}

// ImplementsGraphQLType returns the GraphQL type name
func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

// UnmarshalGraphQL unmarshals a GraphQL DateTime value
func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch input := input.(type) {
	case string:
		parsedTime, err := time.Parse(time.RFC3339, input)
		if err != nil {
			return fmt.Errorf("failed to parse DateTime: %w", err)
		}
		t.Time = parsedTime
		return nil
	case time.Time:
		t.Time = input
		return nil
	default:
		return fmt.Errorf("invalid DateTime type: %T", input)
	}
}

// MarshalJSON marshals DateTime to JSON (RFC3339 format)
func (t DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// ParseServerTime parses a timestamp as returned by the build server
func ParseServerTime(s string) (time.Time, error) {
	for _, layout := range serverLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// NewDateTimePtrFromServer creates a *DateTime from an optional server timestamp.
// Missing or unparseable values resolve to null.
func NewDateTimePtrFromServer(s *string) *DateTime {
	if s == nil {
		return nil
	}
	t, err := ParseServerTime(*s)
	if err != nil {
		return nil
	}
	return &DateTime{Time: t}
}
