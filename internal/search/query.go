// Package search translates the public search endpoint's query parameters
// into Mongo filter expressions and page windows.
package search

import (
	"net/url"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Params holds the optional filter criteria of a book search. Title and
// Author take a single value; the remaining fields accept one or many.
type Params struct {
	Title                string
	Author               string
	Genres               []string
	Conditions           []string
	AvailabilityStatuses []string
}

func ParamsFromQuery(q url.Values) Params {
	return Params{
		Title:                q.Get("title"),
		Author:               q.Get("author"),
		Genres:               dropEmpty(q["genre"]),
		Conditions:           dropEmpty(q["condition"]),
		AvailabilityStatuses: dropEmpty(q["availabilityStatus"]),
	}
}

// BuildFilter produces the store filter for the given criteria. Matching
// is a case-insensitive prefix match on every field; list-valued fields
// match any of their values. Empty values impose no constraint.
func BuildFilter(p Params) bson.M {
	filter := bson.M{}

	if p.Title != "" {
		filter["title"] = prefixRegex(p.Title)
	}
	if p.Author != "" {
		filter["author"] = prefixRegex(p.Author)
	}
	if len(p.Genres) > 0 {
		filter["genre"] = anyPrefix(p.Genres)
	}
	if len(p.Conditions) > 0 {
		filter["condition"] = anyPrefix(p.Conditions)
	}
	if len(p.AvailabilityStatuses) > 0 {
		filter["availabilityStatus"] = anyPrefix(p.AvailabilityStatuses)
	}

	return filter
}

// prefixRegex anchors at the start of the string, so "Du" matches "Dune"
// but not "Adune".
func prefixRegex(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value), Options: "i"}
}

func anyPrefix(values []string) bson.M {
	patterns := make([]primitive.Regex, 0, len(values))
	for _, v := range values {
		patterns = append(patterns, prefixRegex(v))
	}
	return bson.M{"$in": patterns}
}

func dropEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
