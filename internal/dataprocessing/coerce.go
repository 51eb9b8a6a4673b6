package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"datacleaner/pkg/contracts/domain"
)

var (
	truthy = map[string]bool{"true": true, "yes": true, "y": true, "t": true, "1": true, "on": true}
	falsy  = map[string]bool{"false": true, "no": true, "n": true, "f": true, "0": true, "off": true}
)

// fixDataTypes re-infers the kind of every text column. A column converts
// only when every present cell parses; otherwise it is left untouched.
func fixDataTypes(t *domain.Table) []Conversion {
	var conversions []Conversion
	convert := func(col *domain.Column, kind domain.Kind, values []domain.Value) {
		conversions = append(conversions, Conversion{Column: col.Name, From: col.Kind, To: kind})
		col.Kind = kind
		col.Values = values
	}

	for _, col := range t.ColumnsOfKind(domain.KindText) {
		if values, ok := parseDates(col.Values); ok {
			convert(col, domain.KindDatetime, values)
			continue
		}
		if values, ok := parseNumbers(col.Values); ok {
			convert(col, domain.KindNumeric, values)
		}
	}

	for _, col := range t.ColumnsOfKind(domain.KindText) {
		if values, ok := parseBinary(col.Values); ok {
			convert(col, domain.KindBoolean, values)
		}
	}
	return conversions
}

// parseAll applies parse to every present cell, all or nothing.
// A column without present cells never converts.
func parseAll(values []domain.Value, parse func(string) (domain.Value, bool)) ([]domain.Value, bool) {
	out := make([]domain.Value, len(values))
	present := 0
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		parsed, ok := parse(v.Str())
		if !ok {
			return nil, false
		}
		out[i] = parsed
		present++
	}
	return out, present > 0
}

// parseDates accepts YYYY-MM-DD and nothing else
func parseDates(values []domain.Value) ([]domain.Value, bool) {
	return parseAll(values, func(s string) (domain.Value, bool) {
		d, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return domain.Value{}, false
		}
		return domain.Date(d), true
	})
}

func parseNumbers(values []domain.Value) ([]domain.Value, bool) {
	return parseAll(values, func(s string) (domain.Value, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return domain.Value{}, false
		}
		return domain.Number(f), true
	})
}

// parseBinary converts a column with exactly two distinct present values to
// booleans. A truthy/falsy pair such as yes/no or Off/On maps by meaning.
// Every other pair maps the first encountered value to true, including pairs
// of two recognised words on the same side ("no"/"n") or from different
// vocabularies that are not opposites by spelling ("1"/"yes").
func parseBinary(values []domain.Value) ([]domain.Value, bool) {
	distinct := distinctPresent(values)
	if len(distinct) != 2 {
		return nil, false
	}
	trueKey, falseKey := distinct[0].Key(), distinct[1].Key()
	a := strings.ToLower(strings.TrimSpace(distinct[0].Str()))
	b := strings.ToLower(strings.TrimSpace(distinct[1].Str()))
	if falsy[a] && truthy[b] {
		trueKey, falseKey = falseKey, trueKey
	}

	out := make([]domain.Value, len(values))
	for i, v := range values {
		switch v.Key() {
		case trueKey:
			out[i] = domain.Bool(true)
		case falseKey:
			out[i] = domain.Bool(false)
		}
	}
	return out, true
}
