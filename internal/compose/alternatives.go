package compose

import (
	"sort"
	"strings"
	"unicode"
)

const MaxAlternatives = 4

type alternative struct {
	text     string
	keywords []string
}

// catalogue order breaks ties between equally relevant entries.
var catalogue = []alternative{
	{"Check the rent schedule in your tenancy portal for the current rent amount and due dates",
		[]string{"rent", "payment", "paid", "pay", "arrears", "amount", "deposit"}},
	{"Look at the first page of the agreement, where the start date and term are usually stated",
		[]string{"date", "term", "start", "end", "expir", "renew", "when", "notice"}},
	{"Ask your property manager to confirm the landlord and tenant details held on file",
		[]string{"landlord", "tenant", "part", "owner", "name", "occupier"}},
	{"Download the latest gas safety, EICR and EPC certificates from the building compliance records",
		[]string{"certificat", "gas", "safety", "complian", "epc", "eicr", "inspection", "fire", "electric"}},
	{"Search the building directory for the property address and unit number",
		[]string{"address", "property", "unit", "flat", "building", "postcode", "location"}},
	{"Check the final page of the document for signatures and witness details",
		[]string{"sign", "witness", "execut"}},
}

var general = []alternative{
	{text: "Ask a narrower question, for example about a specific page or clause"},
	{text: "Upload only the pages that matter so the answer comes back faster"},
	{text: "Contact your property manager if you need the answer urgently"},
}

// Alternatives ranks the catalogue by how many question words hit an entry's
// keywords. Matching entries come first, then general advice, then the rest.
// It always returns between 1 and MaxAlternatives entries.
func Alternatives(question string, limit int) []string {
	if limit <= 0 || limit > MaxAlternatives {
		limit = MaxAlternatives
	}
	words := questionWords(question)

	type ranked struct {
		alt   alternative
		score int
	}
	var matched, unmatched []ranked
	for _, a := range catalogue {
		r := ranked{alt: a, score: overlap(words, a.keywords)}
		if r.score > 0 {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })

	out := make([]string, 0, limit)
	for _, r := range matched {
		out = append(out, r.alt.text)
	}
	for _, a := range general {
		out = append(out, a.text)
	}
	for _, r := range unmatched {
		out = append(out, r.alt.text)
	}
	return out[:limit]
}

func questionWords(question string) []string {
	return strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// overlap counts question words starting with any keyword, so "dates" hits
// "date" and "signatures" hits "sign".
func overlap(words, keywords []string) int {
	n := 0
	for _, w := range words {
		for _, k := range keywords {
			if strings.HasPrefix(w, k) {
				n++
				break
			}
		}
	}
	return n
}
