package model

import (
	"fmt"
	"strings"
	"time"
)

// ProposalCSV is one row of a bulk proposal upload.
type ProposalCSV struct {
	Title       string `csv:"title"`
	Description string `csv:"description"`
	Venue       string `csv:"venue"`
	Date        string `csv:"date"`
	Info        string `csv:"info"`
	Capacity    int    `csv:"capacity"`
}

var csvDateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// Fields converts the row into proposal fields. Dates without a zone are UTC.
func (r *ProposalCSV) Fields() (ProposalFields, error) {
	raw := strings.TrimSpace(r.Date)
	for _, layout := range csvDateLayouts {
		d, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return ProposalFields{
				Title:       strings.TrimSpace(r.Title),
				Description: strings.TrimSpace(r.Description),
				Venue:       strings.TrimSpace(r.Venue),
				Date:        d,
				Info:        r.Info,
				Capacity:    r.Capacity,
			}, nil
		}
	}
	return ProposalFields{}, fmt.Errorf("unrecognised date %q", r.Date)
}
