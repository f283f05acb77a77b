package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dyike/CreditIntel/internal/models"
)

//go:embed seed/companies.json
var defaultSeed []byte

var seedDateLayouts = []string{time.RFC3339, "2006-01-02", "January 02, 2006"}

// DefaultSeed returns the bundled demo companies.
func DefaultSeed() ([]Record, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads a seed file in the same format as the bundled one.
func LoadSeedFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a JSON array of company details. lastUpdated may be an
// RFC 3339 timestamp, a YYYY-MM-DD date, or already display formatted; when
// absent it defaults to now.
func ParseSeed(data []byte) ([]Record, error) {
	var details []models.CompanyDetail
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	records := make([]Record, 0, len(details))
	for _, d := range details {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("seed entry without a name")
		}
		updated := time.Now().UTC()
		if d.LastUpdated != "" {
			t, err := parseSeedDate(d.LastUpdated)
			if err != nil {
				return nil, fmt.Errorf("seed %s: %w", d.Name, err)
			}
			updated = t
		}
		d.LastUpdated = ""
		records = append(records, Record{Detail: d, LastUpdated: updated})
	}
	return records, nil
}

func parseSeedDate(s string) (time.Time, error) {
	for _, layout := range seedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised lastUpdated %q", s)
}
