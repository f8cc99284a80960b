package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// seedFile is the json-server db.json layout: one key per collection.
type seedFile struct {
	Trips []domain.Trip `json:"trips"`
}

// loadSeed reads the trips collection of a db.json file. Every trip must
// pass validation so the service never starts with data it would reject.
func loadSeed(path string) ([]domain.Trip, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadSeed: %w", err)
	}
	var db seedFile
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("loadSeed: decode %s: %w", path, err)
	}
	for i, t := range db.Trips {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("loadSeed: trip %d (%s): %w", i, t.ID, err)
		}
	}
	return db.Trips, nil
}
