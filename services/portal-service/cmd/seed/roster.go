package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
)

// rosterEntry is one registered student in a roster file.
type rosterEntry struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
	Year       int    `yaml:"year"`
	Password   string `yaml:"password"`
}

type roster struct {
	Users []rosterEntry `yaml:"users"`
}

// parseRoster reads and validates a roster. Emails are normalized and must
// be unique across the file.
func parseRoster(r io.Reader) ([]rosterEntry, error) {
	var parsed roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("roster is empty")
		}
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	seen := make(map[string]int, len(parsed.Users))
	for i := range parsed.Users {
		entry := &parsed.Users[i]
		entry.Email = model.NormalizeEmail(entry.Email)

		if entry.Email == "" {
			return nil, fmt.Errorf("entry %d: email is required", i+1)
		}
		if !model.ValidYear(entry.Year) {
			return nil, fmt.Errorf("entry %d (%s): year must be 1 or 2, got %d", i+1, entry.Email, entry.Year)
		}
		if prev, ok := seen[entry.Email]; ok {
			return nil, fmt.Errorf("entry %d: %s already listed in entry %d", i+1, entry.Email, prev)
		}
		seen[entry.Email] = i + 1
	}

	return parsed.Users, nil
}
