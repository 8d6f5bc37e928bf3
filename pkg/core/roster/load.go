package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

type memberRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoadMembers reads the roster file: a JSON object mapping member id to
// {name, email, role}. The object's key order defines the rotation order,
// so the object is decoded token by token rather than into a map.
func LoadMembers(path string) ([]model.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("roster file must be a JSON object of members")
	}

	var members []model.Member
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse roster file: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("roster file has a non-string member id")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate member id %q in roster", id)
		}
		seen[id] = true

		var rec memberRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to parse roster entry %q: %w", id, err)
		}
		if rec.Name == "" || rec.Email == "" || rec.Role == "" {
			return nil, fmt.Errorf("roster entry %q is missing name, email or role", id)
		}

		members = append(members, model.Member{
			ID:    id,
			Name:  rec.Name,
			Email: rec.Email,
			Role:  model.Role(rec.Role),
		})
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("roster file contains no members")
	}

	return members, nil
}
