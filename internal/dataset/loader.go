// Package dataset loads seed data files and applies them to a store. A seed
// file bootstraps a deployment with an initial catalog of faculty, rooms, and
// courses so the engine can generate timetables without manual entry.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/timetable"
)

// Window is one availability range in a seed file. Days are spelled out by
// name so files stay readable.
type Window struct {
	Day       string `mapstructure:"day"`
	StartHour int    `mapstructure:"start_hour"`
	EndHour   int    `mapstructure:"end_hour"`
}

// Faculty is one faculty record in a seed file. The ID is optional; a missing
// ID is generated during Apply.
type Faculty struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	Email        string   `mapstructure:"email"`
	Department   string   `mapstructure:"department"`
	Availability []Window `mapstructure:"availability"`
}

// Room is one room record in a seed file.
type Room struct {
	ID           string   `mapstructure:"id"`
	Number       string   `mapstructure:"number"`
	Type         string   `mapstructure:"type"`
	Capacity     int      `mapstructure:"capacity"`
	Availability []Window `mapstructure:"availability"`
}

// Course is one course record in a seed file. FacultyID may reference either
// the seed-file ID or the email address of a faculty entry in the same file.
type Course struct {
	ID         string `mapstructure:"id"`
	Code       string `mapstructure:"code"`
	Name       string `mapstructure:"name"`
	Department string `mapstructure:"department"`
	Year       int    `mapstructure:"year"`
	Credits    int    `mapstructure:"credits"`
	Sessions   int    `mapstructure:"sessions"`
	FacultyID  string `mapstructure:"faculty_id"`
	Enrollment int    `mapstructure:"enrollment"`
}

// Seed is a full seed file.
type Seed struct {
	Faculty []Faculty `mapstructure:"faculty"`
	Rooms   []Room    `mapstructure:"rooms"`
	Courses []Course  `mapstructure:"courses"`
}

// Load reads and decodes the seed file at path.
func Load(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return Seed{}, fmt.Errorf("dataset: parse %s: %w", path, err)
	}

	var seed Seed
	if err := mapstructure.Decode(document, &seed); err != nil {
		return Seed{}, fmt.Errorf("dataset: decode %s: %w", path, err)
	}
	return seed, nil
}

// Apply writes the seed records to the store. Missing IDs are filled from
// generateID and every record is stamped with now. Course faculty references
// are resolved against the seed's own faculty entries by ID or email.
func (s Seed) Apply(ctx context.Context, store persistence.Store, generateID func() string, now func() time.Time) error {
	if generateID == nil || now == nil {
		return fmt.Errorf("dataset: generateID and now are required")
	}

	stamp := now()
	facultyIDs := make(map[string]string, len(s.Faculty)*2)

	for i, f := range s.Faculty {
		windows, err := decodeSeedWindows(f.Availability)
		if err != nil {
			return fmt.Errorf("dataset: faculty %d (%s): %w", i, f.Name, err)
		}
		id := f.ID
		if id == "" {
			id = generateID()
		}
		facultyIDs[id] = id
		if f.Email != "" {
			facultyIDs[strings.ToLower(f.Email)] = id
		}

		record := persistence.Faculty{
			ID:           id,
			Name:         f.Name,
			Email:        f.Email,
			Department:   f.Department,
			Availability: windows,
			CreatedAt:    stamp,
			UpdatedAt:    stamp,
		}
		if err := store.CreateFaculty(ctx, record); err != nil {
			return fmt.Errorf("dataset: create faculty %s: %w", f.Name, err)
		}
	}

	for i, r := range s.Rooms {
		windows, err := decodeSeedWindows(r.Availability)
		if err != nil {
			return fmt.Errorf("dataset: room %d (%s): %w", i, r.Number, err)
		}
		id := r.ID
		if id == "" {
			id = generateID()
		}

		record := persistence.Room{
			ID:           id,
			Number:       r.Number,
			Type:         r.Type,
			Capacity:     r.Capacity,
			Availability: windows,
			CreatedAt:    stamp,
			UpdatedAt:    stamp,
		}
		if err := store.CreateRoom(ctx, record); err != nil {
			return fmt.Errorf("dataset: create room %s: %w", r.Number, err)
		}
	}

	for i, c := range s.Courses {
		facultyID, ok := facultyIDs[c.FacultyID]
		if !ok {
			facultyID, ok = facultyIDs[strings.ToLower(c.FacultyID)]
		}
		if !ok {
			return fmt.Errorf("dataset: course %d (%s): unknown faculty reference %q", i, c.Code, c.FacultyID)
		}
		id := c.ID
		if id == "" {
			id = generateID()
		}

		record := persistence.Course{
			ID:         id,
			Code:       strings.ToUpper(c.Code),
			Name:       c.Name,
			Department: c.Department,
			Year:       c.Year,
			Credits:    c.Credits,
			Sessions:   c.Sessions,
			FacultyID:  facultyID,
			Enrollment: c.Enrollment,
			CreatedAt:  stamp,
			UpdatedAt:  stamp,
		}
		if err := store.CreateCourse(ctx, record); err != nil {
			return fmt.Errorf("dataset: create course %s: %w", c.Code, err)
		}
	}

	return nil
}

func decodeSeedWindows(windows []Window) ([]persistence.Window, error) {
	if len(windows) == 0 {
		return nil, nil
	}
	decoded := make([]persistence.Window, 0, len(windows))
	for i, w := range windows {
		day, err := timetable.ParseDay(w.Day)
		if err != nil {
			return nil, fmt.Errorf("availability window %d: %w", i, err)
		}
		if w.StartHour >= w.EndHour {
			return nil, fmt.Errorf("availability window %d: start %d is not before end %d", i, w.StartHour, w.EndHour)
		}
		decoded = append(decoded, persistence.Window{
			Day:       int(day),
			StartHour: w.StartHour,
			EndHour:   w.EndHour,
		})
	}
	return decoded, nil
}
