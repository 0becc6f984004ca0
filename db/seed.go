package db

import (
	"encoding/json"
	"fmt"
	"os"

	"attendance-server-go/models"
)

// DefaultSeed is the roster used when no seed file is configured
func DefaultSeed() []models.Classroom {
	return []models.Classroom{
		{
			ID:   1,
			Name: "Go Backend Class 1",
			Students: []models.Student{
				{Name: "Alice", Roll: "01"},
				{Name: "Bob", Roll: "02"},
				{Name: "Charlie", Roll: "03"},
			},
		},
		{
			ID:   2,
			Name: "Python Data Science 2",
			Students: []models.Student{
				{Name: "David", Roll: "01"},
				{Name: "Eve", Roll: "02"},
			},
		},
	}
}

// LoadSeed reads a JSON array of classrooms from path.
// An empty path yields DefaultSeed.
func LoadSeed(path string) ([]models.Classroom, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var classes []models.Classroom
	if err := json.Unmarshal(b, &classes); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	for i := range classes {
		if classes[i].Students == nil {
			classes[i].Students = []models.Student{}
		}
	}
	return classes, nil
}
