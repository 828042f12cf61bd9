// Package models defines the data types shared across the seeding pipeline.
package models

import "fmt"

// User represents a row in the users table. ID is zero until the row has
// been persisted; the store assigns it on insert.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// String renders the user the way the select listing prints rows.
func (u User) String() string {
	return fmt.Sprintf("id: %d name: %s", u.ID, u.Name)
}

// SeedResult summarizes one insert invocation across all workers.
type SeedResult struct {
	// Inserted is the number of rows successfully written.
	Inserted int64 `json:"inserted"`
	// Failed is the number of items skipped after a per-item failure,
	// almost always a duplicate name hitting the unique constraint.
	Failed int64 `json:"failed"`
	// Workers is the size of the pool that performed the run.
	Workers int `json:"workers"`
}
