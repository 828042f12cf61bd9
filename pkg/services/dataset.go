package services

import (
	"github.com/nordluma/sqlite-mt-tests/pkg/models"
	"github.com/nordluma/sqlite-mt-tests/pkg/namegen"
)

// BuildDataset materializes n generated users. The slice is built once
// before dispatch and treated as read-only by every worker.
func BuildDataset(n int, gen namegen.Generator) []models.User {
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{Name: gen.Name()}
	}
	return users
}

// partition splits users into n stride-based subsets: subset i holds the
// items at indices i, i+n, i+2n, ... Their union is exactly the input and
// no item lands in more than one subset. Callers validate n >= 1.
func partition(users []models.User, n int) [][]models.User {
	parts := make([][]models.User, n)
	for i := range parts {
		parts[i] = make([]models.User, 0, (len(users)+n-1-i)/n)
	}
	for i, u := range users {
		parts[i%n] = append(parts[i%n], u)
	}
	return parts
}
