package migrations_test

import (
	"testing"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/migrations"

	"github.com/stretchr/testify/assert"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/todos?sslmode=disable", "pgx5://u:p@localhost:5432/todos?sslmode=disable"},
		{"postgresql://u:p@db/todos", "pgx5://u:p@db/todos"},
		{"pgx5://u:p@db/todos", "pgx5://u:p@db/todos"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migrations.DriverURL(tt.in))
		})
	}
}
