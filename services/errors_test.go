package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", gorm.ErrDuplicatedKey, true},
		{"wrapped", fmt.Errorf("insert task: %w", gorm.ErrDuplicatedKey), true},
		{"sqlite", errors.New("UNIQUE constraint failed: cleaning_tasks.active_room_id"), true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry '3' for key 'idx_cleaning_tasks_active_room'"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx_cleaning_tasks_active_room"`), true},
		{"other", errors.New("FOREIGN KEY constraint failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
