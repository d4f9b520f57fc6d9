package mysql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{"普通关键词不变", "Ugly Love", "Ugly Love"},
		{"百分号按字面转义", "100%", `100\%`},
		{"下划线按字面转义", "snake_case", `snake\_case`},
		{"反斜杠先于通配符转义", `a\%b`, `a\\\%b`},
		{"空串", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.keyword))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(errors.New("Error 1062 (23000): Duplicate entry '978-1' for key 'books.isbn'")))
	assert.False(t, isDuplicateError(errors.New("Error 1213 (40001): Deadlock found")))
}
