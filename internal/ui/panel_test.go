package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanel_Geometry(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		width, rows  int
		wantDrawable bool
	}{
		{"zero", 0, 0, 0, 0, false},
		{"border only", 2, 4, 0, 0, false},
		{"one row", 10, 5, 8, 1, true},
		{"typical", 80, 20, 78, 16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Panel
			p.SetSize(tt.w, tt.h)
			assert.Equal(t, tt.width, p.ContentWidth())
			assert.Equal(t, tt.rows, p.Rows())
			assert.Equal(t, tt.wantDrawable, p.Drawable())
		})
	}
}

func TestPanel_Focus(t *testing.T) {
	var p Panel
	assert.False(t, p.Focused())
	p.SetFocused(true)
	assert.True(t, p.Focused())
}
