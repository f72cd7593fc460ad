package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	top := "\n  XY  \n"
	assert.Equal(t, "aaaaaa\nbbXYbb\ncccccc", Compose(base, top, 6))
}

func TestCompose_PadsShortBase(t *testing.T) {
	assert.Equal(t, "ab X  ", Compose("ab", "   X", 6))
}

func TestCompose_TopTallerThanBase(t *testing.T) {
	assert.Equal(t, "Z", Compose("a", "Z\nQ", 1))
}
