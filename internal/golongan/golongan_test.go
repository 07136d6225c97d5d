package golongan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kinerja-cli/internal/model"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  model.Golongan
	}{
		{"IV/c", model.Golongan{Level: "IV", Grade: "c", Formatted: "IV/c", DisplayName: "Pembina Utama Muda"}},
		{"3-b", model.Golongan{Level: "III", Grade: "b", Formatted: "III/b", DisplayName: "Penata Muda Tingkat I"}},
		{"II c", model.Golongan{Level: "II", Grade: "c", Formatted: "II/c", DisplayName: "Pengatur"}},
		{" iiid ", model.Golongan{Level: "III", Grade: "d", Formatted: "III/d", DisplayName: "Penata Tingkat I"}},
		{"1/A", model.Golongan{Level: "I", Grade: "a", Formatted: "I/a", DisplayName: "Juru Muda"}},
		{"IV/e", model.Golongan{Level: "IV", Grade: "e", Formatted: "IV/e", DisplayName: "Pembina Utama"}},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.input)
		require.True(t, ok, "input: %q", tt.input)
		assert.Equal(t, tt.want, got, "input: %q", tt.input)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{
		"", "V/a", "IV/f", "IV//a", "IV a b", "5-a", "honorer", "-", "IV", "a", "IV/ a",
	} {
		_, ok := Parse(input)
		assert.False(t, ok, "input: %q", input)
	}
}

func TestParse_FormatEquivalence(t *testing.T) {
	a, okA := Parse("4/a")
	b, okB := Parse("IV-a")
	c, okC := Parse("iv a")
	require.True(t, okA && okB && okC)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestParse_RoundTripEveryPair(t *testing.T) {
	for _, level := range Levels {
		for _, grade := range Grades {
			first, ok := Parse(level + "/" + grade)
			require.True(t, ok, "%s/%s", level, grade)
			assert.NotEmpty(t, first.DisplayName, "%s/%s", level, grade)

			again, ok := Parse(first.Formatted)
			require.True(t, ok, "%s", first.Formatted)
			assert.Equal(t, first, again)
		}
	}
	assert.Len(t, displayNames, len(Levels)*len(Grades))
}

func TestEmployeeStatus(t *testing.T) {
	assert.Equal(t, model.StatusASN, EmployeeStatus("III/a"))
	assert.Equal(t, model.StatusNonASN, EmployeeStatus("Honorer"))
	assert.Equal(t, model.StatusNonASN, EmployeeStatus("-"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Pembina", DisplayName("4a"))
	assert.Equal(t, "", DisplayName("X/a"))
}
