package progress

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		slug string
		want CourseRef
	}{
		{"web-designing-level-2", CourseRef{Name: "Web Designing", Level: "2", Display: "Web Designing Level 2"}},
		{"3d-printing-level-1", CourseRef{Name: "3D Printing", Level: "1", Display: "3D Printing Level 1"}},
		{"iot-level-3", CourseRef{Name: "IoT", Level: "3", Display: "IoT Level 3"}},
		{"python-level-beginner", CourseRef{Name: "Python", Level: "1", Display: "Python Level 1"}},
		{"  Robotics  ", CourseRef{Name: "Robotics", Display: "Robotics"}},
		{"lego-wedo-level-10", CourseRef{Name: "LEGO WeDo", Level: "10", Display: "LEGO WeDo Level 10"}},
		{"", CourseRef{}},
	}
	for _, tc := range tests {
		t.Run(tc.slug, func(t *testing.T) {
			assert.Equal(t, tc.want, n.NormalizeSlug(tc.slug))
		})
	}
}

func TestNormalizeSlugLevelSuffixForEveryLevel(t *testing.T) {
	n := NewNormalizer(nil)
	for level := 1; level <= 4; level++ {
		ref := n.NormalizeSlug(fmt.Sprintf("web-designing-level-%d", level))
		assert.Equal(t, fmt.Sprintf("Web Designing Level %d", level), ref.Display)
		assert.Equal(t, fmt.Sprint(level), ref.Level)
	}
}

func TestNormalizeSlugKeepsUnknownTokens(t *testing.T) {
	ref := NewNormalizer(nil).NormalizeSlug("quantum-widgets-level-1")
	assert.Equal(t, "quantum widgets", ref.Name)
	assert.True(t, IsSameCourseAndLevel(ref.Name, ref.Level, "Quantum Widgets", "1"))
}

func TestExtractCourseAndLevel(t *testing.T) {
	tests := []struct {
		label, name, level string
	}{
		{"3D Printing|1", "3D Printing", "1"},
		{" Python | 2 ", "Python", "2"},
		{"A|B|C", "A", "B|C"},
		{"Python Level 2", "Python", "2"},
		{"Web Designing level Beginner", "Web Designing", "Beginner"},
		{"Robotics", "Robotics", ""},
		{"Level Up", "Level Up", ""},
		{"", "", ""},
	}
	for _, tc := range tests {
		name, level := ExtractCourseAndLevel(tc.label)
		assert.Equal(t, tc.name, name, tc.label)
		assert.Equal(t, tc.level, level, tc.label)
	}
}

func TestIsSameCourseAndLevelIgnoresCaseAndWhitespace(t *testing.T) {
	assert.True(t, IsSameCourseAndLevel("Robotics ", "1", "robotics", " 1 "))
	assert.True(t, IsSameCourseAndLevel("Web  Designing", "beginner", "web designing", "1"))
	assert.False(t, IsSameCourseAndLevel("Robotics", "1", "Robotics", "2"))
	assert.False(t, IsSameCourseAndLevel("Robotics", "", "Robotics", "1"))
	assert.True(t, IsSameCourseAndLevel("Robotics", "", "robotics", ""))
}

func TestIsSameCourseAndLevelIsSymmetric(t *testing.T) {
	names := []string{"Python", "python ", "Java", "", "3D  Printing", "3d printing"}
	levels := []string{"", "1", " 1", "2", "Beginner", "advanced"}
	for _, a := range names {
		for _, b := range names {
			for _, l1 := range levels {
				for _, l2 := range levels {
					assert.Equal(t,
						IsSameCourseAndLevel(a, l1, b, l2),
						IsSameCourseAndLevel(b, l2, a, l1),
						"%q/%q vs %q/%q", a, l1, b, l2)
				}
			}
		}
	}
}

func TestCanonicalLevel(t *testing.T) {
	assert.Equal(t, "1", CanonicalLevel(" Beginner "))
	assert.Equal(t, "4", CanonicalLevel("EXPERT"))
	assert.Equal(t, "3", CanonicalLevel("3"))
	assert.Equal(t, "", CanonicalLevel("  "))
}
