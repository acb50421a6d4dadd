package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
)

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		formatFlag = "json"
	})
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func TestNormalizeJSON(t *testing.T) {
	out := runRoot(t, "normalize", "3d-printing-level-1")

	var ref progress.CourseRef
	require.NoError(t, json.Unmarshal([]byte(out), &ref))
	assert.Equal(t, "3D Printing", ref.Name)
	assert.Equal(t, "1", ref.Level)
}

func TestNormalizeText(t *testing.T) {
	out := runRoot(t, "normalize", "--format", "text", "python-level-2", "scratch-junior")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "python-level-2\tPython\t2\tPython Level 2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "scratch-junior\t"))
}
