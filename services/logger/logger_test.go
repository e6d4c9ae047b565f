package logsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

func TestZeroLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{AppName: "Shule", Env: "TEST", Debug: true}
	l := NewZeroLogger(&buf, conf)

	usr, err := user.Resolve(user.RoleTeacher)
	require.NoError(t, err)
	l.Error("saving result", errors.New("disk full"), map[string]interface{}{"student": "f1n-s1"}, usr)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "saving result", entry["message"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "f1n-s1", entry["student"])
	assert.Equal(t, "t1", entry["user_id"])
	assert.Equal(t, "TEACHER", entry["user_role"])
	assert.Equal(t, "Shule", entry["app"])
}

func TestZeroLogger_levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, &core.Config{})
	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Info("shown")
	assert.Contains(t, buf.String(), "shown")

	var code int
	l.exit = func(c int) { code = c }
	l.Fatal("bye")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), `"level":"fatal"`)
}

func TestNew(t *testing.T) {
	local := NewZeroLogger(&bytes.Buffer{}, &core.Config{})
	assert.Same(t, local, New(local, &core.Config{}))
	assert.Same(t, local, New(local, &core.Config{RollbarToken: "tok", TestMode: true}))
}
