package gemini

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/insight"
)

func TestNew(t *testing.T) {
	assert.Nil(t, New(core.InsightConfig{APIKey: "  "}))

	c := New(core.InsightConfig{APIKey: "key"})
	if assert.NotNil(t, c) {
		assert.Equal(t, DefaultModel, c.Model())
	}
	c = New(core.InsightConfig{APIKey: "key", Model: "gemini-2.0-flash"})
	assert.Equal(t, "gemini-2.0-flash", c.Model())
}

func TestClient_Summarize_unconfigured(t *testing.T) {
	var c *Client
	_, err := c.Summarize(context.Background(), "hello")
	assert.True(t, errors.Is(err, insight.ErrUnavailable))
}
