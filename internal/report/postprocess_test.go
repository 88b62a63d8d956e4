package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antagata/campaign-winners/pkg/logger"
)

const postprocessPage = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<div id="chart"></div>
<div id="chart"></div>
<a href="dashboard.html">self</a>
<script id="race-data" type="application/json">{"metadata":{},"time_series":[]}</script>
</body></html>`

func TestPostProcess_RemovesDuplicateIDs(t *testing.T) {
	out, err := PostProcess([]byte(postprocessPage), logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), `id="chart"`))
}

func TestPostProcess_RewritesSelfLink(t *testing.T) {
	out, err := PostProcess([]byte(postprocessPage), logger.NewNop())
	require.NoError(t, err)

	assert.NotContains(t, string(out), `href="dashboard.html"`)
	assert.Contains(t, string(out), `href="index.html"`)
}

func TestPostProcess_MissingPayloadFails(t *testing.T) {
	page := `<html><body><div id="chart"></div></body></html>`
	_, err := PostProcess([]byte(page), logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "race-chart payload")
}

func TestPostProcess_MalformedPayloadFails(t *testing.T) {
	page := `<html><body><script id="race-data" type="application/json">{oops</script></body></html>`
	_, err := PostProcess([]byte(page), logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not parse")
}
