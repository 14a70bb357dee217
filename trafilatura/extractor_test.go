package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements docmerge.Extractor at compile time.
var _ docmerge.Extractor = (*trafilatura.Extractor)(nil)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Quickstart - Pipecat</title></head>
<body>
<nav><a href="/">Home</a><a href="/guides">Guides</a></nav>
<main>
<article>
<h1>Quickstart</h1>
<p>Pipecat is an open source framework for building voice and multimodal conversational agents.</p>
<p>This guide walks through installing the package, configuring a transport and running your first bot locally.</p>
<p>Each pipeline is a sequence of processors that receive frames, transform them and push them downstream.</p>
</article>
</main>
<footer>Copyright Pipecat</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content text", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articleHTML)

		require.NoError(t, err)
		assert.Contains(t, result.ContentText, "open source framework")
	})

	t.Run("extracts content HTML", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articleHTML)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "sequence of processors")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("   ")

		require.Error(t, err)
		assert.Equal(t, docmerge.EINVALID, docmerge.ErrorCode(err))
	})
}
