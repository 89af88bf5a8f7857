package fileanalysis

import (
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamtap/streamtap/internal/testutil"
)

// runFeed plays an interleaved byte/gap sequence through a fresh manager
// with the given analyzers attached and returns the sink results.
func runFeed(t *testing.T, content []byte, kinds ...Kind) map[string]any {
	t.Helper()

	var sunk map[string]any
	m := NewManager(testutil.NewTestLogger(t), func(_ string, _ bool, results map[string]any) {
		sunk = results
	})
	require.NoError(t, m.NewFile("f", DefaultSchema()))
	for _, kind := range kinds {
		_, err := m.AttachAnalyzer("f", kind, AnalyzerConfig{})
		require.NoError(t, err)
	}

	require.NoError(t, m.Deliver("f", 0, content[:10]))
	require.NoError(t, m.ReportGap("f", 10, 3))
	require.NoError(t, m.Deliver("f", 13, content[10:]))
	require.NoError(t, m.EndOfFile("f"))

	require.NotNil(t, sunk)
	return sunk
}

func TestManager_TwoAnalyzersDoNotInterfere(t *testing.T) {
	content := []byte("interleaved delivery content")

	combined := runFeed(t, content, KindSHA1, KindMD5)
	sha1Alone := runFeed(t, content, KindSHA1)
	md5Alone := runFeed(t, content, KindMD5)

	assert.Equal(t, sha1Alone["sha1"], combined["sha1"],
		"running sha1 alongside md5 must not change its result")
	assert.Equal(t, md5Alone["md5"], combined["md5"],
		"running md5 alongside sha1 must not change its result")

	sha1Sum := sha1.Sum(content) //nolint:gosec
	md5Sum := md5.Sum(content)   //nolint:gosec
	assert.Equal(t, hex.EncodeToString(sha1Sum[:]), combined["sha1"])
	assert.Equal(t, hex.EncodeToString(md5Sum[:]), combined["md5"])
}

func TestManager_TenByteScenario(t *testing.T) {
	content := []byte("0123456789")
	logger := testutil.NewTestLogger(t)

	var sunk map[string]any
	var sunkDegraded bool
	m := NewManager(logger, func(fileID string, degraded bool, results map[string]any) {
		sunk = results
		sunkDegraded = degraded
	})

	// Two 5-byte chunks, no gaps.
	require.NoError(t, m.NewFile("whole", DefaultSchema()))
	_, err := m.AttachAnalyzer("whole", KindSHA256, AnalyzerConfig{})
	require.NoError(t, err)
	require.NoError(t, m.Deliver("whole", 0, content[:5]))
	require.NoError(t, m.Deliver("whole", 5, content[5:]))
	require.NoError(t, m.EndOfFile("whole"))

	require.NotNil(t, sunk)
	assert.False(t, sunkDegraded)
	assert.Equal(t, sha256Hex(content), sunk["sha256"])

	// Same file with a one-byte gap at offset 5.
	require.NoError(t, m.NewFile("gapped", DefaultSchema()))
	_, err = m.AttachAnalyzer("gapped", KindSHA256, AnalyzerConfig{})
	require.NoError(t, err)
	require.NoError(t, m.Deliver("gapped", 0, content[:5]))
	require.NoError(t, m.ReportGap("gapped", 5, 1))
	require.NoError(t, m.Deliver("gapped", 6, content[6:]))
	require.NoError(t, m.EndOfFile("gapped"))

	delivered := append(append([]byte(nil), content[:5]...), content[6:]...)
	assert.True(t, sunkDegraded, "a reported gap marks the file degraded")
	assert.Equal(t, sha256Hex(delivered), sunk["sha256"],
		"digest covers the nine delivered bytes in order, gapped byte excluded")
}

func TestManager_ZeroLengthDeliveriesYieldNoResult(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)
	require.NoError(t, m.NewFile("f", DefaultSchema()))
	_, err := m.AttachAnalyzer("f", KindSHA256, AnalyzerConfig{})
	require.NoError(t, err)

	require.NoError(t, m.Deliver("f", 0, nil))
	require.NoError(t, m.Deliver("f", 0, []byte{}))

	var sunk map[string]any
	m.sink = func(_ string, _ bool, results map[string]any) { sunk = results }
	require.NoError(t, m.EndOfFile("f"))

	assert.Empty(t, sunk, "zero-length deliveries never set the fed flag")
}

func TestManager_ReentrantSinkStartsNewFile(t *testing.T) {
	logger := testutil.NewTestLogger(t)

	var m *Manager
	var innerResults map[string]any
	m = NewManager(logger, func(fileID string, degraded bool, results map[string]any) {
		if fileID != "outer" {
			innerResults = results
			return
		}
		// Finalize side effects may start analysis of a new, unrelated
		// file synchronously; the manager must already be consistent.
		require.NoError(t, m.NewFile("inner", DefaultSchema()))
		_, err := m.AttachAnalyzer("inner", KindSHA256, AnalyzerConfig{})
		require.NoError(t, err)
		require.NoError(t, m.Deliver("inner", 0, []byte("inner content")))
		require.NoError(t, m.EndOfFile("inner"))
	})

	require.NoError(t, m.NewFile("outer", DefaultSchema()))
	_, err := m.AttachAnalyzer("outer", KindSHA256, AnalyzerConfig{})
	require.NoError(t, err)
	require.NoError(t, m.Deliver("outer", 0, []byte("outer content")))
	require.NoError(t, m.EndOfFile("outer"))

	assert.Equal(t, 0, m.ActiveFiles(), "both files must be torn down")
	require.NotNil(t, innerResults)
	assert.Equal(t, sha256Hex([]byte("inner content")), innerResults["sha256"])
}

func TestManager_MissingFieldLocatorAborts(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)
	require.NoError(t, m.NewFile("f", Schema{"sha256"}))

	// md5 is not in the schema: this is a build-time contract violation,
	// so attachment must abort rather than degrade.
	assert.Panics(t, func() {
		_, _ = m.AttachAnalyzer("f", KindMD5, AnalyzerConfig{})
	})
}

func TestManager_UnknownKindIsAnError(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)
	require.NoError(t, m.NewFile("f", Schema{"mystery"}))

	_, err := m.AttachAnalyzer("f", Kind("mystery"), AnalyzerConfig{})
	assert.Error(t, err, "an unknown kind with a valid field is an error, not a panic")
}

func TestManager_UnknownFileErrors(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)

	assert.Error(t, m.Deliver("nope", 0, []byte("x")))
	assert.Error(t, m.ReportGap("nope", 0, 1))
	assert.Error(t, m.EndOfFile("nope"))
	_, err := m.GetResults("nope")
	assert.Error(t, err)
	_, err = m.AttachAnalyzer("nope", KindSHA256, AnalyzerConfig{})
	assert.Error(t, err)
}

func TestManager_DuplicateFileIsAnError(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)
	require.NoError(t, m.NewFile("f", DefaultSchema()))
	assert.Error(t, m.NewFile("f", DefaultSchema()))
}

func TestManager_FieldOverride(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(t), nil)
	require.NoError(t, m.NewFile("f", Schema{"digest_a", "digest_b"}))

	_, err := m.AttachAnalyzer("f", KindSHA256, AnalyzerConfig{Field: "digest_a"})
	require.NoError(t, err)
	require.NoError(t, m.Deliver("f", 0, []byte("payload")))

	results, err := m.GetResults("f")
	require.NoError(t, err)
	assert.Empty(t, results, "nothing is written before Finalize")

	var sunk map[string]any
	m.sink = func(_ string, _ bool, r map[string]any) { sunk = r }
	require.NoError(t, m.EndOfFile("f"))

	assert.Equal(t, sha256Hex([]byte("payload")), sunk["digest_a"])
	_, hasB := sunk["digest_b"]
	assert.False(t, hasB)
}
