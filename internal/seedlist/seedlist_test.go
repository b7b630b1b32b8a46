package seedlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSkipsCommentsAndBlanks(t *testing.T) {
	path := writeList(t, `# award seed list

https://example-award.org
https://quill-prize.org  # json-complete

# trailing comment
https://pen-awards.example.com  # failed: 403 Forbidden
`)

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Seed{
		{URL: "https://example-award.org"},
		{URL: "https://quill-prize.org", Status: StatusExtracted},
		{URL: "https://pen-awards.example.com", Status: "failed: 403 Forbidden"},
	}, seeds)
}

func TestUpdateStatusAnnotates(t *testing.T) {
	path := writeList(t, "https://example-award.org\nhttps://quill-prize.org\n")

	require.NoError(t, UpdateStatus(path, "https://example-award.org", StatusExtracted))

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StatusExtracted, seeds[0].Status)
	require.Empty(t, seeds[1].Status)
}

func TestUpdateStatusNeverDowngrades(t *testing.T) {
	path := writeList(t, "https://example-award.org  # json-complete, airtable-complete\n")

	require.NoError(t, UpdateStatus(path, "https://example-award.org", StatusExtracted))

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StatusReconciled, seeds[0].Status)
}

func TestUpdateStatusOverwritesFailure(t *testing.T) {
	path := writeList(t, "https://example-award.org  # failed: DNS error\n")

	require.NoError(t, UpdateStatus(path, "https://example-award.org", StatusReconciled))

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StatusReconciled, seeds[0].Status)
}

func TestUpdateStatusPreservesOtherLines(t *testing.T) {
	path := writeList(t, "# header\nhttps://a.example.org\nhttps://b.example.org\n")

	require.NoError(t, UpdateStatus(path, "https://b.example.org", FailedStatus("Connection error")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# header\nhttps://a.example.org\nhttps://b.example.org  # failed: Connection error\n", string(data))
}

func TestFailedStatus(t *testing.T) {
	require.Equal(t, "failed", FailedStatus(""))
	require.Equal(t, "failed: HTTP 500", FailedStatus("HTTP 500"))
}
