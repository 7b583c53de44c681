package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitforge/internal/diff"
	"commitforge/internal/models"
)

const sampleDiff = `diff --git a/internal/auth/token.go b/internal/auth/token.go
index 1111111..2222222 100644
--- a/internal/auth/token.go
+++ b/internal/auth/token.go
@@ -5,6 +5,7 @@ func Validate(tok string) error {
 	if tok == "" {
-		return ErrEmpty
+		return ErrMissingToken
+	}
 	return nil
 }
`

func TestBuildStripsDiffMetadataNoise(t *testing.T) {
	doc, _ := diff.Parse(sampleDiff)
	p := NewBuilder(0).Build(doc, "")

	assert.NotContains(t, p.User, "diff --git")
	assert.NotContains(t, p.User, "index 1111111")
	assert.NotContains(t, p.User, "+++ b/")
	assert.Contains(t, p.User, "### internal/auth/token.go (modified)")
	assert.Contains(t, p.User, "+\t\treturn ErrMissingToken")
	assert.Contains(t, p.User, "-\t\treturn ErrEmpty")
	assert.False(t, p.Truncated)
}

func TestBuildAppendsPersonaToSystem(t *testing.T) {
	doc, _ := diff.Parse(sampleDiff)

	plain := NewBuilder(0).Build(doc, "")
	assert.NotContains(t, plain.System, "Persona:")

	p := NewBuilder(0).Build(doc, "You are a terse release engineer.")
	assert.Contains(t, p.System, "Persona:\nYou are a terse release engineer.")
	assert.True(t, strings.HasPrefix(p.System, plain.System))
}

func TestBuildTruncatesOversizedBodyFromTail(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("diff --git a/big.txt b/big.txt\nnew file mode 100644\nindex 0000000..2222222\n--- /dev/null\n+++ b/big.txt\n@@ -0,0 +1,400 @@\n")
	for i := 0; i < 400; i++ {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("x", 60))
		sb.WriteString("\n")
	}
	doc, _ := diff.Parse(sb.String())

	budget := 1024
	p := NewBuilder(budget).Build(doc, "")

	assert.True(t, p.Truncated)
	assert.True(t, strings.HasSuffix(p.User, "[diff truncated]"))
	assert.LessOrEqual(t, len(p.User), budget+len("\n[diff truncated]"))
	// The head of the body survives.
	assert.True(t, strings.HasPrefix(p.User, "### big.txt (added)"))
}

func TestBuildRenamedFileHeader(t *testing.T) {
	raw := `diff --git a/old/name.go b/new/name.go
similarity index 95%
rename from old/name.go
rename to new/name.go
index 1..2 100644
--- a/old/name.go
+++ b/new/name.go
@@ -1,1 +1,1 @@
-package old
+package renamed
`
	doc, _ := diff.Parse(raw)
	require.Len(t, doc.Files, 1)
	require.Equal(t, models.FileRenamed, doc.Files[0].Status)

	p := NewBuilder(0).Build(doc, "")
	assert.Contains(t, p.User, "### old/name.go -> new/name.go (renamed)")
}

func TestBuildDeterministicForSameDocument(t *testing.T) {
	doc, _ := diff.Parse(sampleDiff)
	first := NewBuilder(0).Build(doc, "persona")
	second := NewBuilder(0).Build(doc, "persona")
	assert.Equal(t, first, second)
}
