package smile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeEngineScript mimics SMILExtract closely enough for the wrapper: it
// locates the CSV output path in its arguments and writes a small two-frame
// feature table there.
const fakeEngineScript = `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-lldcsvoutput" ] || [ "$prev" = "-csvoutput" ]; then
    out="$a"
  fi
  prev="$a"
done
if [ -z "$out" ]; then
  echo "no output path" >&2
  exit 1
fi
cat > "$out" <<EOF
name;frameTime;F0final_sma;pcm_loudness_sma
'unknown';0.000000;120.5;0.25
'unknown';0.010000;121.0;0.26
EOF
`

// installFakeEngine puts a scripted SMILExtract on PATH and returns nothing;
// PATH is restored when the test ends.
func installFakeEngine(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake engine script requires a POSIX shell")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, DefaultBinary)
	require.NoError(t, os.WriteFile(bin, []byte(fakeEngineScript), 0o755))
	// Prepend: the script still needs coreutils from the rest of PATH.
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// installFakeConfigRoot creates a config tree with every predefined config
// file present and points OPENSMILE_CONFIG_ROOT at it.
func installFakeConfigRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, rel := range featureSetConfigs {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// fake openSMILE config\n"), 0o644))
	}
	t.Setenv(EnvConfigRoot, root)
	return root
}

// hideEngine empties PATH so availability checks fail deterministically.
func hideEngine(t *testing.T) {
	t.Helper()
	t.Setenv("PATH", "")
	t.Setenv(EnvConfigRoot, "")
}
