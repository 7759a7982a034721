package exec

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
)

// ComposeEnv layers, lowest first: the process environment, workDir/.env
// (when dotenv is set), configured vars, then extra.
func ComposeEnv(workDir string, dotenv bool, configured, extra map[string]string) []string {
	env := os.Environ()

	if dotenv {
		if vars, err := LoadDotenv(filepath.Join(workDir, ".env")); err == nil {
			env = MergeEnv(env, pairs(vars))
		}
	}

	env = MergeEnv(env, pairs(configured))
	return MergeEnv(env, pairs(extra))
}

func pairs(vars map[string]string) []string {
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, k+"="+v)
	}
	return out
}

var commentOrBlank = regexp.MustCompile(`^\s*(#|$)`)

// LoadDotenv reads KEY=VALUE lines, skipping blanks, comments and lines
// without '='. An `export ` prefix and matching outer quotes are stripped.
func LoadDotenv(path string) (map[string]string, error) {
	lines, err := script.File(path).
		RejectRegexp(commentOrBlank).
		Slice()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	result := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		result[key] = value
	}

	return result, nil
}

// MergeEnv returns base with override applied, one entry per key, sorted.
func MergeEnv(base, override []string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, list := range [][]string{base, override} {
		for _, e := range list {
			if k, v, ok := strings.Cut(e, "="); ok {
				envMap[k] = v
			}
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)

	return result
}
