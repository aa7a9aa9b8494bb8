package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var (
	braceDefaultRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*):-([^}]*)\}`)
	braceRe        = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	bareRe         = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// LoadDotEnv loads environment variables from the given files, falling back
// to .env.local and .env in the working directory when none are named.
// Files that do not exist are skipped; already-set variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// expandEnv substitutes environment references inside raw configuration
// text. ${VAR:-default} resolves before ${VAR}, which resolves before the
// bare $VAR form, so defaults are honored for unset variables.
func expandEnv(s string) string {
	s = braceDefaultRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := braceDefaultRe.FindStringSubmatch(match)
		if v, ok := os.LookupEnv(parts[1]); ok {
			return v
		}
		return parts[2]
	})

	s = braceRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})

	s = bareRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(strings.TrimPrefix(match, "$"))
	})

	return s
}
