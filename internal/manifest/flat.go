package manifest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseFlat reads a one-dependency-per-line manifest. Each non-blank,
// non-comment line is rewritten by the configured regex substitution
// and then tokenized on the delimiter; the tokens become positional
// arguments for the per-entry command.
func ParseFlat(r io.Reader, regexStr, replace, delimiter string) ([][]string, error) {
	re, err := regexp.Compile(regexStr)
	if err != nil {
		return nil, fmt.Errorf("compiling line regex %q: %w", regexStr, err)
	}
	if delimiter == "" {
		delimiter = " "
	}

	var rows [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rewritten := re.ReplaceAllString(line, replace)
		var tokens []string
		for _, tok := range strings.Split(rewritten, delimiter) {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) > 0 {
			rows = append(rows, tokens)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return rows, nil
}
