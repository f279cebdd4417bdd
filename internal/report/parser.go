package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	recordNameRe = regexp.MustCompile(`^  (\S+)$`)
	fieldRe      = regexp.MustCompile(`^    (\w+): (.+)$`)
)

// Parser reads build report files.
type Parser struct {
	r io.Reader
}

// NewParser creates a report parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Parse reads all records from a report.
func (p *Parser) Parse() ([]Record, error) {
	var records []Record
	var current *Record

	scanner := bufio.NewScanner(p.r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "PACKAGES" || line == "" {
			continue
		}

		if matches := recordNameRe.FindStringSubmatch(line); matches != nil {
			if current != nil {
				records = append(records, *current)
			}
			current = &Record{Name: matches[1]}
			continue
		}

		if current == nil {
			continue
		}

		if matches := fieldRe.FindStringSubmatch(line); matches != nil {
			switch matches[1] {
			case "builder":
				current.Builder = matches[2]
			case "repotag":
				current.Repotag = matches[2]
			case "artifact":
				current.Artifact = matches[2]
			}
		}
	}

	if current != nil {
		records = append(records, *current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return records, nil
}
