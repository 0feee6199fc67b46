package config

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/menu"
)

// maxMenuLine bounds a single menu file line.
const maxMenuLine = 1024 * 1024

// LoadMenu reads a menu file and builds its path table.
func LoadMenu(path string) (*menu.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFoundError(path)
		}
		if os.IsPermission(err) {
			return nil, errors.PermissionDeniedError(path, "read")
		}
		return nil, errors.Wrap(err, errors.ConfigNotFound, "Failed to open menu file").
			WithDetails(fmt.Sprintf("Path: %s", path))
	}
	defer f.Close()

	return BuildFromReader(f, path)
}

// BuildFromReader tokenizes a menu file and builds its path table. Nothing
// is built when any line fails to parse.
func BuildFromReader(r io.Reader, name string) (*menu.Table, error) {
	rows, err := ParseMenu(r, name)
	if err != nil {
		return nil, err
	}
	return menu.Build(rows), nil
}

// ParseMenu splits a menu file into rows of labels. Each line is cut at the
// first '#', trailing spaces and commas are dropped, and what remains is
// split as comma separated values with leading spaces trimmed and double
// quotes honoured. Blank lines are skipped.
func ParseMenu(r io.Reader, name string) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMenuLine)

	var rows [][]string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := cleanLine(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			return nil, errors.ConfigParseError(name, lineNo, err)
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.ConfigParseError(name, lineNo+1, err)
	}

	return rows, nil
}

// cleanLine removes the comment and the trailing separators of a raw line.
func cleanLine(raw string) string {
	line, _, _ := strings.Cut(raw, "#")
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimRight(line, " ")
	return strings.TrimRight(line, ",")
}

// splitFields parses one cleaned line. A quote inside an unquoted field is
// taken literally, so shell commands such as echo "hi" need no escaping;
// an unterminated quoted field is still an error.
func splitFields(line string) ([]string, error) {
	fields, err := readRecord(line, false)
	var pe *csv.ParseError
	if stderrors.As(err, &pe) && stderrors.Is(pe.Err, csv.ErrBareQuote) {
		return readRecord(line, true)
	}
	return fields, err
}

func readRecord(line string, lazy bool) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = lazy

	return reader.Read()
}
