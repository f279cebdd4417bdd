package manifest

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFlat(t *testing.T) {
	input := strings.Join([]string{
		"# build deps",
		"",
		"foo==1.2.3",
		"bar==0.9",
		"  baz==2.0  ",
	}, "\n")

	rows, err := ParseFlat(strings.NewReader(input), `^([^=\s]+)==(\S+)$`, "$1 $2", " ")
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"foo", "1.2.3"},
		{"bar", "0.9"},
		{"baz", "2.0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ParseFlat = %v, want %v", rows, want)
	}
}

func TestParseFlatCustomDelimiter(t *testing.T) {
	rows, err := ParseFlat(strings.NewReader("foo:1.0\n"), `^(\S+):(\S+)$`, "$1|$2", "|")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"foo", "1.0"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ParseFlat = %v, want %v", rows, want)
	}
}

func TestParseFlatBadRegex(t *testing.T) {
	if _, err := ParseFlat(strings.NewReader("x"), `^(`, "$1", " "); err == nil {
		t.Error("expected error for invalid regex")
	}
}
