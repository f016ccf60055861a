package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed critical.txt words4.txt words5.txt corpus.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// CriticalWords returns the hand-picked words that keep the catalog's
// guaranteed-solvable pairs connected. They are admitted to the lexicon
// without quality filtering.
func CriticalWords() ([]string, error) {
	return readLines("critical.txt")
}

// CuratedWords returns the curated common-word lists (4 and 5 letters).
func CuratedWords() ([]string, error) {
	w4, err := readLines("words4.txt")
	if err != nil {
		return nil, err
	}
	w5, err := readLines("words5.txt")
	if err != nil {
		return nil, err
	}
	return append(w4, w5...), nil
}

// CorpusWords returns the general-purpose corpus (3-8 letters). Callers are
// expected to filter it before use.
func CorpusWords() ([]string, error) {
	return readLines("corpus.txt")
}
