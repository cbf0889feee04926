package delimited

import (
	"bufio"
	"bytes"
	"strings"
)

// Candidates are the delimiters Sniff chooses from, in order of preference
var Candidates = []rune{',', ';', '\t', '|'}

const sniffLines = 20

// Sniff picks the delimiter whose per-line count is the most consistent over
// the first lines of sample. Ties go to the higher count, then to the earlier
// candidate. Input with no candidate at all is treated as comma separated.
func Sniff(sample []byte) rune {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(sample))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < sniffLines {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestRatio, bestCount := ',', 0.0, 0
	for _, delim := range Candidates {
		count, ratio := scoreDelim(lines, delim)
		if count == 0 {
			continue
		}
		if ratio > bestRatio || (ratio == bestRatio && count > bestCount) {
			best, bestRatio, bestCount = delim, ratio, count
		}
	}
	return best
}

// scoreDelim returns the most common count of delim per line and the share
// of lines that have exactly that count.
func scoreDelim(lines []string, delim rune) (int, float64) {
	freq := map[int]int{}
	for _, ln := range lines {
		freq[countOutsideQuotes(ln, delim)]++
	}

	bestCount, bestFreq := 0, 0
	for cnt, f := range freq {
		if f > bestFreq || (f == bestFreq && cnt > bestCount) {
			bestCount = cnt
			bestFreq = f
		}
	}
	return bestCount, float64(bestFreq) / float64(len(lines))
}

func countOutsideQuotes(line string, delim rune) int {
	count := 0
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case !inQuote && r == delim:
			count++
		}
	}
	return count
}
