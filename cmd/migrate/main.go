// Command migrate maintains jobs CSV files produced by hiringlens: merging
// tables from multiple runs and removing duplicate rows. Rows are keyed on
// the hn_id column; when the same id appears more than once, the last
// occurrence wins (later runs carry fresher extractions).
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <dedupe file.csv | merge out.csv in.csv...>")
	}

	command := os.Args[1]

	switch command {
	case "dedupe":
		if err := dedupeFile(os.Args[2]); err != nil {
			log.Fatal(err)
		}
	case "merge":
		if len(os.Args) < 4 {
			log.Fatal("Usage: migrate merge out.csv in.csv...")
		}
		if err := mergeFiles(os.Args[2], os.Args[3:]); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// dedupeFile rewrites a jobs CSV in place with duplicate hn_id rows removed.
func dedupeFile(path string) error {
	header, rows, err := readTable(path)
	if err != nil {
		return err
	}

	deduped, removed := dedupeRows(header, rows)
	if removed == 0 {
		log.Printf("%s: no duplicates", path)
		return nil
	}

	if err := writeTable(path, header, deduped); err != nil {
		return err
	}
	log.Printf("%s: removed %d duplicate rows, %d remain", path, removed, len(deduped))
	return nil
}

// mergeFiles concatenates several jobs CSVs and writes the deduplicated
// result to outPath. All inputs must share the first input's header.
func mergeFiles(outPath string, inPaths []string) error {
	var header []string
	var rows [][]string

	for _, path := range inPaths {
		h, r, err := readTable(path)
		if err != nil {
			return err
		}
		if header == nil {
			header = h
		} else if !sameHeader(header, h) {
			return fmt.Errorf("%s: header doesn't match %s", path, inPaths[0])
		}
		rows = append(rows, r...)
	}

	deduped, removed := dedupeRows(header, rows)
	if err := writeTable(outPath, header, deduped); err != nil {
		return err
	}
	log.Printf("Merged %d files into %s: %d rows (%d duplicates dropped)",
		len(inPaths), outPath, len(deduped), removed)
	return nil
}

// dedupeRows keeps the last row per hn_id, preserving first-appearance order.
// Rows without an hn_id value are kept as-is.
func dedupeRows(header []string, rows [][]string) (out [][]string, removed int) {
	idCol := -1
	for i, name := range header {
		if name == "hn_id" {
			idCol = i
			break
		}
	}
	if idCol == -1 {
		return rows, 0
	}

	index := make(map[string]int)
	for _, row := range rows {
		id := ""
		if idCol < len(row) {
			id = row[idCol]
		}
		if id == "" {
			out = append(out, row)
			continue
		}
		if pos, seen := index[id]; seen {
			out[pos] = row
			removed++
			continue
		}
		index[id] = len(out)
		out = append(out, row)
	}
	return out, removed
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func readTable(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	return all[0], all[1:], nil
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
