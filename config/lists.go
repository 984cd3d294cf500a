package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fundflow/internal/symbols"
)

// TickerLists is the named ticker universe for a run: list name to member
// tickers, already canonicalized and de-duplicated within each list.
type TickerLists struct {
	Lists map[string][]string
}

// Unique returns the de-duplicated union of all list members, sorted for
// deterministic processing order.
func (t *TickerLists) Unique() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, members := range t.Lists {
		for _, sym := range members {
			if _, ok := seen[sym]; ok {
				continue
			}
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// LoadTickerLists reads the ticker universe from listsDir, one .txt file per
// list, one ticker per line. When listsDir does not exist it falls back to
// fallbackFile as a single list named "all". Blank lines and comment lines
// are skipped and tickers are canonicalized on the way in.
func LoadTickerLists(listsDir, fallbackFile string) (*TickerLists, error) {
	if _, err := os.Stat(listsDir); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat lists dir: %w", err)
		}
		return loadFallback(fallbackFile)
	}

	paths, err := filepath.Glob(filepath.Join(listsDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan lists dir: %w", err)
	}

	lists := make(map[string][]string)
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txt")
		members, err := readTickerFile(path)
		if err != nil {
			return nil, err
		}
		lists[name] = members
	}
	return &TickerLists{Lists: lists}, nil
}

func loadFallback(path string) (*TickerLists, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &TickerLists{Lists: map[string][]string{}}, nil
		}
		return nil, fmt.Errorf("failed to stat ticker file: %w", err)
	}
	members, err := readTickerFile(path)
	if err != nil {
		return nil, err
	}
	return &TickerLists{Lists: map[string][]string{"all": members}}, nil
}

func readTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker list %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var members []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		sym := symbols.Canonicalize(scanner.Text())
		if !symbols.IsValid(sym) {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		members = append(members, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ticker list %s: %w", path, err)
	}
	return members, nil
}
