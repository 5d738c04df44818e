package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivenav/internal/reader"
)

var (
	searchKeysOnly      bool
	searchValuesOnly    bool
	searchRegex         bool
	searchCaseSensitive bool
	searchMaxResults    int
	searchMaxDepth      int
	searchKey           string
)

func init() {
	cmd := newSearchCmd()
	cmd.Flags().BoolVar(&searchKeysOnly, "keys-only", false, "Search only key names")
	cmd.Flags().BoolVar(&searchValuesOnly, "values-only", false, "Search only value names and data")
	cmd.Flags().BoolVar(&searchRegex, "regex", false, "Use regex pattern")
	cmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Case-sensitive search")
	cmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "Limit results (0 = unlimited)")
	cmd.Flags().IntVar(&searchMaxDepth, "max-depth", 0, "Limit descent depth (0 = unlimited)")
	cmd.Flags().StringVar(&searchKey, "key", "", "Search within subtree")
	rootCmd.AddCommand(cmd)
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <hive> <pattern>",
		Short: "Search for keys and values matching a pattern",
		Long: `The search command scans key names and value names/data for a
pattern. By default both are searched, case-insensitively.

Example:
  hivenav search system.hiv "network"
  hivenav search system.hiv "^Tcpip" --regex --case-sensitive
  hivenav search system.hiv "Start" --keys-only --key "ControlSet001\Services"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args)
		},
	}
	return cmd
}

// SearchResult aggregates everything a search matched.
type SearchResult struct {
	MatchedKeys   []string
	MatchedValues []ValueMatch
}

// ValueMatch is one matching value and where it lives.
type ValueMatch struct {
	KeyPath   string
	ValueName string
	ValueType string
	ValueData string
}

// errSearchFull aborts the walk once every requested result slot is filled.
var errSearchFull = errors.New("result limit reached")

func runSearch(args []string) error {
	hivePath := args[0]
	pattern := args[1]

	printVerbose("Opening hive: %s\n", hivePath)
	printVerbose("Searching for pattern: %s\n", pattern)

	match, err := compileMatcher(pattern)
	if err != nil {
		return err
	}

	h, err := reader.Open(hivePath)
	if err != nil {
		return fmt.Errorf("open hive: %w", err)
	}
	defer h.Close()

	start, err := h.Root()
	if err != nil {
		return err
	}
	if searchKey != "" {
		if start, err = h.Find(searchKey); err != nil {
			return fmt.Errorf("resolve %q: %w", searchKey, err)
		}
	}

	result := SearchResult{
		MatchedKeys:   make([]string, 0),
		MatchedValues: make([]ValueMatch, 0),
	}
	limit := searchMaxResults
	keysFull := func() bool { return limit > 0 && len(result.MatchedKeys) >= limit }
	valuesFull := func() bool { return limit > 0 && len(result.MatchedValues) >= limit }
	done := func() bool {
		if limit <= 0 {
			return false
		}
		return (searchValuesOnly || keysFull()) && (searchKeysOnly || valuesFull())
	}

	// stack holds the key names from the start key down to the current one,
	// maintained from the walk's depth.
	var stack []string
	err = h.Walk(start, func(id reader.NodeID, depth int, meta reader.KeyMeta) error {
		stack = append(stack[:depth], meta.Name)
		path := joinKeyPath(searchKey, strings.Join(stack[1:], `\`))
		if path == "" {
			path = `\`
		}

		if depth > 0 && !searchValuesOnly && !keysFull() && match(meta.Name) {
			result.MatchedKeys = append(result.MatchedKeys, path)
		}

		if !searchKeysOnly && !valuesFull() {
			if err := searchKeyValues(h, id, path, match, valuesFull, &result); err != nil {
				printVerbose("Warning: failed to list values for %s: %v\n", path, err)
			}
		}

		if done() {
			return errSearchFull
		}
		if searchMaxDepth > 0 && depth >= searchMaxDepth {
			return reader.SkipSubtree
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSearchFull) {
		return fmt.Errorf("walk hive: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}

	printInfo("\nSearching for %q in %s...\n\n", pattern, hivePath)

	if len(result.MatchedKeys) > 0 {
		printInfo("Keys:\n")
		for _, kp := range result.MatchedKeys {
			printInfo("  %s\n", kp)
		}
		printInfo("\n")
	}
	if len(result.MatchedValues) > 0 {
		printInfo("Values:\n")
		currentKey := ""
		for _, vm := range result.MatchedValues {
			if vm.KeyPath != currentKey {
				printInfo("  %s\n", vm.KeyPath)
				currentKey = vm.KeyPath
			}
			name := vm.ValueName
			if name == "" {
				name = "(default)"
			}
			if vm.ValueData != "" {
				printInfo("    %s = %s\n", name, vm.ValueData)
			} else {
				printInfo("    %s [%s]\n", name, vm.ValueType)
			}
		}
		printInfo("\n")
	}
	if limit > 0 && (keysFull() || valuesFull()) {
		printInfo("(limited to %d results per section)\n", limit)
	}
	printInfo("Total: %d keys, %d values\n", len(result.MatchedKeys), len(result.MatchedValues))
	return nil
}

// searchKeyValues scans one key's values for matches on name or decoded data.
func searchKeyValues(h *reader.Hive, id reader.NodeID, path string, match func(string) bool, full func() bool, result *SearchResult) error {
	vids, err := h.Values(id)
	if err != nil {
		return err
	}
	for _, vid := range vids {
		if full() {
			return nil
		}
		meta, err := h.StatValue(vid)
		if err != nil {
			continue
		}

		nameMatches := match(meta.Name)
		dataMatches := false
		var dataStr string
		switch meta.Type {
		case reader.REG_SZ, reader.REG_EXPAND_SZ:
			if s, err := h.ValueString(vid); err == nil {
				dataStr = s
				dataMatches = match(s)
			}
		case reader.REG_MULTI_SZ:
			if ss, err := h.ValueStrings(vid); err == nil {
				dataStr = strings.Join(ss, ", ")
				for _, s := range ss {
					if match(s) {
						dataMatches = true
						break
					}
				}
			}
		case reader.REG_DWORD, reader.REG_DWORD_BE:
			if v, err := h.ValueDWORD(vid); err == nil {
				dataStr = fmt.Sprintf("0x%08x", v)
			}
		case reader.REG_QWORD:
			if v, err := h.ValueQWORD(vid); err == nil {
				dataStr = fmt.Sprintf("0x%016x", v)
			}
		}

		if nameMatches || dataMatches {
			result.MatchedValues = append(result.MatchedValues, ValueMatch{
				KeyPath:   path,
				ValueName: meta.Name,
				ValueType: meta.Type.String(),
				ValueData: dataStr,
			})
		}
	}
	return nil
}

// compileMatcher builds the match predicate from the pattern flags.
func compileMatcher(pattern string) (func(string) bool, error) {
	if searchRegex {
		flags := ""
		if !searchCaseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.MatchString, nil
	}
	if searchCaseSensitive {
		return func(s string) bool { return strings.Contains(s, pattern) }, nil
	}
	lower := strings.ToLower(pattern)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), lower)
	}, nil
}

func joinKeyPath(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + `\` + b
	}
}
