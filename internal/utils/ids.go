package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDList parses a comma-separated list of positive ids such as "6, 8,12".
// Blank entries are skipped and duplicates dropped.
func ParseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return UniqueIDs(ids)
}

// UniqueIDs drops duplicate ids keeping first-seen order. Ids must be positive.
func UniqueIDs(ids []int) ([]int, error) {
	unique := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("invalid id: %d", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}
