package domain

import "strings"

// MaxPlaceIDs caps how many place IDs a single aggregation request may carry.
const MaxPlaceIDs = 20

// GameStat is one aggregated entry per caller-supplied place ID. Fields
// resolved from a failed upstream call stay nil and serialize as null.
type GameStat struct {
	InputID    string  `json:"inputId"`
	UniverseID string  `json:"universeId"`
	Name       *string `json:"name"`
	VisitCount *int64  `json:"visitCount"`
	IconURL    *string `json:"iconUrl"`
}

// GameInfo is the metadata an upstream lookup yields for one universe.
type GameInfo struct {
	Name   string
	Visits *int64
}

// IsValidPlaceID reports whether a token is an acceptable place ID:
// 1 to 20 digits, nothing else.
func IsValidPlaceID(token string) bool {
	if token == "" || len(token) > 20 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FilterPlaceIDs splits a comma-separated list, trims each token, drops
// malformed ones silently and keeps at most MaxPlaceIDs valid entries.
func FilterPlaceIDs(csv string) []string {
	var ids []string
	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if !IsValidPlaceID(token) {
			continue
		}
		ids = append(ids, token)
		if len(ids) == MaxPlaceIDs {
			break
		}
	}
	return ids
}
