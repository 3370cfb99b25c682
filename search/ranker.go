// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"math"

	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/storage"
)

// Quality bucket thresholds on the percentage similarity score.
const (
	strongThreshold   = 80.0
	moderateThreshold = 60.0
)

// Similarity converts a cosine distance to a percentage score, rounded to two
// decimal places. Distances above 1 give negative scores; callers display
// whatever comes out rather than clamping.
func Similarity(distance float64) float64 {
	return math.Round((1-distance)*100*100) / 100
}

// QualityFor buckets a similarity score. Scores of 80 and above are strong,
// 60 and above moderate, everything else weak.
func QualityFor(similarity float64) core.MatchQuality {
	switch {
	case similarity >= strongThreshold:
		return core.QualityStrong
	case similarity >= moderateThreshold:
		return core.QualityModerate
	default:
		return core.QualityWeak
	}
}

// Rank converts store matches to scored results. The store's ascending
// distance order is preserved as is.
func Rank(matches []storage.Match) []core.SearchResult {
	results := make([]core.SearchResult, len(matches))
	for i, match := range matches {
		similarity := Similarity(match.Distance)
		results[i] = core.SearchResult{
			ID:         match.ID,
			Similarity: similarity,
			Quality:    QualityFor(similarity),
			Metadata:   match.Metadata,
		}
	}
	return results
}

// Stats counts results per quality bucket.
type Stats struct {
	Strong   int
	Moderate int
	Weak     int
}

// QualityStats tallies the quality buckets across a result set.
func QualityStats(results []core.SearchResult) Stats {
	var stats Stats
	for _, result := range results {
		switch result.Quality {
		case core.QualityStrong:
			stats.Strong++
		case core.QualityModerate:
			stats.Moderate++
		default:
			stats.Weak++
		}
	}
	return stats
}
