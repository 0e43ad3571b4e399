package recommendations

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cinefeed/internal/models"
)

// Signal weights. They sum to 1.0 and every sub-signal is clamped to
// [0,1], so the final score always lands in [0,1].
const (
	weightGenre         = 0.45
	weightPopularity    = 0.15
	weightQuality       = 0.20
	weightRecency       = 0.10
	weightCollaborative = 0.10
)

const (
	// Movies released within this window get the recency signal
	recencyWindowDays = 730

	// Obscurity floor: minimum vote_count for candidate eligibility
	minCandidateVotes = 10

	// Candidates are streamed from the store in batches of this size
	candidateBatchSize = 500
)

// Reason fragments surfaced to the user
const (
	reasonGenreMatch = "Matches your favourite genres"
	reasonRecent     = "Recently released"
	reasonCollab     = "Liked by users with similar taste"
	reasonFallback   = "Popular movie you might enjoy"
)

// scoreMovie computes the composite score and reason for one candidate
func scoreMovie(movie *models.Movie, profile, boost map[uint]float64, now time.Time) (float64, string) {
	var reasons []string

	// 1. Genre affinity: the fraction of the user's total affinity mass
	// accounted for by the genres this movie shares with the profile.
	genreScore := 0.0
	if len(profile) > 0 {
		overlap := 0.0
		total := 0.0
		for _, weight := range profile {
			total += weight
		}
		for _, genre := range movie.Genres {
			if weight, ok := profile[genre.ID]; ok {
				overlap += weight
			}
		}
		if overlap > 0 && total > 0 {
			genreScore = overlap / total
			reasons = append(reasons, reasonGenreMatch)
		}
	}

	// 2. Popularity, log-scaled and capped at 1.0
	popScore := 0.0
	if movie.Popularity > 0 {
		popScore = math.Min(math.Log1p(movie.Popularity)/10.0, 1.0)
	}

	// 3. Quality
	qualityScore := 0.0
	if movie.VoteAverage > 0 {
		qualityScore = math.Min(movie.VoteAverage/10.0, 1.0)
	}

	// 4. Recency boost for releases within the window
	recencyScore := 0.0
	if movie.ReleaseDate != nil {
		daysOld := now.Sub(*movie.ReleaseDate).Hours() / 24.0
		if daysOld < 0 {
			daysOld = 0
		}
		if daysOld <= recencyWindowDays {
			recencyScore = 1.0 - (daysOld / recencyWindowDays)
			if recencyScore > 0.5 {
				reasons = append(reasons, reasonRecent)
			}
		}
	}

	// 5. Collaborative boost from users with similar taste
	collabScore := boost[movie.ID]
	if collabScore > 0.3 {
		reasons = append(reasons, reasonCollab)
	}

	total := weightGenre*genreScore +
		weightPopularity*popScore +
		weightQuality*qualityScore +
		weightRecency*recencyScore +
		weightCollaborative*collabScore

	reason := reasonFallback
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return round4(total), reason
}

// safeScoreMovie isolates scoring faults so a malformed catalogue row
// skips only itself instead of aborting the whole candidate loop
func safeScoreMovie(movie *models.Movie, profile, boost map[uint]float64, now time.Time) (score float64, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring movie %d: %v", movie.ID, r)
		}
	}()

	score, reason = scoreMovie(movie, profile, boost, now)
	return score, reason, nil
}

// round4 rounds to 4 decimal places
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
