package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// Video is the subset of the Data API videos.list payload needed for
// eligibility checks.
type Video struct {
	ID             string         `json:"id"`
	ContentDetails ContentDetails `json:"contentDetails"`
	Status         Status         `json:"status"`
}

// ContentDetails carries duration, rating, and region availability.
type ContentDetails struct {
	Duration          string             `json:"duration"`
	ContentRating     ContentRating      `json:"contentRating"`
	RegionRestriction *RegionRestriction `json:"regionRestriction,omitempty"`
}

// ContentRating carries the YouTube self-rating.
type ContentRating struct {
	YTRating string `json:"ytRating"`
}

// RegionRestriction lists country availability. At most one of Allowed and
// Blocked is populated by the API.
type RegionRestriction struct {
	Allowed []string `json:"allowed,omitempty"`
	Blocked []string `json:"blocked,omitempty"`
}

// Status carries the video visibility.
type Status struct {
	PrivacyStatus string `json:"privacyStatus"`
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO-8601 video duration ("PT4M13S") to seconds.
// Anything unparseable yields 0, which downstream checks reject as too short.
func ParseDuration(duration string) int {
	m := durationPattern.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	seconds := 0
	for i, scale := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		seconds += n * scale
	}
	return seconds
}

// IsAgeRestricted reports whether YouTube has flagged the video as
// age-restricted.
func IsAgeRestricted(details ContentDetails) bool {
	return details.ContentRating.YTRating == "ytAgeRestricted"
}

// IsAvailableInUS reports whether the video can be played in the US. A video
// without a region restriction is available worldwide; an allowed list must
// include US, a blocked list must not.
func IsAvailableInUS(details ContentDetails) bool {
	restriction := details.RegionRestriction
	if restriction == nil {
		return true
	}
	if len(restriction.Allowed) > 0 {
		for _, region := range restriction.Allowed {
			if region == "US" {
				return true
			}
		}
		return false
	}
	for _, region := range restriction.Blocked {
		if region == "US" {
			return false
		}
	}
	return true
}

// IsPublic reports whether the video visibility is public.
func IsPublic(status Status) bool {
	return status.PrivacyStatus == "public"
}

// ValidDuration checks the video length against inclusive bounds and returns
// the parsed length in seconds.
func ValidDuration(details ContentDetails, minSeconds, maxSeconds int) (bool, int) {
	seconds := ParseDuration(details.Duration)
	return seconds >= minSeconds && seconds <= maxSeconds, seconds
}

// ValidateRequirements checks every eligibility rule and returns one message
// per violation, in a fixed order: duration, age restriction, region
// availability, visibility. An empty slice means the video qualifies.
func ValidateRequirements(video Video, minSeconds, maxSeconds int) []string {
	var violations []string

	if ok, seconds := ValidDuration(video.ContentDetails, minSeconds, maxSeconds); !ok {
		if seconds < minSeconds {
			violations = append(violations, fmt.Sprintf(
				"video is too short: %d seconds (minimum %d)", seconds, minSeconds))
		} else {
			violations = append(violations, fmt.Sprintf(
				"video is too long: %d seconds (maximum %d)", seconds, maxSeconds))
		}
	}
	if IsAgeRestricted(video.ContentDetails) {
		violations = append(violations, "video is age-restricted")
	}
	if !IsAvailableInUS(video.ContentDetails) {
		violations = append(violations, "video is not available in the USA")
	}
	if !IsPublic(video.Status) {
		violations = append(violations, fmt.Sprintf(
			"video must be public, but its privacy status is %q", video.Status.PrivacyStatus))
	}
	return violations
}
