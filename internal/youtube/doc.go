// Package youtube resolves submitted video URLs through the YouTube Data API
// and checks theme eligibility: duration bounds, age restriction, US
// availability, and public visibility.
package youtube
