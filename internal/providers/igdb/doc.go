// Package igdb implements the IGDB (APIcalypse) catalog client used for the
// game, game_collection, and game_franchise categories.
package igdb
