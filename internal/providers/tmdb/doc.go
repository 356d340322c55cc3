// Package tmdb implements the TMDB catalog client used for the movie,
// movie_collection, and tv_show categories.
package tmdb
