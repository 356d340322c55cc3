// Package catalog holds the static descriptors for the six database
// categories: storage layout, upstream provider shape, field projection, and
// the provider URL patterns used to route community submissions.
package catalog
