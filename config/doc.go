// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Besides the data sources it carries per-line metadata (GTFS route IDs,
// priority stops, termini) and stop coordinates, which are not part of the
// fare table itself.
package config
