// Package utils provides small presentation helpers shared by the server and
// the CLI.
//
// It contains:
//   - Time formatting
//   - Distance formatting and travel time estimates
package utils
