// Package utils provides common utility functions for the automation suite.
// It includes helper functions for converting the loose-typed values found in
// raw source feed rows, and other shared logic that doesn't fit into
// domain-specific packages.
package utils
