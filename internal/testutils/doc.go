// Package testutils provides helpers shared by the package tests.
package testutils
