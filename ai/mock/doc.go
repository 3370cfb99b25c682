// Package mock provides test doubles for the ai package interfaces.
// Defaults are deterministic so tests are reproducible; function fields let
// individual tests script failures and canned responses.
package mock
