// Package models defines the domain entities and persistence interfaces for looper.
//
// The package contains two categories of types:
//
// 1. Plan data: what the user wants played and how often
//   - [Track] : a song identity with display metadata
//   - [Plan] : named, ordered list of [PlanEntry] values (track + repeat count) with pure edit operations
//
// 2. Persistent Entities: database-backed records with full lifecycle management
//   - [Run] : one scheduling call, its settings, outcome, and resulting track order
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
