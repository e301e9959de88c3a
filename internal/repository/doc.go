// Package repository implements data access for each entity (trainers,
// pokémon, teams, boxes, items, refresh tokens) over the database layer.
//
// Each repository is constructed with the Database it queries and is
// injected into the services that need it; nothing is reached through
// package-level state. Multi-step mutations that must hold an invariant
// (team capacity, roster renumbering, item consumption) run as single
// atomic transactions with THROW guards.
package repository
