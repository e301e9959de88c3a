// Package model defines the domain entities of the trainer API (trainers,
// pokémon, boxes, teams, items) and the RFC 9457 problem-details error
// vocabulary shared by the HTTP layer.
package model
