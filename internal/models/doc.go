// Package models defines the core domain models for Rafflebox.
//
// # Models
//
//   - Raffle: a sellable pool of entries with a single eventual winner
//   - Entry: one ticket-purchase record tied to a user and a raffle
//   - CreatorProfile: denormalized snapshot of the creator at raffle creation
//   - User: a registered account (email/password login)
//
// # Design Principles
//
//  1. Avoid circular references: relationships use ID strings, not pointers.
//  2. Entries are append-only until a winner is drawn; once Winner is set
//     the raffle is terminal and its entry list never changes again.
//  3. CreatorProfile is a point-in-time copy and is not kept in sync with
//     later profile edits. This staleness is accepted.
package models
