// Package models defines the core domain models for splitbill.
//
// # Models
//
//   - Bill: a saved bill in one of the four categories, with its line items,
//     surcharges and the computed shares
//   - LineItem: one priced entry on a bill, assigned to zero or more participants
//   - Share: the amount one participant owes on a bill, and whether it was paid
//   - Friend: an entry in the friends directory
//
// Participants are opaque string identifiers. The current user is "me" by
// default; friends are referenced by their Friend.ID.
//
// # Design Principles
//
// 1. **Calculation is separate**: models carry raw values; all split math lives
// in the calculator package and runs before a bill is saved
// 2. **Unrounded storage**: amounts are stored exactly as computed and only
// rounded for display
// 3. **Avoid circular references**: Use ID strings instead of pointers for relationships
package models
