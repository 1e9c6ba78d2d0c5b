// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - Bill: a shared expense (purchase, trip or flat bill) with one payer
//   - Settlement: a repayment from one member to another
//   - Group: a reusable set of members owning bills and settlements
//
// Participants are opaque identity strings. Nothing in this package resolves
// them to users; display names are a presentation concern.
//
// # Design Principles
//
// 1. **Amounts are decimals**: every monetary field uses decimal.Decimal
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Ledgers are derived**: no model stores who owes whom; ledgers are recomputed from bills
package models
