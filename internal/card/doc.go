// Package card defines the typed cards shown during a design conversation.
//
// Card is a sealed union: only the six variant types in this package
// implement it, and each variant fixes its Kind at the type level so a
// card's kind cannot change after construction. JSON uses the "kind" field
// as the discriminant; Decode reads it first and then decodes the matching
// variant.
//
// Stored snapshots go through EncodeCanonical, which sorts object keys by
// UTF-16 code units and leaves string contents untouched. ContentHash hashes
// the same encoding with strings NFC-normalised.
package card
