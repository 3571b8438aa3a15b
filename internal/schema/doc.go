// Package schema validates AI-generated card JSON against CUE definitions.
//
// There is one definition per generated card kind (interpret, propose,
// mockup, lens) and a union, #AnyCard. Validation reads the "kind"
// discriminant before anything else: a known kind is checked against its
// own definition, which gives precise error paths; anything else is checked
// against the union. Only JSON that passes is decoded into a card.Card.
package schema
