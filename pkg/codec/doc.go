// Package codec implements the self-describing tagged-union wire format
// spec.md §6 requires for event and command payloads: a "type" tag field
// naming the variant, and a "data" field holding the variant's own JSON
// encoding. Decode(Encode(v)) == v for every registered variant.
package codec
