// Package enummeta encodes and decodes the global enum-variant identifiers
// used by the VM's MakeEnumVariant/EnumIsVariant family of instructions.
// A variant id packs an enum id and a variant-local index into one int32 so
// the VM's register file (which holds plain integers) can carry either
// without a separate tag.
package enummeta

// EncodeVariantID packs an enum id and a variant-local index into one
// global variant id.
func EncodeVariantID(enumID, localVariant int32) int32 {
	return (enumID << 16) | (localVariant & 0xFFFF)
}

// DecodeEnumID extracts the enum id from a global variant id.
func DecodeEnumID(variantID int32) int32 {
	return variantID >> 16
}

// DecodeVariantID extracts the variant-local index from a global variant
// id.
func DecodeVariantID(variantID int32) int32 {
	return variantID & 0xFFFF
}
