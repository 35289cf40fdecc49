package vm

import (
	"fmt"

	"github.com/t81/t81vm/internal/t81vm/enummeta"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// execMakeOption implements MakeOptionSome/MakeOptionNone: interns the
// option into the structural-equality table and writes its handle.
func (it *Interpreter) execMakeOption(insn tisc.Insn) {
	s := it.State
	var v OptionValue
	if insn.Opcode == tisc.OpMakeOptionSome {
		v = OptionValue{HasValue: true, PayloadTag: it.regTag(insn.B), Payload: it.reg(insn.B)}
	}
	handle := s.InternOption(v)
	it.setReg(insn.A, int64(handle), TagOptionHandle)
}

// execMakeResult implements MakeResultOk/MakeResultErr.
func (it *Interpreter) execMakeResult(insn tisc.Insn) {
	s := it.State
	v := ResultValue{IsOk: insn.Opcode == tisc.OpMakeResultOk, PayloadTag: it.regTag(insn.B), Payload: it.reg(insn.B)}
	handle := s.InternResult(v)
	it.setReg(insn.A, int64(handle), TagResultHandle)
}

// execMakeEnum implements MakeEnumVariant/MakeEnumVariantPayload. insn.B
// carries the global variant id (already encoded via enummeta at program
// build time); for the Payload form insn.C names the source register
// holding the payload.
func (it *Interpreter) execMakeEnum(insn tisc.Insn) {
	s := it.State
	v := EnumValue{VariantID: insn.B}
	if insn.Opcode == tisc.OpMakeEnumVariantPayload {
		v.HasPayload = true
		v.PayloadTag = it.regTag(insn.C)
		v.Payload = it.reg(insn.C)
	}
	handle := s.InternEnum(v)
	it.setReg(insn.A, int64(handle), TagEnumHandle)
}

// execOptionUnwrap implements OptionUnwrap: traps IllegalInstruction when
// the option is empty.
func (it *Interpreter) execOptionUnwrap(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagOptionHandle); err != nil {
		return err
	}
	opt, ok := s.Option(int32(it.reg(insn.B)))
	if !ok || !opt.HasValue {
		return it.trap(TrapIllegalInstruction)
	}
	it.setReg(insn.A, opt.Payload, opt.PayloadTag)
	s.PC++
	return nil
}

// execResultUnwrap implements ResultUnwrapOk/ResultUnwrapErr: traps
// IllegalInstruction when unwrapping the variant the Result is not in.
func (it *Interpreter) execResultUnwrap(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagResultHandle); err != nil {
		return err
	}
	res, ok := s.Result(int32(it.reg(insn.B)))
	if !ok {
		return it.trap(TrapIllegalInstruction)
	}
	wantOk := insn.Opcode == tisc.OpResultUnwrapOk
	if res.IsOk != wantOk {
		return it.trap(TrapIllegalInstruction)
	}
	it.setReg(insn.A, res.Payload, res.PayloadTag)
	s.PC++
	return nil
}

// enumMetadataFor finds the EnumMetadata entry for enumID, if present.
func (it *Interpreter) enumMetadataFor(enumID int32) (tisc.EnumMetadata, bool) {
	for _, m := range it.Program.Meta.EnumMetadata {
		if m.EnumID == enumID {
			return m, true
		}
	}
	return tisc.EnumMetadata{}, false
}

// variantMetadataFor finds the variant metadata for a local variant index
// within an enum's metadata.
func variantMetadataFor(m tisc.EnumMetadata, localVariant int32) (tisc.EnumVariantMetadata, bool) {
	for _, v := range m.Variants {
		if v.Index == localVariant {
			return v, true
		}
	}
	return tisc.EnumVariantMetadata{}, false
}

// enumGuardNames resolves a global variant id to (enumName, variantName,
// payloadType, hasPayload) for reason-string formatting, falling back to
// numeric placeholders when metadata is absent.
func (it *Interpreter) enumGuardNames(variantID int32) (enumName, variantName, payloadType string, hasPayload bool) {
	enumID := enummeta.DecodeEnumID(variantID)
	localVariant := enummeta.DecodeVariantID(variantID)
	meta, ok := it.enumMetadataFor(enumID)
	if !ok {
		return fmt.Sprintf("enum%d", enumID), fmt.Sprintf("variant%d", localVariant), "", false
	}
	vm, ok := variantMetadataFor(meta, localVariant)
	if !ok {
		return meta.Name, fmt.Sprintf("variant%d", localVariant), "", false
	}
	return meta.Name, vm.Name, vm.PayloadType, vm.HasPayload
}

func formatEnumGuardReason(enumName, variantName, payloadType string, hasPayload bool, matchResult string) string {
	if hasPayload {
		return fmt.Sprintf("enum guard enum=%s variant=%s payload=%s match=%s", enumName, variantName, payloadType, matchResult)
	}
	return fmt.Sprintf("enum guard enum=%s variant=%s match=%s", enumName, variantName, matchResult)
}

func formatEnumPayloadReason(enumName, variantName, payloadType string, hasPayload bool) string {
	if hasPayload {
		return fmt.Sprintf("enum payload enum=%s variant=%s payload=%s", enumName, variantName, payloadType)
	}
	return fmt.Sprintf("enum payload enum=%s variant=%s", enumName, variantName)
}

// execEnumIsVariant implements EnumIsVariant: insn.B holds the enum
// handle, insn.C the expected global variant id (an immediate). Emits the
// normative enum guard reason regardless of outcome.
func (it *Interpreter) execEnumIsVariant(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagEnumHandle); err != nil {
		return err
	}
	ev, ok := s.Enum(int32(it.reg(insn.B)))
	if !ok {
		return it.trap(TrapIllegalInstruction)
	}
	match := ev.VariantID == insn.C
	enumName, variantName, payloadType, hasPayload := it.enumGuardNames(insn.C)
	result := "fail"
	if match {
		result = "pass"
	}
	s.applySegmentReason(formatEnumGuardReason(enumName, variantName, payloadType, hasPayload, result))
	v := boolToInt(match)
	it.setReg(insn.A, v, TagInt)
	s.Flags.SetFromInt64(v)
	s.PC++
	return nil
}

// execEnumUnwrapPayload implements EnumUnwrapPayload: traps
// IllegalInstruction when the enum instance carries no payload; emits the
// normative enum payload reason on success.
func (it *Interpreter) execEnumUnwrapPayload(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagEnumHandle); err != nil {
		return err
	}
	ev, ok := s.Enum(int32(it.reg(insn.B)))
	if !ok || !ev.HasPayload {
		return it.trap(TrapIllegalInstruction)
	}
	enumName, variantName, payloadType, hasPayload := it.enumGuardNames(ev.VariantID)
	s.applySegmentReason(formatEnumPayloadReason(enumName, variantName, payloadType, hasPayload))
	it.setReg(insn.A, ev.Payload, ev.PayloadTag)
	s.PC++
	return nil
}
